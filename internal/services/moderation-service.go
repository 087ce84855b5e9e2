package services

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

const flaggedSnippetLimit = 500

// ModerationService screens free-text fields against the banned-word
// dictionary. Matching is a case-insensitive substring scan so the
// dictionary stays simple; the dictionary is read per call and is
// expected to stay small.
type ModerationService interface {
	CheckText(text string) ([]string, error)
	ContainsBannedWords(text string) (bool, error)

	// ValidateFields returns only the violating fields, each with the
	// words that matched.
	ValidateFields(fields map[string]string) (map[string][]string, error)

	// LogViolation writes a flagged-content audit row. Failures are
	// logged and swallowed; auditing never blocks the caller.
	LogViolation(userID uint, field string, words []string, content string)
}

type moderationService struct {
	repo repository.ModerationRepository
	log  *slog.Logger
}

func NewModerationService(repo repository.ModerationRepository, log *slog.Logger) ModerationService {
	return &moderationService{repo: repo, log: log}
}

func (m *moderationService) CheckText(text string) ([]string, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, nil
	}

	words, err := m.repo.ListBannedWords()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, w := range words {
		if strings.Contains(text, strings.ToLower(w.Word)) {
			matched = append(matched, w.Word)
		}
	}
	return matched, nil
}

func (m *moderationService) ContainsBannedWords(text string) (bool, error) {
	matched, err := m.CheckText(text)
	if err != nil {
		return false, err
	}
	return len(matched) > 0, nil
}

func (m *moderationService) ValidateFields(fields map[string]string) (map[string][]string, error) {
	violations := make(map[string][]string)
	for field, text := range fields {
		matched, err := m.CheckText(text)
		if err != nil {
			return nil, err
		}
		if len(matched) > 0 {
			violations[field] = matched
		}
	}
	if len(violations) == 0 {
		return nil, nil
	}
	return violations, nil
}

func (m *moderationService) LogViolation(userID uint, field string, words []string, content string) {
	snippet := fmt.Sprintf("[Field: %s] Banned words detected: %s | Content: %s",
		field, strings.Join(words, ", "), content)
	if len(snippet) > flaggedSnippetLimit {
		// Cut on a rune boundary so the stored snippet stays valid UTF-8.
		cut := flaggedSnippetLimit
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}

	fc := &domain.FlaggedContent{
		UserID:  userID,
		Content: snippet,
	}
	if err := m.repo.CreateFlaggedContent(fc); err != nil {
		m.log.Error("failed to record flagged content",
			"user_id", userID, "field", field, "error", err)
	}
}
