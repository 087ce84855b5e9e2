package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTextMatchesCaseInsensitiveSubstrings(t *testing.T) {
	repo := newFakeModerationRepo("spam", "scam")
	svc := NewModerationService(repo, testLogger())

	matched, err := svc.CheckText("This is definitely not a SCAM, just Spamming")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"spam", "scam"}, matched)
}

func TestCheckTextEmptyInput(t *testing.T) {
	repo := newFakeModerationRepo("spam")
	svc := NewModerationService(repo, testLogger())

	matched, err := svc.CheckText("   ")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestCheckTextCleanInput(t *testing.T) {
	repo := newFakeModerationRepo("spam")
	svc := NewModerationService(repo, testLogger())

	matched, err := svc.CheckText("perfectly fine bio")
	require.NoError(t, err)
	assert.Empty(t, matched)

	ok, err := svc.ContainsBannedWords("perfectly fine bio")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateFieldsReturnsOnlyViolations(t *testing.T) {
	repo := newFakeModerationRepo("spam")
	svc := NewModerationService(repo, testLogger())

	violations, err := svc.ValidateFields(map[string]string{
		"bio":       "I love spam",
		"interests": "hiking",
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, []string{"spam"}, violations["bio"])
}

func TestLogViolationTruncatesSnippet(t *testing.T) {
	repo := newFakeModerationRepo("spam")
	svc := NewModerationService(repo, testLogger())

	svc.LogViolation(7, "bio", []string{"spam"}, strings.Repeat("x", 1000))

	require.Len(t, repo.flagged, 1)
	fc := repo.flagged[0]
	assert.Equal(t, uint(7), fc.UserID)
	assert.LessOrEqual(t, len(fc.Content), 500)
	assert.True(t, strings.HasPrefix(fc.Content, "[Field: bio] Banned words detected: spam | Content: "))
}

func TestLogViolationTruncatesOnRuneBoundary(t *testing.T) {
	repo := newFakeModerationRepo("spam")
	svc := NewModerationService(repo, testLogger())

	// Three-byte runes place the 500-byte limit inside a rune.
	svc.LogViolation(7, "bio", []string{"spam"}, strings.Repeat("€", 400))

	require.Len(t, repo.flagged, 1)
	fc := repo.flagged[0]
	assert.LessOrEqual(t, len(fc.Content), 500)
	assert.True(t, utf8.ValidString(fc.Content))
}
