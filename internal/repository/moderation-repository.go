package repository

import (
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"gorm.io/gorm"
)

type ModerationRepository interface {
	ListBannedWords() ([]domain.BannedWord, error)
	FindBannedWord(word string) (*domain.BannedWord, error)
	FindBannedWordByID(wordID uint) (*domain.BannedWord, error)
	CreateBannedWord(word *domain.BannedWord) error
	DeleteBannedWord(wordID uint) error

	CreateFlaggedContent(fc *domain.FlaggedContent) error
	ListFlaggedContent() ([]domain.FlaggedContent, error)
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) ListBannedWords() ([]domain.BannedWord, error) {
	var words []domain.BannedWord
	if err := r.db.Order("word ASC").Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *moderationRepository) FindBannedWord(word string) (*domain.BannedWord, error) {
	bw := &domain.BannedWord{}
	if err := r.db.Where("word = ?", word).First(bw).Error; err != nil {
		return nil, err
	}
	return bw, nil
}

func (r *moderationRepository) FindBannedWordByID(wordID uint) (*domain.BannedWord, error) {
	bw := &domain.BannedWord{}
	if err := r.db.First(bw, wordID).Error; err != nil {
		return nil, err
	}
	return bw, nil
}

func (r *moderationRepository) CreateBannedWord(word *domain.BannedWord) error {
	return r.db.Create(word).Error
}

func (r *moderationRepository) DeleteBannedWord(wordID uint) error {
	return r.db.Delete(&domain.BannedWord{}, wordID).Error
}

func (r *moderationRepository) CreateFlaggedContent(fc *domain.FlaggedContent) error {
	return r.db.Create(fc).Error
}

func (r *moderationRepository) ListFlaggedContent() ([]domain.FlaggedContent, error) {
	var content []domain.FlaggedContent
	if err := r.db.Preload("User").Order("flagged_at DESC").Find(&content).Error; err != nil {
		return nil, err
	}
	return content, nil
}
