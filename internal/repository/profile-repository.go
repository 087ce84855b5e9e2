package repository

import (
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	SaveProfile(profile *domain.Profile) error
	FindByUserID(userID uint) (*domain.Profile, error)

	// ListPublicApprovedStudents is the directory query: approved
	// students with public profiles, user preloaded.
	ListPublicApprovedStudents() ([]domain.Profile, error)

	// UpdateWithUser loads both rows in one transaction, applies fn and
	// saves both. Used by profile updates that also resubmit the user
	// for review.
	UpdateWithUser(userID uint, fn func(user *domain.User, profile *domain.Profile) error) (*domain.User, *domain.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) SaveProfile(profile *domain.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) FindByUserID(userID uint) (*domain.Profile, error) {
	profile := &domain.Profile{}
	if err := r.db.Where("user_id = ?", userID).First(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) ListPublicApprovedStudents() ([]domain.Profile, error) {
	var profiles []domain.Profile
	err := r.db.
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.status = ? AND users.role = ? AND profiles.visibility = ?",
			domain.StatusApproved, domain.RoleStudent, domain.VisibilityPublic).
		Preload("User").Preload("User.Faculty").Preload("User.Department").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) UpdateWithUser(userID uint, fn func(user *domain.User, profile *domain.Profile) error) (*domain.User, *domain.Profile, error) {
	user := &domain.User{}
	profile := &domain.Profile{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Faculty").Preload("Department").
			First(user, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).First(profile).Error; err != nil {
			return err
		}
		if err := fn(user, profile); err != nil {
			return err
		}
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}
