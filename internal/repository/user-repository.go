package repository

import (
	"errors"

	"github.com/abdelwahab/campuscard-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) error
	SaveUser(user *domain.User) error
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByNationalID(nationalID string) (*domain.User, error)
	FindUserByID(userID uint) (*domain.User, error)
	ListUsers(status *domain.Status) ([]domain.User, error)

	// RegisterUser creates the user, obtains the national-id scan URL via
	// uploadScan (called with the newly assigned id), stores the URL and
	// creates the profile in one transaction. An upload failure
	// rolls back the user row.
	RegisterUser(user *domain.User, profile *domain.Profile, uploadScan func(userID uint) (string, error)) error

	// UpdateUserInTx re-reads the user inside a transaction, applies fn
	// and saves. Guards inside fn therefore see committed state, which
	// makes lifecycle transitions at-most-once under concurrency.
	UpdateUserInTx(userID uint, fn func(user *domain.User) error) (*domain.User, error)

	CountUsers() (int64, error)
	CountByStatus(status domain.Status) (int64, error)
	CountByRole(role domain.Role) (int64, error)
	CountByEmailVerified(verified bool) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) SaveUser(user *domain.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.Preload("Faculty").Preload("Department").
		First(user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByNationalID(nationalID string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.Preload("Faculty").Preload("Department").
		First(user, "national_id = ?", nationalID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.Preload("Faculty").Preload("Department").
		First(user, userID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ListUsers(status *domain.Status) ([]domain.User, error) {
	var users []domain.User
	q := r.db.Preload("Faculty").Preload("Department").Order("created_at ASC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) RegisterUser(user *domain.User, profile *domain.Profile, uploadScan func(userID uint) (string, error)) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		scanURL, err := uploadScan(user.ID)
		if err != nil {
			return err
		}
		user.NationalIDScan = scanURL
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func (r *userRepository) UpdateUserInTx(userID uint, fn func(user *domain.User) error) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Faculty").Preload("Department").
			First(user, userID).Error; err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CountUsers() (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountByStatus(status domain.Status) (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *userRepository) CountByRole(role domain.Role) (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *userRepository) CountByEmailVerified(verified bool) (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("email_verified = ?", verified).Count(&n).Error
	return n, err
}

// IsNotFound reports whether err is the store's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
