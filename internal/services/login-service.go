package services

import (
	"regexp"
	"strings"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

type LoginService interface {
	Login(input dto.LoginRequest) (*dto.LoginResponse, error)
}

type loginService struct {
	repo repository.UserRepository
	auth helper.Auth
}

func NewLoginService(repo repository.UserRepository, auth helper.Auth) LoginService {
	return &loginService{repo: repo, auth: auth}
}

func (s *loginService) Login(input dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(input.Identifier)
	password := input.Password

	if identifier == "" || password == "" {
		return nil, apperr.InvalidCredentials()
	}

	// An unknown identifier and a wrong password surface the same error
	// so the response never reveals which identifiers exist.
	user := s.findByIdentifier(identifier)
	if user == nil {
		return nil, apperr.InvalidCredentials()
	}

	if err := s.auth.VerifyPassword(password, user.Password); err != nil {
		return nil, apperr.InvalidCredentials()
	}

	// Pending and rejected users may log in; feature access is gated on
	// status downstream.
	token, err := s.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:   token,
		ID:      user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		Status:  string(user.Status),
		Message: "Login successful",
	}, nil
}

// Email-shaped identifiers hit the email index, everything else the
// national-id one.
func (s *loginService) findByIdentifier(identifier string) *domain.User {
	if emailPattern.MatchString(identifier) {
		user, err := s.repo.FindUserByEmail(identifier)
		if err != nil {
			return nil
		}
		return user
	}
	user, err := s.repo.FindUserByNationalID(identifier)
	if err != nil {
		return nil
	}
	return user
}
