package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/interfaces"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 100
	maxNameLen     = 50
)

var nationalIDPattern = regexp.MustCompile(`^\d{14}$`)

type SignUpService interface {
	SignUp(ctx context.Context, input dto.SignUpRequest, scan dto.UploadFile) (*dto.SignUpResponse, error)
}

type signUpService struct {
	userRepo     repository.UserRepository
	academicRepo repository.AcademicRepository
	storage      interfaces.FileStorage
	auth         helper.Auth
	emailDomain  string
}

func NewSignUpService(
	userRepo repository.UserRepository,
	academicRepo repository.AcademicRepository,
	storage interfaces.FileStorage,
	auth helper.Auth,
	emailDomain string,
) SignUpService {
	return &signUpService{
		userRepo:     userRepo,
		academicRepo: academicRepo,
		storage:      storage,
		auth:         auth,
		emailDomain:  emailDomain,
	}
}

func (s *signUpService) SignUp(ctx context.Context, input dto.SignUpRequest, scan dto.UploadFile) (*dto.SignUpResponse, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.NationalID = strings.TrimSpace(input.NationalID)

	birthDate, fieldErrs := s.validate(input, scan)
	if len(fieldErrs) > 0 {
		return nil, apperr.Validation(fieldErrs)
	}

	if existing, err := s.userRepo.FindUserByEmail(input.Email); err == nil && existing != nil {
		return nil, apperr.Duplicate("User", "email", input.Email)
	}
	if existing, err := s.userRepo.FindUserByNationalID(input.NationalID); err == nil && existing != nil {
		return nil, apperr.Duplicate("User", "nationalId", input.NationalID)
	}

	faculty, err := s.academicRepo.FindFacultyByID(input.FacultyID)
	if err != nil {
		return nil, apperr.NotFound("Faculty", "id", input.FacultyID)
	}
	department, err := s.academicRepo.FindDepartmentByID(input.DepartmentID)
	if err != nil {
		return nil, apperr.NotFound("Department", "id", input.DepartmentID)
	}
	if department.FacultyID != faculty.ID {
		return nil, apperr.InvalidState("Department does not belong to the selected faculty")
	}
	if input.Year < 1 || input.Year > faculty.YearsNumbers {
		return nil, apperr.InvalidState("Invalid year for the selected faculty")
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          input.Email,
		Password:       hashed,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		BirthDate:      birthDate,
		NationalID:     input.NationalID,
		NationalIDScan: "pending-upload",
		Role:           domain.RoleStudent,
		Status:         domain.StatusPending,
		Year:           input.Year,
		FacultyID:      faculty.ID,
		DepartmentID:   department.ID,
	}
	profile := &domain.Profile{
		Visibility: domain.VisibilityPublic,
	}

	// The scan needs the assigned user id for its object key, so the
	// upload runs inside the registration transaction and a failed
	// upload rolls the user back.
	err = s.userRepo.RegisterUser(user, profile, func(userID uint) (string, error) {
		return s.storage.UploadNationalIDScan(ctx, userID, scan)
	})
	if err != nil {
		if helper.IsDuplicateKey(err, "email") {
			return nil, apperr.Duplicate("User", "email", input.Email)
		}
		if helper.IsDuplicateKey(err, "national_id") {
			return nil, apperr.Duplicate("User", "nationalId", input.NationalID)
		}
		return nil, err
	}

	return &dto.SignUpResponse{
		ID:      user.ID,
		Email:   user.Email,
		Status:  string(user.Status),
		Message: "User registered successfully. Awaiting admin approval.",
	}, nil
}

func (s *signUpService) validate(input dto.SignUpRequest, scan dto.UploadFile) (*time.Time, map[string]string) {
	fieldErrs := make(map[string]string)

	// Name limits count characters, not bytes.
	if input.FirstName == "" || utf8.RuneCountInString(input.FirstName) > maxNameLen {
		fieldErrs["firstName"] = "First name is required and must not exceed 50 characters"
	}
	if input.LastName == "" || utf8.RuneCountInString(input.LastName) > maxNameLen {
		fieldErrs["lastName"] = "Last name is required and must not exceed 50 characters"
	}
	if input.Email == "" || !strings.HasSuffix(input.Email, s.emailDomain) {
		fieldErrs["email"] = "Email must be a valid " + s.emailDomain + " address"
	}
	if len(input.Password) < minPasswordLen || len(input.Password) > maxPasswordLen {
		fieldErrs["password"] = "Password must be between 8 and 100 characters"
	}
	if !nationalIDPattern.MatchString(input.NationalID) {
		fieldErrs["nationalId"] = "National ID must be exactly 14 digits"
	}

	var birthDate *time.Time
	if input.DateOfBirth == "" {
		fieldErrs["dateOfBirth"] = "Date of birth is required"
	} else if parsed, err := time.Parse("2006-01-02", input.DateOfBirth); err != nil {
		fieldErrs["dateOfBirth"] = "Date of birth must be in YYYY-MM-DD format"
	} else if !parsed.Before(time.Now()) {
		fieldErrs["dateOfBirth"] = "Date of birth must be in the past"
	} else {
		birthDate = &parsed
	}

	if input.Year < 1 {
		fieldErrs["year"] = "Year must be at least 1"
	}
	if len(scan.Bytes) == 0 {
		fieldErrs["nationalIdScan"] = "National ID scan is required"
	}

	return birthDate, fieldErrs
}
