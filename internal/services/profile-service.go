package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/interfaces"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

type ProfileService interface {
	GetOwnProfile(userID uint) (*dto.ProfileResponse, error)

	// GetProfile applies the visibility gate. viewer is nil for
	// unauthenticated requests.
	GetProfile(targetUserID uint, viewer *dto.AuthClaims) (*dto.ProfileResponse, error)

	// UpdateProfile patches user and profile fields after content
	// moderation. Any accepted edit resubmits the user for review.
	UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*dto.ProfileResponse, error)

	UpdateVisibility(userID uint, visibility string) (*dto.ProfileResponse, error)
	UploadProfilePhoto(ctx context.Context, userID uint, file dto.UploadFile) (*dto.ProfilePhotoResponse, error)
	UploadNationalIDScan(ctx context.Context, userID uint, file dto.UploadFile) (*dto.NationalIDScanResponse, error)
	ListPublicStudents() ([]dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	academicRepo repository.AcademicRepository
	storage      interfaces.FileStorage
	moderation   ModerationService
	log          *slog.Logger
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	academicRepo repository.AcademicRepository,
	storage interfaces.FileStorage,
	moderation ModerationService,
	log *slog.Logger,
) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		academicRepo: academicRepo,
		storage:      storage,
		moderation:   moderation,
		log:          log,
	}
}

func (p *profileService) GetOwnProfile(userID uint) (*dto.ProfileResponse, error) {
	user, err := p.userRepo.FindUserByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", userID)
		}
		return nil, err
	}
	profile, err := p.profileRepo.FindByUserID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("Profile", "userId", userID)
		}
		return nil, err
	}
	resp := buildProfileResponse(user, profile)
	return &resp, nil
}

func (p *profileService) GetProfile(targetUserID uint, viewer *dto.AuthClaims) (*dto.ProfileResponse, error) {
	user, err := p.userRepo.FindUserByID(targetUserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", targetUserID)
		}
		return nil, err
	}
	profile, err := p.profileRepo.FindByUserID(targetUserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("Profile", "userId", targetUserID)
		}
		return nil, err
	}

	if !canViewProfile(user, profile, viewer) {
		return nil, apperr.Unauthorized("Access denied: You don't have permission to view this profile")
	}

	resp := buildProfileResponse(user, profile)
	return &resp, nil
}

// canViewProfile is the visibility gate, evaluated in order: owner,
// admin, lifecycle status, then the profile's own visibility setting.
func canViewProfile(user *domain.User, profile *domain.Profile, viewer *dto.AuthClaims) bool {
	if viewer != nil && viewer.UserID == user.ID {
		return true
	}
	if viewer != nil && viewer.Role == domain.RoleAdmin {
		return true
	}
	// Pending and rejected users are hidden from everyone else.
	if user.Status != domain.StatusApproved {
		return false
	}
	switch profile.Visibility {
	case domain.VisibilityPublic:
		return true
	case domain.VisibilityStudentsOnly:
		return viewer != nil
	default:
		return false
	}
}

func (p *profileService) UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := p.moderate(userID, input); err != nil {
		return nil, err
	}

	user, profile, err := p.profileRepo.UpdateWithUser(userID, func(user *domain.User, profile *domain.Profile) error {
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.NationalID != nil && strings.TrimSpace(*input.NationalID) != "" {
			if !nationalIDPattern.MatchString(*input.NationalID) {
				return apperr.Validation(map[string]string{
					"nationalId": "National ID must be exactly 14 digits",
				})
			}
			user.NationalID = *input.NationalID
		}
		if input.FacultyID != nil {
			faculty, err := p.academicRepo.FindFacultyByID(*input.FacultyID)
			if err != nil {
				return apperr.NotFound("Faculty", "id", *input.FacultyID)
			}
			user.FacultyID = faculty.ID
			user.Faculty = *faculty
		}
		if input.DepartmentID != nil {
			department, err := p.academicRepo.FindDepartmentByID(*input.DepartmentID)
			if err != nil {
				return apperr.NotFound("Department", "id", *input.DepartmentID)
			}
			user.DepartmentID = department.ID
			user.Department = *department
		}
		if input.Year != nil {
			user.Year = *input.Year
		}

		if input.Bio != nil {
			profile.Bio = *input.Bio
		}
		if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
			profile.Phone = *input.Phone
		}
		if input.Linkedin != nil {
			profile.Linkedin = *input.Linkedin
		}
		if input.Github != nil {
			profile.Github = *input.Github
		}
		if input.Interests != nil {
			profile.Interests = *input.Interests
		}
		if input.Visibility != nil && strings.TrimSpace(*input.Visibility) != "" {
			vis, ok := domain.ParseVisibility(strings.ToLower(*input.Visibility))
			if !ok {
				return apperr.InvalidState("Invalid visibility. Must be PUBLIC, STUDENTS_ONLY or PRIVATE")
			}
			profile.Visibility = vis
		}

		// Every accepted edit resubmits the user for admin review.
		user.Status = domain.StatusPending
		user.RejectionReason = nil
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("Profile", "userId", userID)
		}
		return nil, err
	}

	resp := buildProfileResponse(user, profile)
	return &resp, nil
}

// moderate screens the free-text profile fields. A violation rejects
// the whole update and records every violating field for admin review.
func (p *profileService) moderate(userID uint, input dto.UpdateProfileRequest) error {
	fields := make(map[string]string)
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.Interests != nil {
		fields["interests"] = *input.Interests
	}
	if input.Linkedin != nil {
		fields["linkedin"] = *input.Linkedin
	}
	if input.Github != nil {
		fields["github"] = *input.Github
	}
	if len(fields) == 0 {
		return nil
	}

	violations, err := p.moderation.ValidateFields(fields)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}

	fieldNames := make([]string, 0, len(violations))
	wordSet := make(map[string]struct{})
	for field, words := range violations {
		fieldNames = append(fieldNames, field)
		for _, w := range words {
			wordSet[w] = struct{}{}
		}
		p.moderation.LogViolation(userID, field, words, fields[field])
	}
	sort.Strings(fieldNames)

	words := make([]string, 0, len(wordSet))
	for w := range wordSet {
		words = append(words, w)
	}
	sort.Strings(words)

	return apperr.InvalidState(fmt.Sprintf(
		"Content moderation violation: Inappropriate language detected in field(s): %s. Banned words: %s",
		strings.Join(fieldNames, ", "), strings.Join(words, ", ")))
}

func (p *profileService) UpdateVisibility(userID uint, visibility string) (*dto.ProfileResponse, error) {
	vis, ok := domain.ParseVisibility(strings.ToLower(strings.TrimSpace(visibility)))
	if !ok {
		return nil, apperr.InvalidState("Invalid visibility. Must be PUBLIC, STUDENTS_ONLY or PRIVATE")
	}

	user, profile, err := p.profileRepo.UpdateWithUser(userID, func(_ *domain.User, profile *domain.Profile) error {
		profile.Visibility = vis
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("Profile", "userId", userID)
		}
		return nil, err
	}

	resp := buildProfileResponse(user, profile)
	return &resp, nil
}

func (p *profileService) UploadProfilePhoto(ctx context.Context, userID uint, file dto.UploadFile) (*dto.ProfilePhotoResponse, error) {
	profile, err := p.profileRepo.FindByUserID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("Profile", "userId", userID)
		}
		return nil, err
	}

	// Old object removal is best-effort; a stale object must not block
	// the new upload.
	if profile.ProfilePhoto != nil && *profile.ProfilePhoto != "" {
		if err := p.storage.Delete(ctx, *profile.ProfilePhoto); err != nil {
			p.log.Warn("failed to delete old profile photo",
				"user_id", userID, "error", err)
		}
	}

	photoURL, err := p.storage.UploadProfilePhoto(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	profile.ProfilePhoto = &photoURL
	if err := p.profileRepo.SaveProfile(profile); err != nil {
		return nil, err
	}

	return &dto.ProfilePhotoResponse{
		PhotoURL: photoURL,
		Message:  "Profile photo uploaded successfully",
	}, nil
}

func (p *profileService) UploadNationalIDScan(ctx context.Context, userID uint, file dto.UploadFile) (*dto.NationalIDScanResponse, error) {
	user, err := p.userRepo.FindUserByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", userID)
		}
		return nil, err
	}

	if user.NationalIDScan != "" {
		if err := p.storage.Delete(ctx, user.NationalIDScan); err != nil {
			p.log.Warn("failed to delete old national id scan",
				"user_id", userID, "error", err)
		}
	}

	scanURL, err := p.storage.UploadNationalIDScan(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	user.NationalIDScan = scanURL
	if err := p.userRepo.SaveUser(user); err != nil {
		return nil, err
	}

	return &dto.NationalIDScanResponse{
		ScanURL: scanURL,
		Message: "National ID scan uploaded successfully",
	}, nil
}

func (p *profileService) ListPublicStudents() ([]dto.ProfileResponse, error) {
	profiles, err := p.profileRepo.ListPublicApprovedStudents()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, buildProfileResponse(&profiles[i].User, &profiles[i]))
	}
	return out, nil
}

func buildProfileResponse(user *domain.User, profile *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Year:         user.Year,
		Faculty:      user.Faculty.Name,
		Department:   user.Department.Name,
		ProfilePhoto: profile.ProfilePhoto,
		Bio:          profile.Bio,
		Phone:        profile.Phone,
		Linkedin:     profile.Linkedin,
		Github:       profile.Github,
		Interests:    profile.Interests,
		Visibility:   string(profile.Visibility),
		Status:       string(user.Status),
	}
}
