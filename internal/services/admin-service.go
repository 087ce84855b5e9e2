package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/interfaces"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

const verificationTokenTTL = 24 * time.Hour

type AdminService interface {
	ListPendingUsers() ([]dto.UserApprovalResponse, error)
	ListAllUsers() ([]dto.UserApprovalResponse, error)
	GetUser(userID uint) (*dto.UserApprovalResponse, error)

	// Decide approves or rejects a pending user. Approval additionally
	// requires a verified email.
	Decide(input dto.ApprovalDecisionRequest) (*dto.UserApprovalResponse, error)

	SendEmailVerification(userID uint) (*dto.SendVerificationResponse, error)
	VerifyEmail(userID uint, token string) error
	ChangeRole(adminID, userID uint, newRole string) (*dto.UserApprovalResponse, error)
	DashboardStats() (*dto.AdminDashboardStats, error)

	ListBannedWords() ([]dto.BannedWordResponse, error)
	AddBannedWord(word string) (*dto.BannedWordResponse, error)
	DeleteBannedWord(wordID uint) error
	ListFlaggedContent() ([]dto.FlaggedContentResponse, error)
}

type adminService struct {
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	moderationRepo repository.ModerationRepository
	producer       interfaces.ProducerHandler
	log            *slog.Logger
	testingMode    bool
}

func NewAdminService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	moderationRepo repository.ModerationRepository,
	producer interfaces.ProducerHandler,
	log *slog.Logger,
	testingMode bool,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		moderationRepo: moderationRepo,
		producer:       producer,
		log:            log,
		testingMode:    testingMode,
	}
}

func (a *adminService) ListPendingUsers() ([]dto.UserApprovalResponse, error) {
	status := domain.StatusPending
	users, err := a.userRepo.ListUsers(&status)
	if err != nil {
		return nil, err
	}
	return a.toApprovalResponses(users), nil
}

func (a *adminService) ListAllUsers() ([]dto.UserApprovalResponse, error) {
	users, err := a.userRepo.ListUsers(nil)
	if err != nil {
		return nil, err
	}
	return a.toApprovalResponses(users), nil
}

func (a *adminService) GetUser(userID uint) (*dto.UserApprovalResponse, error) {
	user, err := a.userRepo.FindUserByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", userID)
		}
		return nil, err
	}
	resp := a.toApprovalResponse(user)
	return &resp, nil
}

func (a *adminService) Decide(input dto.ApprovalDecisionRequest) (*dto.UserApprovalResponse, error) {
	if input.Approved == nil {
		return nil, apperr.InvalidState("Approval decision is required")
	}

	user, err := a.userRepo.UpdateUserInTx(input.UserID, func(user *domain.User) error {
		if user.Status != domain.StatusPending {
			return apperr.InvalidState("User is not in pending status")
		}
		if *input.Approved {
			if !user.EmailVerified {
				return apperr.InvalidState("Cannot approve user with unverified email. Please verify email first.")
			}
			user.Status = domain.StatusApproved
			user.RejectionReason = nil
			return nil
		}
		user.Status = domain.StatusRejected
		user.RejectionReason = input.RejectionReason
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", input.UserID)
		}
		return nil, err
	}
	resp := a.toApprovalResponse(user)
	return &resp, nil
}

func (a *adminService) SendEmailVerification(userID uint) (*dto.SendVerificationResponse, error) {
	token := uuid.NewString()
	now := time.Now()

	user, err := a.userRepo.UpdateUserInTx(userID, func(user *domain.User) error {
		if user.EmailVerified {
			return apperr.InvalidState("Email is already verified")
		}
		user.EmailVerificationToken = &token
		user.EmailVerificationSentAt = &now
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", userID)
		}
		return nil, err
	}

	// Mail delivery is best-effort; the token is already persisted and
	// can be resent.
	if a.producer != nil {
		event := dto.VerifyEmailEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Token:     token,
			ExpiresAt: now.Add(verificationTokenTTL).Format(time.RFC3339),
		}
		payload, _ := json.Marshal(event)
		if err := a.producer.PublishMessage([]byte("user.verify_email"), payload); err != nil {
			a.log.Error("failed to publish verification email event",
				"user_id", user.ID, "error", err)
		}
	}

	resp := &dto.SendVerificationResponse{Message: "Verification email sent"}
	if a.testingMode {
		resp.Token = token
	}
	return resp, nil
}

func (a *adminService) VerifyEmail(userID uint, token string) error {
	_, err := a.userRepo.UpdateUserInTx(userID, func(user *domain.User) error {
		if user.EmailVerified {
			return apperr.InvalidState("Email is already verified")
		}
		if user.EmailVerificationToken == nil || *user.EmailVerificationToken != token {
			return apperr.InvalidToken("Invalid verification token")
		}
		if user.EmailVerificationSentAt != nil &&
			user.EmailVerificationSentAt.Add(verificationTokenTTL).Before(time.Now()) {
			return apperr.InvalidToken("Verification token has expired")
		}
		user.EmailVerified = true
		user.EmailVerificationToken = nil
		return nil
	})
	if err != nil && repository.IsNotFound(err) {
		return apperr.NotFound("User", "id", userID)
	}
	return err
}

func (a *adminService) ChangeRole(adminID, userID uint, newRole string) (*dto.UserApprovalResponse, error) {
	if userID == adminID {
		return nil, apperr.Unauthorized("Cannot change your own role")
	}

	role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(newRole)))
	if !ok {
		return nil, apperr.InvalidState("Invalid role. Must be STUDENT or ADMIN")
	}

	user, err := a.userRepo.UpdateUserInTx(userID, func(user *domain.User) error {
		user.Role = role
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("User", "id", userID)
		}
		return nil, err
	}
	resp := a.toApprovalResponse(user)
	return &resp, nil
}

func (a *adminService) DashboardStats() (*dto.AdminDashboardStats, error) {
	stats := &dto.AdminDashboardStats{}
	var err error

	if stats.TotalUsers, err = a.userRepo.CountUsers(); err != nil {
		return nil, err
	}
	if stats.PendingApprovals, err = a.userRepo.CountByStatus(domain.StatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedUsers, err = a.userRepo.CountByStatus(domain.StatusApproved); err != nil {
		return nil, err
	}
	if stats.RejectedUsers, err = a.userRepo.CountByStatus(domain.StatusRejected); err != nil {
		return nil, err
	}
	if stats.StudentsCount, err = a.userRepo.CountByRole(domain.RoleStudent); err != nil {
		return nil, err
	}
	if stats.AdminsCount, err = a.userRepo.CountByRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	if stats.VerifiedEmails, err = a.userRepo.CountByEmailVerified(true); err != nil {
		return nil, err
	}
	if stats.UnverifiedEmails, err = a.userRepo.CountByEmailVerified(false); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *adminService) ListBannedWords() ([]dto.BannedWordResponse, error) {
	words, err := a.moderationRepo.ListBannedWords()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BannedWordResponse, 0, len(words))
	for _, w := range words {
		out = append(out, dto.BannedWordResponse{
			ID:      w.ID,
			Word:    w.Word,
			AddedAt: w.AddedAt,
		})
	}
	return out, nil
}

func (a *adminService) AddBannedWord(word string) (*dto.BannedWordResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return nil, apperr.InvalidState("Word cannot be empty")
	}

	if _, err := a.moderationRepo.FindBannedWord(normalized); err == nil {
		return nil, apperr.Duplicate("BannedWord", "word", normalized)
	}

	bw := &domain.BannedWord{Word: normalized}
	if err := a.moderationRepo.CreateBannedWord(bw); err != nil {
		// Backstop for a concurrent insert of the same word.
		if helper.IsDuplicateKey(err, "word") {
			return nil, apperr.Duplicate("BannedWord", "word", normalized)
		}
		return nil, err
	}
	return &dto.BannedWordResponse{
		ID:      bw.ID,
		Word:    bw.Word,
		AddedAt: bw.AddedAt,
	}, nil
}

func (a *adminService) DeleteBannedWord(wordID uint) error {
	if _, err := a.moderationRepo.FindBannedWordByID(wordID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.NotFound("BannedWord", "id", wordID)
		}
		return err
	}
	return a.moderationRepo.DeleteBannedWord(wordID)
}

func (a *adminService) ListFlaggedContent() ([]dto.FlaggedContentResponse, error) {
	content, err := a.moderationRepo.ListFlaggedContent()
	if err != nil {
		return nil, err
	}
	out := make([]dto.FlaggedContentResponse, 0, len(content))
	for _, fc := range content {
		out = append(out, dto.FlaggedContentResponse{
			ID:        fc.ID,
			UserID:    fc.UserID,
			UserEmail: fc.User.Email,
			UserName:  fmt.Sprintf("%s %s", fc.User.FirstName, fc.User.LastName),
			Content:   fc.Content,
			FlaggedAt: fc.FlaggedAt,
		})
	}
	return out, nil
}

func (a *adminService) toApprovalResponses(users []domain.User) []dto.UserApprovalResponse {
	out := make([]dto.UserApprovalResponse, 0, len(users))
	for i := range users {
		out = append(out, a.toApprovalResponse(&users[i]))
	}
	return out
}

func (a *adminService) toApprovalResponse(user *domain.User) dto.UserApprovalResponse {
	resp := dto.UserApprovalResponse{
		ID:                user.ID,
		Email:             user.Email,
		EmailVerified:     user.EmailVerified,
		NationalID:        user.NationalID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Status:            string(user.Status),
		Role:              string(user.Role),
		Year:              user.Year,
		Faculty:           user.Faculty.Name,
		Department:        user.Department.Name,
		NationalIDScanURL: user.NationalIDScan,
		RegistrationDate:  user.CreatedAt.Format(time.RFC3339),
		RejectionReason:   user.RejectionReason,
	}
	if user.BirthDate != nil {
		bd := user.BirthDate.Format("2006-01-02")
		resp.BirthDate = &bd
	}
	if profile, err := a.profileRepo.FindByUserID(user.ID); err == nil {
		resp.ProfilePhotoURL = profile.ProfilePhoto
	}
	return resp
}
