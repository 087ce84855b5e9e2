package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
)

func boolPtr(b bool) *bool { return &b }

type adminFixture struct {
	userRepo       *fakeUserRepo
	profileRepo    *fakeProfileRepo
	moderationRepo *fakeModerationRepo
	producer       *fakeProducer
	svc            AdminService
}

func newAdminFixture(testingMode bool) *adminFixture {
	userRepo := newFakeUserRepo()
	profileRepo := newFakeProfileRepo(userRepo)
	moderationRepo := newFakeModerationRepo()
	producer := &fakeProducer{}

	// 1: admin, 2: pending+verified, 3: pending+unverified, 4: approved
	userRepo.add(domain.User{ID: 1, Email: "admin@eng.psu.edu.eg", Role: domain.RoleAdmin, Status: domain.StatusApproved, EmailVerified: true})
	userRepo.add(domain.User{ID: 2, Email: "verified@eng.psu.edu.eg", Role: domain.RoleStudent, Status: domain.StatusPending, EmailVerified: true})
	userRepo.add(domain.User{ID: 3, Email: "unverified@eng.psu.edu.eg", Role: domain.RoleStudent, Status: domain.StatusPending})
	userRepo.add(domain.User{ID: 4, Email: "approved@eng.psu.edu.eg", Role: domain.RoleStudent, Status: domain.StatusApproved, EmailVerified: true})

	svc := NewAdminService(userRepo, profileRepo, moderationRepo, producer, testLogger(), testingMode)
	return &adminFixture{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		moderationRepo: moderationRepo,
		producer:       producer,
		svc:            svc,
	}
}

func TestApproveVerifiedPendingUser(t *testing.T) {
	f := newAdminFixture(false)
	reason := "old reason"
	f.userRepo.users[2].RejectionReason = &reason

	resp, err := f.svc.Decide(dto.ApprovalDecisionRequest{UserID: 2, Approved: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Nil(t, resp.RejectionReason)
	assert.Equal(t, domain.StatusApproved, f.userRepo.users[2].Status)
}

func TestApproveRequiresPendingStatus(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.Decide(dto.ApprovalDecisionRequest{UserID: 4, Approved: boolPtr(true)})
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "User is not in pending status", appErr.Message)
	assert.Equal(t, domain.StatusApproved, f.userRepo.users[4].Status)
}

func TestApproveRequiresVerifiedEmail(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.Decide(dto.ApprovalDecisionRequest{UserID: 3, Approved: boolPtr(true)})
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot approve user with unverified email. Please verify email first.", appErr.Message)
	assert.Equal(t, domain.StatusPending, f.userRepo.users[3].Status)
}

func TestRejectStoresReasonVerbatim(t *testing.T) {
	f := newAdminFixture(false)
	reason := "Blurry national ID scan"

	resp, err := f.svc.Decide(dto.ApprovalDecisionRequest{UserID: 2, Approved: boolPtr(false), RejectionReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
}

func TestDecideRequiresExplicitDecision(t *testing.T) {
	f := newAdminFixture(false)

	// A body that omits "approved" must not default to a rejection.
	var req dto.ApprovalDecisionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"userId":2}`), &req))

	_, err := f.svc.Decide(req)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Approval decision is required", appErr.Message)
	assert.Equal(t, domain.StatusPending, f.userRepo.users[2].Status)
}

func TestRejectRequiresPendingStatus(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.Decide(dto.ApprovalDecisionRequest{UserID: 4, Approved: boolPtr(false)})
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "User is not in pending status", appErr.Message)
}

func TestSendVerificationPublishesEventAndEchoesTokenInTestingMode(t *testing.T) {
	f := newAdminFixture(true)

	resp, err := f.svc.SendEmailVerification(3)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	user := f.userRepo.users[3]
	require.NotNil(t, user.EmailVerificationToken)
	assert.Equal(t, resp.Token, *user.EmailVerificationToken)
	assert.NotNil(t, user.EmailVerificationSentAt)

	require.Len(t, f.producer.keys, 1)
	assert.Equal(t, "user.verify_email", f.producer.keys[0])

	var event dto.VerifyEmailEvent
	require.NoError(t, json.Unmarshal(f.producer.values[0], &event))
	assert.Equal(t, uint(3), event.UserID)
	assert.Equal(t, "unverified@eng.psu.edu.eg", event.Email)
	assert.Equal(t, resp.Token, event.Token)
}

func TestSendVerificationHidesTokenOutsideTestingMode(t *testing.T) {
	f := newAdminFixture(false)

	resp, err := f.svc.SendEmailVerification(3)
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
}

func TestSendVerificationRejectsVerifiedEmail(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.SendEmailVerification(2)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Email is already verified", appErr.Message)
}

func TestVerifyEmailRoundTrip(t *testing.T) {
	f := newAdminFixture(true)

	resp, err := f.svc.SendEmailVerification(3)
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyEmail(3, resp.Token))

	user := f.userRepo.users[3]
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.EmailVerificationToken)
}

func TestVerifyEmailRejectsWrongToken(t *testing.T) {
	f := newAdminFixture(true)
	_, err := f.svc.SendEmailVerification(3)
	require.NoError(t, err)

	err = f.svc.VerifyEmail(3, "not-the-token")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid verification token", appErr.Message)
	assert.False(t, f.userRepo.users[3].EmailVerified)
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	f := newAdminFixture(true)
	resp, err := f.svc.SendEmailVerification(3)
	require.NoError(t, err)

	stale := time.Now().Add(-25 * time.Hour)
	f.userRepo.users[3].EmailVerificationSentAt = &stale

	err = f.svc.VerifyEmail(3, resp.Token)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Verification token has expired", appErr.Message)
}

func TestChangeRolePromotesStudent(t *testing.T) {
	f := newAdminFixture(false)

	resp, err := f.svc.ChangeRole(1, 4, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	// Status must be untouched by a role change.
	assert.Equal(t, "approved", resp.Status)
}

func TestChangeRoleForbidsSelfChange(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.ChangeRole(1, 1, "STUDENT")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "Cannot change your own role", appErr.Message)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.ChangeRole(1, 4, "SUPERUSER")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid role. Must be STUDENT or ADMIN", appErr.Message)
}

func TestDashboardStats(t *testing.T) {
	f := newAdminFixture(false)

	stats, err := f.svc.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.PendingApprovals)
	assert.Equal(t, int64(2), stats.ApprovedUsers)
	assert.Equal(t, int64(0), stats.RejectedUsers)
	assert.Equal(t, int64(3), stats.StudentsCount)
	assert.Equal(t, int64(1), stats.AdminsCount)
	assert.Equal(t, int64(3), stats.VerifiedEmails)
	assert.Equal(t, int64(1), stats.UnverifiedEmails)
}

func TestAddBannedWordNormalizesAndRejectsDuplicates(t *testing.T) {
	f := newAdminFixture(false)

	word, err := f.svc.AddBannedWord("  SPAM ")
	require.NoError(t, err)
	assert.Equal(t, "spam", word.Word)

	_, err = f.svc.AddBannedWord("Spam")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestAddBannedWordMapsConcurrentDuplicate(t *testing.T) {
	f := newAdminFixture(false)
	// The lookup misses but the insert hits the unique index, as happens
	// when two admins add the same word at once.
	f.moderationRepo.createErr = &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uni_banned_words_word",
	}

	_, err := f.svc.AddBannedWord("spam")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestAddBannedWordRejectsEmpty(t *testing.T) {
	f := newAdminFixture(false)

	_, err := f.svc.AddBannedWord("   ")
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "Word cannot be empty", appErr.Message)
}

func TestDeleteBannedWord(t *testing.T) {
	f := newAdminFixture(false)
	word, err := f.svc.AddBannedWord("spam")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteBannedWord(word.ID))

	err = f.svc.DeleteBannedWord(word.ID)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}
