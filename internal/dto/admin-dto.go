package dto

import "time"

type ApprovalDecisionRequest struct {
	UserID uint `json:"userId"`
	// Approved is a pointer so an omitted field is distinguishable from
	// an explicit rejection.
	Approved        *bool   `json:"approved"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// UserApprovalResponse is the admin-facing view of a user under review.
type UserApprovalResponse struct {
	ID                uint    `json:"id"`
	Email             string  `json:"email"`
	EmailVerified     bool    `json:"emailVerified"`
	NationalID        string  `json:"nationalId"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	BirthDate         *string `json:"birthDate,omitempty"`
	Status            string  `json:"status"`
	Role              string  `json:"role"`
	Year              int     `json:"year"`
	Faculty           string  `json:"faculty"`
	Department        string  `json:"department"`
	ProfilePhotoURL   *string `json:"profilePhotoUrl,omitempty"`
	NationalIDScanURL string  `json:"nationalIdScanUrl"`
	RegistrationDate  string  `json:"registrationDate"`
	RejectionReason   *string `json:"rejectionReason,omitempty"`
}

type AdminDashboardStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	PendingApprovals int64 `json:"pendingApprovals"`
	ApprovedUsers    int64 `json:"approvedUsers"`
	RejectedUsers    int64 `json:"rejectedUsers"`
	StudentsCount    int64 `json:"studentsCount"`
	AdminsCount      int64 `json:"adminsCount"`
	VerifiedEmails   int64 `json:"verifiedEmails"`
	UnverifiedEmails int64 `json:"unverifiedEmails"`
}

type SendVerificationResponse struct {
	Message string `json:"message"`
	// Token is only populated in testing mode.
	Token string `json:"token,omitempty"`
}

type AddBannedWordRequest struct {
	Word string `json:"word"`
}

type BannedWordResponse struct {
	ID      uint      `json:"id"`
	Word    string    `json:"word"`
	AddedAt time.Time `json:"addedAt"`
}

type FlaggedContentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	FlaggedAt time.Time `json:"flaggedAt"`
}
