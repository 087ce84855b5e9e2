package dto

// VerifyEmailEvent is published to the mail topic when an admin
// triggers email verification for a user.
type VerifyEmailEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
