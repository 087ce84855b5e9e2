package dto

import (
	"time"

	"github.com/abdelwahab/campuscard-api/internal/domain"
)

type LoginRequest struct {
	// Identifier is an email address or a national ID.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SignUpRequest struct {
	FirstName    string `form:"firstName"`
	LastName     string `form:"lastName"`
	DateOfBirth  string `form:"dateOfBirth"` // YYYY-MM-DD
	Email        string `form:"email"`
	Password     string `form:"password"`
	NationalID   string `form:"nationalId"`
	Year         int    `form:"year"`
	FacultyID    uint   `form:"facultyId"`
	DepartmentID uint   `form:"departmentId"`
}

type SignUpResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AuthClaims is the verified content of a session token.
type AuthClaims struct {
	UserID    uint
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// UploadFile carries a multipart file through the service layer.
type UploadFile struct {
	Filename    string
	ContentType string
	Bytes       []byte
}
