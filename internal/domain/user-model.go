package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Role is persisted as a lower-case string.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan role: %w", err)
	}
	role, ok := ParseRole(s)
	if !ok {
		return fmt.Errorf("invalid role value %q", s)
	}
	*r = role
	return nil
}

// Status is the user lifecycle state. Transitions are one-directional
// from pending; a profile update resubmits the user back to pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *Status) Scan(src any) error {
	v, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan status: %w", err)
	}
	status, ok := ParseStatus(v)
	if !ok {
		return fmt.Errorf("invalid status value %q", v)
	}
	*s = status
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}

// User is the identity and lifecycle record. The password is a bcrypt
// hash and is never serialized.
type User struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	Email                   string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password                string     `gorm:"not null" json:"-"`
	FirstName               string     `gorm:"size:50;not null" json:"first_name"`
	LastName                string     `gorm:"size:50;not null" json:"last_name"`
	BirthDate               *time.Time `json:"birth_date,omitempty"`
	NationalID              string     `gorm:"column:national_id;uniqueIndex;size:50;not null" json:"national_id"`
	NationalIDScan          string     `gorm:"column:national_id_scan;not null" json:"national_id_scan"`
	Role                    Role       `gorm:"type:varchar(20);not null;default:student" json:"role"`
	Status                  Status     `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	EmailVerified           bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailVerificationToken  *string    `json:"-"`
	EmailVerificationSentAt *time.Time `json:"-"`
	RejectionReason         *string    `json:"rejection_reason,omitempty"`
	Year                    int        `gorm:"not null" json:"year"`
	FacultyID               uint       `gorm:"not null" json:"faculty_id"`
	Faculty                 Faculty    `json:"-"`
	DepartmentID            uint       `gorm:"not null" json:"department_id"`
	Department              Department `json:"-"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
