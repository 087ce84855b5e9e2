package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Visibility is the per-profile read-access policy.
type Visibility string

const (
	VisibilityPublic       Visibility = "public"
	VisibilityStudentsOnly Visibility = "students_only"
	VisibilityPrivate      Visibility = "private"
)

func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityStudentsOnly, VisibilityPrivate:
		return Visibility(s), true
	}
	return "", false
}

func (v Visibility) Value() (driver.Value, error) {
	return string(v), nil
}

func (v *Visibility) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan visibility: %w", err)
	}
	vis, ok := ParseVisibility(s)
	if !ok {
		return fmt.Errorf("invalid visibility value %q", s)
	}
	*v = vis
	return nil
}

// Profile is the one-to-one extension of User, created with the user at
// registration and deleted only alongside it.
type Profile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User       `json:"-"`
	ProfilePhoto *string    `gorm:"size:255" json:"profile_photo,omitempty"`
	Bio          string     `gorm:"type:text" json:"bio"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Linkedin     string     `gorm:"size:255" json:"linkedin"`
	Github       string     `gorm:"size:255" json:"github"`
	Interests    string     `gorm:"type:text" json:"interests"`
	Visibility   Visibility `gorm:"type:varchar(20);not null;default:public" json:"visibility"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
