package domain

import "time"

// Faculty is static reference data seeded at boot. YearsNumbers bounds
// the academic year of every user registered under the faculty.
type Faculty struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description"`
	YearsNumbers int       `gorm:"not null" json:"years_numbers"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	FacultyID   uint      `gorm:"not null" json:"faculty_id"`
	Faculty     Faculty   `json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
