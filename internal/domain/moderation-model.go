package domain

import "time"

// BannedWord is a moderation dictionary entry, stored lower-cased.
type BannedWord struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Word    string    `gorm:"uniqueIndex;size:100;not null" json:"word"`
	AddedAt time.Time `gorm:"column:added_at;autoCreateTime" json:"added_at"`
}

// FlaggedContent is an append-only audit record of a moderation
// violation, written best-effort when a profile update is rejected.
type FlaggedContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FlaggedAt time.Time `gorm:"column:flagged_at;autoCreateTime" json:"flagged_at"`
}

func (FlaggedContent) TableName() string {
	return "flagged_content"
}
