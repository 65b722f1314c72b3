package models

import "time"

// Completion records that a user finished a deadline's material.
// The composite primary key makes repeated signals naturally idempotent.
type Completion struct {
	DeadlineID  uint      `gorm:"primaryKey;autoIncrement:false" json:"deadline_id"`
	UserID      int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completed_at"`
}
