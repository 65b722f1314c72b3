package models

import "time"

// Member is a chat participant auto-registered from group messages.
// The seed list in the roster service covers members who never wrote anything.
type Member struct {
	UserID       int64     `gorm:"primaryKey" json:"user_id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
}
