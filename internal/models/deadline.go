package models

import "time"

// FileKind values stored on a Deadline.
const (
	FileKindDocument = "document"
	FileKindPhoto    = "photo"
	FileKindVideo    = "video"
)

// Deadline is a posted study material with completion tracking.
// MessageID stays 0 until the artifact is actually posted to the chat.
type Deadline struct {
	DeadlineID uint      `gorm:"primaryKey" json:"deadline_id"`
	Title      string    `gorm:"not null" json:"title"`
	MessageID  int64     `gorm:"not null;default:0" json:"message_id"`
	ChatID     int64     `gorm:"not null" json:"chat_id"`
	FileID     string    `gorm:"not null" json:"file_id"`
	FileKind   string    `gorm:"size:16;not null" json:"file_kind"`
	CreatedAt  time.Time `json:"created_at"`
}
