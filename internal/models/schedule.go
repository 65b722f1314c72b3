package models

import "time"

// ScheduledMessage is a one-shot reminder persisted until delivered.
// The row is deleted after successful delivery; deletion is the commit
// signal for "delivered". The originating chat id is not persisted, so
// schedules cannot be re-armed after a restart (see scheduler.RestorePending).
type ScheduledMessage struct {
	ScheduleID uint      `gorm:"primaryKey" json:"schedule_id"`
	RunTime    time.Time `gorm:"not null" json:"run_time"`
	Message    string    `gorm:"not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
