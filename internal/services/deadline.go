package services

import (
	"time"

	"github.com/Vamsee295/telegram-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeadlineService struct {
	db *gorm.DB
}

func NewDeadlineService(db *gorm.DB) *DeadlineService {
	return &DeadlineService{db: db}
}

// Create inserts a deadline with MessageID 0. The caller patches the real
// message id in after the artifact is posted.
func (s *DeadlineService) Create(title string, chatID int64, fileID, fileKind string) (*models.Deadline, error) {
	deadline := models.Deadline{
		Title:    title,
		ChatID:   chatID,
		FileID:   fileID,
		FileKind: fileKind,
	}
	if err := s.db.Create(&deadline).Error; err != nil {
		return nil, err
	}
	return &deadline, nil
}

func (s *DeadlineService) SetMessageID(deadlineID uint, messageID int64) error {
	return s.db.Model(&models.Deadline{}).
		Where("deadline_id = ?", deadlineID).
		Update("message_id", messageID).Error
}

func (s *DeadlineService) Get(deadlineID uint) (*models.Deadline, error) {
	var deadline models.Deadline
	if err := s.db.First(&deadline, deadlineID).Error; err != nil {
		return nil, err
	}
	return &deadline, nil
}

func (s *DeadlineService) Latest() (*models.Deadline, error) {
	var deadline models.Deadline
	err := s.db.Order("created_at DESC, deadline_id DESC").First(&deadline).Error
	if err != nil {
		return nil, err
	}
	return &deadline, nil
}

func (s *DeadlineService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Deadline{}).Count(&count).Error
	return count, err
}

// Complete records a completion for (deadlineID, userID). Returns
// already=true when the row existed, including when a concurrent duplicate
// lost the primary-key race — a repeated signal is never an error.
func (s *DeadlineService) Complete(deadlineID uint, userID int64) (already bool, err error) {
	completion := models.Completion{
		DeadlineID:  deadlineID,
		UserID:      userID,
		CompletedAt: time.Now(),
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 0, nil
}

// CompletionCount is always derived fresh from the store, never cached.
func (s *DeadlineService) CompletionCount(deadlineID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Completion{}).
		Where("deadline_id = ?", deadlineID).
		Count(&count).Error
	return count, err
}

func (s *DeadlineService) CompletedUserIDs(deadlineID uint) (map[int64]bool, error) {
	var ids []int64
	err := s.db.Model(&models.Completion{}).
		Where("deadline_id = ?", deadlineID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	completed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

type DeadlineStatus struct {
	DeadlineID     uint      `json:"deadline_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	CompletedCount int64     `json:"completed_count"`
}

// Statuses lists all deadlines newest-first with their completion counts.
func (s *DeadlineService) Statuses() ([]DeadlineStatus, error) {
	var rows []DeadlineStatus
	err := s.db.Table("deadlines").
		Select("deadlines.deadline_id, deadlines.title, deadlines.created_at, COUNT(completions.user_id) AS completed_count").
		Joins("LEFT JOIN completions ON completions.deadline_id = deadlines.deadline_id").
		Group("deadlines.deadline_id").
		Order("deadlines.created_at DESC, deadlines.deadline_id DESC").
		Scan(&rows).Error
	return rows, err
}
