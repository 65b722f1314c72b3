package services

import (
	"errors"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/models"

	"gorm.io/gorm"
)

var ErrPastRunTime = errors.New("scheduled time must be in the future")

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

func (s *ScheduleService) Create(runTime time.Time, message string) (*models.ScheduledMessage, error) {
	if !runTime.After(time.Now()) {
		return nil, ErrPastRunTime
	}
	schedule := models.ScheduledMessage{
		RunTime: runTime,
		Message: message,
	}
	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *ScheduleService) Get(scheduleID uint) (*models.ScheduledMessage, error) {
	var schedule models.ScheduledMessage
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Delete marks a schedule as delivered by removing its row.
func (s *ScheduleService) Delete(scheduleID uint) error {
	return s.db.Delete(&models.ScheduledMessage{}, scheduleID).Error
}

func (s *ScheduleService) Pending(now time.Time) ([]models.ScheduledMessage, error) {
	var schedules []models.ScheduledMessage
	err := s.db.Where("run_time > ?", now).Order("run_time").Find(&schedules).Error
	return schedules, err
}

func (s *ScheduleService) All() ([]models.ScheduledMessage, error) {
	var schedules []models.ScheduledMessage
	err := s.db.Order("run_time").Find(&schedules).Error
	return schedules, err
}
