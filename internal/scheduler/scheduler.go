package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/services"
)

// Sender is the outbound chat operation the scheduler needs.
type Sender interface {
	SendMessage(chatID int64, text, parseMode string, replyMarkup interface{}) (int64, error)
}

// Scheduler arms one-shot timers for persisted reminders. A fired timer
// re-reads its schedule by id and deletes the row only after delivery, so
// an undelivered reminder stays in the store.
type Scheduler struct {
	sender    Sender
	schedules *services.ScheduleService
	roster    *services.RosterService

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func New(sender Sender, schedules *services.ScheduleService, roster *services.RosterService) *Scheduler {
	return &Scheduler{
		sender:    sender,
		schedules: schedules,
		roster:    roster,
		timers:    make(map[uint]*time.Timer),
	}
}

// Arm schedules delivery of the given persisted reminder to chatID.
func (s *Scheduler) Arm(scheduleID uint, runTime time.Time, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers[scheduleID] = time.AfterFunc(time.Until(runTime), func() {
		s.fire(scheduleID, chatID)
	})
}

func (s *Scheduler) fire(scheduleID uint, chatID int64) {
	s.mu.Lock()
	delete(s.timers, scheduleID)
	s.mu.Unlock()

	schedule, err := s.schedules.Get(scheduleID)
	if err != nil {
		log.Printf("[Scheduler] schedule %d gone before firing: %v", scheduleID, err)
		return
	}

	mentions := services.MentionList(s.roster.ResolveAll())
	text := fmt.Sprintf("⏰ *Scheduled Reminder*\n\n%s\n\n%s", schedule.Message, mentions)

	if _, err := s.sender.SendMessage(chatID, text, "Markdown", nil); err != nil {
		log.Printf("[Scheduler] send schedule %d: %v", scheduleID, err)
		return
	}

	if err := s.schedules.Delete(scheduleID); err != nil {
		log.Printf("[Scheduler] delete schedule %d: %v", scheduleID, err)
		return
	}

	log.Printf("[Scheduler] scheduled message sent: %s", schedule.Message)
}

// RestorePending scans schedules that survived a restart. The chat id is
// not persisted with the schedule, so these cannot be re-armed; each one is
// logged and left in place.
func (s *Scheduler) RestorePending() {
	pending, err := s.schedules.Pending(time.Now())
	if err != nil {
		log.Printf("[Scheduler] restore scan: %v", err)
		return
	}

	for _, schedule := range pending {
		log.Printf("[Scheduler] schedule %d found but skipped (chat_id not stored): %s",
			schedule.ScheduleID, schedule.Message)
	}
	if len(pending) > 0 {
		log.Printf("[Scheduler] %d scheduled jobs not restored (chat_id is not persisted)", len(pending))
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
