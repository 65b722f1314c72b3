package scheduler

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/models"
	"github.com/Vamsee295/telegram-bot/internal/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeSender struct {
	ch chan sentMessage
}

func (f *fakeSender) SendMessage(chatID int64, text, parseMode string, replyMarkup interface{}) (int64, error) {
	f.ch <- sentMessage{ChatID: chatID, Text: text}
	return 1, nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeSender, *services.ScheduleService) {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Member{}, &models.ScheduledMessage{}))

	sender := &fakeSender{ch: make(chan sentMessage, 1)}
	schedules := services.NewScheduleService(db)
	roster := services.NewRosterService(db, []services.RosterEntry{
		{UserID: 1, FirstName: "Alice"},
		{UserID: 2, FirstName: "Bob"},
	})

	s := New(sender, schedules, roster)
	t.Cleanup(s.Stop)
	return s, sender, schedules
}

func TestSchedulerDeliversAndDeletes(t *testing.T) {
	s, sender, schedules := newTestScheduler(t)

	schedule, err := schedules.Create(time.Now().Add(30*time.Millisecond), "class soon")
	require.NoError(t, err)
	s.Arm(schedule.ScheduleID, schedule.RunTime, -42)

	select {
	case sent := <-sender.ch:
		assert.EqualValues(t, -42, sent.ChatID)
		assert.Contains(t, sent.Text, "class soon")
		assert.Contains(t, sent.Text, "tg://user?id=1")
		assert.Contains(t, sent.Text, "tg://user?id=2")
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled message was not delivered")
	}

	require.Eventually(t, func() bool {
		_, err := schedules.Get(schedule.ScheduleID)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond, "delivered schedule should be deleted")
}

func TestSchedulerSkipsDeletedSchedule(t *testing.T) {
	s, sender, _ := newTestScheduler(t)

	// Arm an id that has no backing row; the fire must re-read and bail.
	s.Arm(999, time.Now().Add(20*time.Millisecond), -42)

	select {
	case sent := <-sender.ch:
		t.Fatalf("unexpected delivery: %q", sent.Text)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSchedulerStopCancelsTimers(t *testing.T) {
	s, sender, schedules := newTestScheduler(t)

	schedule, err := schedules.Create(time.Now().Add(50*time.Millisecond), "never sent")
	require.NoError(t, err)
	s.Arm(schedule.ScheduleID, schedule.RunTime, -42)
	s.Stop()

	select {
	case sent := <-sender.ch:
		t.Fatalf("unexpected delivery after stop: %q", sent.Text)
	case <-time.After(300 * time.Millisecond):
	}

	// Undelivered schedules survive in the store.
	got, err := schedules.Get(schedule.ScheduleID)
	require.NoError(t, err)
	assert.True(t, strings.Contains(got.Message, "never"))
}
