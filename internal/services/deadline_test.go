package services

import (
	"testing"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineLifecycle(t *testing.T) {
	svc := NewDeadlineService(newTestDB(t))

	deadline, err := svc.Create("HW1", -100, "file-1", models.FileKindDocument)
	require.NoError(t, err)
	assert.NotZero(t, deadline.DeadlineID)
	assert.EqualValues(t, 0, deadline.MessageID)

	require.NoError(t, svc.SetMessageID(deadline.DeadlineID, 555))

	got, err := svc.Get(deadline.DeadlineID)
	require.NoError(t, err)
	assert.Equal(t, "HW1", got.Title)
	assert.EqualValues(t, 555, got.MessageID)
	assert.EqualValues(t, -100, got.ChatID)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCompleteIsIdempotent(t *testing.T) {
	svc := NewDeadlineService(newTestDB(t))
	deadline, err := svc.Create("HW1", -100, "file-1", models.FileKindDocument)
	require.NoError(t, err)

	already, err := svc.Complete(deadline.DeadlineID, 1)
	require.NoError(t, err)
	assert.False(t, already)

	// Repeating the signal never raises the count past one.
	for i := 0; i < 3; i++ {
		already, err = svc.Complete(deadline.DeadlineID, 1)
		require.NoError(t, err)
		assert.True(t, already)
	}

	count, err := svc.CompletionCount(deadline.DeadlineID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCompletedUserIDs(t *testing.T) {
	svc := NewDeadlineService(newTestDB(t))
	deadline, err := svc.Create("HW1", -100, "file-1", models.FileKindPhoto)
	require.NoError(t, err)

	for _, userID := range []int64{1, 3} {
		_, err := svc.Complete(deadline.DeadlineID, userID)
		require.NoError(t, err)
	}

	completed, err := svc.CompletedUserIDs(deadline.DeadlineID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 3: true}, completed)
}

func TestStatusesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeadlineService(db)

	older, err := svc.Create("Old", -100, "file-1", models.FileKindDocument)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Deadline{}).
		Where("deadline_id = ?", older.DeadlineID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer, err := svc.Create("New", -100, "file-2", models.FileKindDocument)
	require.NoError(t, err)

	_, err = svc.Complete(older.DeadlineID, 1)
	require.NoError(t, err)
	_, err = svc.Complete(older.DeadlineID, 2)
	require.NoError(t, err)

	statuses, err := svc.Statuses()
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, "New", statuses[0].Title)
	assert.EqualValues(t, 0, statuses[0].CompletedCount)
	assert.Equal(t, "Old", statuses[1].Title)
	assert.EqualValues(t, 2, statuses[1].CompletedCount)

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.DeadlineID, latest.DeadlineID)
}

func TestLatestWithNoDeadlines(t *testing.T) {
	svc := NewDeadlineService(newTestDB(t))

	_, err := svc.Latest()
	assert.Error(t, err)
}
