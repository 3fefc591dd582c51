package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/todomanage/internal/core/reminder"
)

func TestFromDue(t *testing.T) {
	now := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

	first := FromDue(reminder.Due{TodoID: 3, OwnerID: "alice", Title: "Pay rent"}, now)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Reminder: Pay rent", first.Title)
	assert.Equal(t, "Your task 'Pay rent' is due! (1st reminder)", first.Message)
	assert.Equal(t, 1, first.Sequence)
	assert.False(t, first.Final)
	assert.Equal(t, LevelInfo, first.Level())
	assert.Equal(t, now, first.CreatedAt)

	last := FromDue(reminder.Due{TodoID: 3, OwnerID: "alice", Title: "Pay rent", Delivered: 2}, now)
	assert.NotEqual(t, first.ID, last.ID)
	assert.Equal(t, 3, last.Sequence)
	assert.True(t, last.Final)
	assert.Equal(t, LevelWarning, last.Level())
}
