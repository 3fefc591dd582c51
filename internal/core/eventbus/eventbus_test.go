package eventbus_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/eventbus/testbus"
	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_DropWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	var dropped atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) { dropped.Add(1) })

	// Not started, so the second publish cannot be buffered.
	bus.PublishTodoDeleted(eventbus.TodoDeletedPayload{TodoID: 1})
	bus.PublishTodoDeleted(eventbus.TodoDeletedPayload{TodoID: 2})

	assert.Equal(t, int32(1), dropped.Load())
}

func TestEventBus_RecoversFromSubscriberPanic(t *testing.T) {
	bus := eventbus.New(8)

	var panics, delivered atomic.Int32
	bus.OnPanic(func(eventbus.Event, any, any) { panics.Add(1) })
	bus.SubscribeKivChanged(func(eventbus.KivChangedPayload) { panic("boom") })
	bus.SubscribeKivChanged(func(eventbus.KivChangedPayload) { delivered.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	bus.PublishKivChanged(eventbus.KivChangedPayload{TodoID: 1})

	require.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), panics.Load())
}

func TestEventBus_NilPublishIsNoop(t *testing.T) {
	var bus *eventbus.EventBus
	assert.NotPanics(t, func() {
		bus.PublishReminderFired(eventbus.ReminderFiredPayload{})
	})
}

func TestNotificationRouter(t *testing.T) {
	t.Run("reminder fired", func(t *testing.T) {
		tb := testbus.New(t)
		eventbus.NewNotificationRouter(tb.EventBus).Register()

		tb.PublishReminderFired(eventbus.ReminderFiredPayload{Notification: notify.Notification{
			OwnerID: "alice",
			Title:   "Reminder: Pay rent",
			Message: "Your task 'Pay rent' is due! (final reminder - will auto-close after this)",
			Final:   true,
		}})
		tb.AssertPublished(t, eventbus.EventNotificationPublished)

		got := testbus.Payloads[eventbus.NotificationPublishedPayload](tb, eventbus.EventNotificationPublished)
		require.Len(t, got, 1)
		assert.Equal(t, notify.LevelWarning, got[0].Level)
		assert.Equal(t, "alice", got[0].OwnerID)
		assert.Contains(t, got[0].Message, "Reminder: Pay rent")
	})

	t.Run("cancel is not announced", func(t *testing.T) {
		tb := testbus.New(t)
		eventbus.NewNotificationRouter(tb.EventBus).Register()

		tb.PublishReminderClosed(eventbus.ReminderClosedPayload{TodoID: 1, OwnerID: "alice", Reason: eventbus.ReminderCancelled})
		tb.AssertNotPublished(t, eventbus.EventNotificationPublished, 50*time.Millisecond)
	})

	t.Run("share granted", func(t *testing.T) {
		tb := testbus.New(t)
		eventbus.NewNotificationRouter(tb.EventBus).Register()

		tb.PublishShareChanged(eventbus.ShareChangedPayload{OwnerID: "alice", ViewerID: "bob", Active: true})
		tb.AssertPublished(t, eventbus.EventNotificationPublished)

		got := testbus.Payloads[eventbus.NotificationPublishedPayload](tb, eventbus.EventNotificationPublished)
		require.Len(t, got, 1)
		assert.Equal(t, notify.LevelInfo, got[0].Level)
		assert.Equal(t, "read access for bob granted", got[0].Message)
	})
}
