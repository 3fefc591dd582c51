// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within todomanage.
package eventbus

import (
	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
)

// Event names a published event.
type Event string

// Keep list sorted A-Z.
const (
	EventKivChanged            Event = "kiv.changed"
	EventNotificationPublished Event = "notification.published"
	EventReminderClosed        Event = "reminder.closed"
	EventReminderFired         Event = "reminder.fired"
	EventShareChanged          Event = "share.changed"
	EventTodoCreated           Event = "todo.created"
	EventTodoDeleted           Event = "todo.deleted"
	EventTodoTransitioned      Event = "todo.transitioned"
)

// TodoCreatedPayload is emitted when a new todo item is created.
type TodoCreatedPayload struct {
	Item *todo.Item
}

// TodoTransitionedPayload is emitted after an edit, reschedule or completion
// recorded a status event.
type TodoTransitionedPayload struct {
	Item  *todo.Item
	Event tracker.Event
}

// TodoDeletedPayload is emitted when an item and its history are removed.
type TodoDeletedPayload struct {
	TodoID  int64
	OwnerID string
}

// KivChangedPayload is emitted when an item enters or leaves keep-in-view.
type KivChangedPayload struct {
	TodoID int64
	UserID string
	Active bool
}

// ReminderFiredPayload is emitted after a reminder notification was recorded.
type ReminderFiredPayload struct {
	Notification notify.Notification
}

// ReminderClosedReason says why a reminder stopped firing.
type ReminderClosedReason string

const (
	ReminderAutoClosed ReminderClosedReason = "auto-closed"
	ReminderCancelled  ReminderClosedReason = "cancelled"
)

// ReminderClosedPayload is emitted when a reminder is retired.
type ReminderClosedPayload struct {
	TodoID  int64
	OwnerID string
	Reason  ReminderClosedReason
}

// ShareChangedPayload is emitted when an owner grants or revokes read access.
type ShareChangedPayload struct {
	OwnerID  string
	ViewerID string
	Active   bool
}

// NotificationPublishedPayload is a user-facing message derived from domain
// events by the NotificationRouter.
type NotificationPublishedPayload struct {
	Level   notify.Level
	OwnerID string
	Message string
}
