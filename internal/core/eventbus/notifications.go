package eventbus

import (
	"fmt"

	"github.com/colonyops/todomanage/internal/core/notify"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeReminderFired(func(p ReminderFiredPayload) {
		n := p.Notification
		r.publish(n.Level(), n.OwnerID, fmt.Sprintf("%s: %s", n.Title, n.Message))
	})

	r.bus.SubscribeReminderClosed(func(p ReminderClosedPayload) {
		if p.Reason != ReminderAutoClosed {
			return
		}
		r.publish(notify.LevelInfo, p.OwnerID, fmt.Sprintf("reminder for todo %d closed after its final notification", p.TodoID))
	})

	r.bus.SubscribeShareChanged(func(p ShareChangedPayload) {
		verb := "revoked"
		if p.Active {
			verb = "granted"
		}
		r.publish(notify.LevelInfo, p.OwnerID, fmt.Sprintf("read access for %s %s", p.ViewerID, verb))
	})
}

func (r *NotificationRouter) publish(level notify.Level, owner, msg string) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		OwnerID: owner,
		Message: msg,
	})
}
