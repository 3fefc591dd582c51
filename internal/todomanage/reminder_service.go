package todomanage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/logging"
	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/todo"
)

// ErrNoReminder is returned when cancelling an item without an enabled
// reminder.
var ErrNoReminder = errors.New("no enabled reminder")

// ReminderService arms reminders and delivers due notifications: at most
// reminder.MaxNotifications per reminder, spaced from the first one by
// reminder.Interval.
type ReminderService struct {
	items         todo.Store
	notifications notify.Store
	access        access
	bus           *eventbus.EventBus
	clock         Clock
	log           zerolog.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(items todo.Store, notifications notify.Store, acc access, bus *eventbus.EventBus, clock Clock, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		items:         items,
		notifications: notifications,
		access:        acc,
		bus:           bus,
		clock:         clock,
		log:           log.With().Str("component", "reminder-service").Logger(),
	}
}

// Set arms the reminder of an item owned by requester. Earlier delivery
// progress is discarded.
func (s *ReminderService) Set(ctx context.Context, requester string, id int64, in ReminderInput) (todo.Item, error) {
	item, err := s.access.owned(ctx, requester, id)
	if err != nil {
		return todo.Item{}, err
	}

	at, err := in.resolve(item.TargetAt, s.clock.loc())
	if err != nil {
		return todo.Item{}, err
	}

	return s.items.UpdateReminder(ctx, id, func(r *reminder.Reminder) error {
		r.Set(at)
		return nil
	})
}

// Clear removes the reminder of an item owned by requester.
func (s *ReminderService) Clear(ctx context.Context, requester string, id int64) (todo.Item, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return todo.Item{}, err
	}
	return s.items.UpdateReminder(ctx, id, func(r *reminder.Reminder) error {
		r.Clear()
		return nil
	})
}

// Cancel retires the reminder of an item owned by requester and resets its
// counters. It returns ErrNoReminder when no reminder was enabled.
func (s *ReminderService) Cancel(ctx context.Context, requester string, id int64) (todo.Item, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return todo.Item{}, err
	}

	item, err := s.items.UpdateReminder(ctx, id, func(r *reminder.Reminder) error {
		if !r.Cancel() {
			return ErrNoReminder
		}
		return nil
	})
	if err != nil {
		return todo.Item{}, err
	}

	s.bus.PublishReminderClosed(eventbus.ReminderClosedPayload{
		TodoID:  id,
		OwnerID: item.OwnerID,
		Reason:  eventbus.ReminderCancelled,
	})
	return item, nil
}

// Pending returns the reminders that should fire now, for one owner or for
// every owner when owner is empty. Candidates that already delivered every
// notification are closed on the way. A failed close is logged and the item
// skipped until the next poll.
func (s *ReminderService) Pending(ctx context.Context, owner string) ([]reminder.Due, error) {
	candidates, err := s.items.ListReminderCandidates(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}

	now := s.clock.now()
	due := make([]reminder.Due, 0, len(candidates))
	for _, item := range candidates {
		switch item.Reminder.Evaluate(now) {
		case reminder.AutoCloseNow:
			s.autoClose(ctx, item)
		case reminder.Fire:
			due = append(due, dueFor(item))
		}
	}
	return due, nil
}

func (s *ReminderService) autoClose(ctx context.Context, item todo.Item) {
	ctx = logging.WithTodoID(logging.WithUserID(ctx, item.OwnerID), item.ID)

	_, err := s.items.UpdateReminder(ctx, item.ID, func(r *reminder.Reminder) error {
		r.AutoClose()
		return nil
	})
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("auto-close reminder failed, skipping")
		return
	}

	s.log.Debug().Ctx(ctx).Msg("reminder auto-closed")
	s.bus.PublishReminderClosed(eventbus.ReminderClosedPayload{
		TodoID:  item.ID,
		OwnerID: item.OwnerID,
		Reason:  eventbus.ReminderAutoClosed,
	})
}

func dueFor(item todo.Item) reminder.Due {
	d := reminder.Due{
		TodoID:    item.ID,
		OwnerID:   item.OwnerID,
		Title:     item.Title,
		Details:   item.Details,
		Delivered: item.Reminder.Progress.Count(),
	}
	if item.Reminder.At != nil {
		d.ReminderAt = *item.Reminder.At
	}
	return d
}

// MarkSent records one delivered notification for an item. The increment and
// a possible auto-close are written together.
func (s *ReminderService) MarkSent(ctx context.Context, id int64) (todo.Item, error) {
	now := s.clock.now()
	item, err := s.items.UpdateReminder(ctx, id, func(r *reminder.Reminder) error {
		r.MarkSent(now)
		return nil
	})
	if err != nil {
		return todo.Item{}, err
	}

	if item.Reminder.Progress.Kind() == reminder.Closed {
		s.bus.PublishReminderClosed(eventbus.ReminderClosedPayload{
			TodoID:  id,
			OwnerID: item.OwnerID,
			Reason:  eventbus.ReminderAutoClosed,
		})
	}
	return item, nil
}

// ProcessFailure is one due reminder that could not be delivered.
type ProcessFailure struct {
	TodoID int64  `json:"todo_id"`
	Error  string `json:"error"`
}

// ProcessReport summarises one reminder processing run.
type ProcessReport struct {
	RanAt    time.Time             `json:"ran_at"`
	Sent     []notify.Notification `json:"sent"`
	Failures []ProcessFailure      `json:"failures,omitempty"`
}

// Process delivers every pending reminder for owner, or for every owner when
// owner is empty. Each notification is logged before its delivery is counted.
// A failing item is reported and the rest of the batch continues.
func (s *ReminderService) Process(ctx context.Context, owner string) (ProcessReport, error) {
	due, err := s.Pending(ctx, owner)
	if err != nil {
		return ProcessReport{}, err
	}

	report := ProcessReport{RanAt: s.clock.now(), Sent: []notify.Notification{}}
	for _, d := range due {
		n, err := s.deliver(ctx, d)
		if err != nil {
			s.log.Warn().Ctx(logging.WithTodoID(ctx, d.TodoID)).Err(err).Msg("reminder delivery failed")
			report.Failures = append(report.Failures, ProcessFailure{TodoID: d.TodoID, Error: err.Error()})
			continue
		}
		report.Sent = append(report.Sent, n)
	}

	if len(due) > 0 {
		s.log.Info().
			Int("sent", len(report.Sent)).
			Int("failed", len(report.Failures)).
			Msg("processed reminders")
	}
	return report, nil
}

func (s *ReminderService) deliver(ctx context.Context, d reminder.Due) (notify.Notification, error) {
	n := notify.FromDue(d, s.clock.now())
	if err := s.notifications.Save(ctx, n); err != nil {
		return notify.Notification{}, fmt.Errorf("save notification: %w", err)
	}
	if _, err := s.MarkSent(ctx, d.TodoID); err != nil {
		return notify.Notification{}, fmt.Errorf("mark sent: %w", err)
	}

	s.bus.PublishReminderFired(eventbus.ReminderFiredPayload{Notification: n})
	return n, nil
}

// ReminderView is an item's reminder as seen at one instant.
type ReminderView struct {
	TodoID     int64          `json:"todo_id"`
	Title      string         `json:"title"`
	ReminderAt *time.Time     `json:"reminder_at,omitempty"`
	Count      int            `json:"notification_count"`
	State      reminder.State `json:"state"`
	IsPending  bool           `json:"is_pending"`
	IsSent     bool           `json:"is_sent"`
}

// List returns owner's enabled reminders.
func (s *ReminderService) List(ctx context.Context, owner string) ([]ReminderView, error) {
	items, err := s.items.ListWithReminders(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	now := s.clock.now()
	out := make([]ReminderView, 0, len(items))
	for _, item := range items {
		r := item.Reminder
		if r.At == nil {
			continue
		}
		out = append(out, ReminderView{
			TodoID:     item.ID,
			Title:      item.Title,
			ReminderAt: r.At,
			Count:      r.Progress.Count(),
			State:      r.State(now),
			IsPending:  r.IsPending(now),
			IsSent:     r.Sent,
		})
	}
	return out, nil
}

// ShouldAutoClose reports whether every notification of an item visible to
// requester was delivered within one interval of the first.
func (s *ReminderService) ShouldAutoClose(ctx context.Context, requester string, id int64) (bool, error) {
	item, _, err := s.access.visible(ctx, requester, id)
	if err != nil {
		return false, err
	}
	return item.Reminder.ShouldAutoClose(s.clock.now()), nil
}

// Notifications returns owner's notification log, newest first.
func (s *ReminderService) Notifications(ctx context.Context, owner string, limit int) ([]notify.Notification, error) {
	return s.notifications.List(ctx, owner, limit)
}

// ClearNotifications empties owner's notification log.
func (s *ReminderService) ClearNotifications(ctx context.Context, owner string) error {
	return s.notifications.Clear(ctx, owner)
}
