package todomanage

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/kiv"
	"github.com/colonyops/todomanage/internal/core/logging"
	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
	"github.com/colonyops/todomanage/internal/core/validate"
	"github.com/colonyops/todomanage/internal/render"
)

// TodoService runs the item lifecycle: creation, edits, completion and
// deletion, each recorded as a status event in the same transaction that
// moves the item.
type TodoService struct {
	items  todo.Store
	events tracker.Store
	kiv    kiv.Store
	access access
	bus    *eventbus.EventBus
	clock  Clock
	log    zerolog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(items todo.Store, events tracker.Store, kivs kiv.Store, acc access, bus *eventbus.EventBus, clock Clock, log zerolog.Logger) *TodoService {
	return &TodoService{
		items:  items,
		events: events,
		kiv:    kivs,
		access: acc,
		bus:    bus,
		clock:  clock,
		log:    log.With().Str("component", "todo-service").Logger(),
	}
}

// Create schedules a new item for owner and records its first `new` event.
func (s *TodoService) Create(ctx context.Context, owner string, in todo.CreateInput) (todo.Item, error) {
	if err := validate.UserIDField("owner", owner); err != nil {
		return todo.Item{}, todo.AsValidation(err)
	}

	content, at, err := todo.PlanCreate(in, s.clock.now(), s.clock.loc())
	if err != nil {
		return todo.Item{}, err
	}

	html, err := render.HTML(content.Details)
	if err != nil {
		return todo.Item{}, todo.AsValidation(criterio.NewFieldErrors("details", err))
	}

	item := todo.Item{
		OwnerID:     owner,
		Title:       content.Title,
		Details:     content.Details,
		DetailsHTML: html,
		CreatedAt:   at,
		ModifiedAt:  at,
		TargetAt:    at,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return todo.Item{}, fmt.Errorf("create todo: %w", err)
	}

	ctx = logging.WithTodoID(logging.WithUserID(ctx, owner), item.ID)
	s.log.Debug().Ctx(ctx).Time("scheduled", at).Msg("todo created")
	s.bus.PublishTodoCreated(eventbus.TodoCreatedPayload{Item: &item})

	return item, nil
}

// Import creates an item from a markdown document with optional YAML front
// matter (title, schedule, date, remind_at). A remind_at value arms the
// reminder right after creation.
func (s *TodoService) Import(ctx context.Context, owner, document string) (todo.Item, error) {
	fm, body := todo.ParseDocument(document)
	in := fm.CreateInput(body)

	var remindAt *time.Time
	if fm.RemindAt != "" {
		at, err := ParseReminderTime(fm.RemindAt, s.clock.loc())
		if err != nil {
			return todo.Item{}, todo.AsValidation(criterio.NewFieldErrors("remind_at", err))
		}
		remindAt = &at
	}

	item, err := s.Create(ctx, owner, in)
	if err != nil {
		return todo.Item{}, err
	}

	if remindAt != nil {
		item, err = s.items.UpdateReminder(ctx, item.ID, func(r *reminder.Reminder) error {
			r.Set(*remindAt)
			return nil
		})
		if err != nil {
			return todo.Item{}, fmt.Errorf("set imported reminder: %w", err)
		}
	}

	return item, nil
}

// Update edits an item owned by requester. See todo.PlanUpdate for the event
// each kind of edit records.
func (s *TodoService) Update(ctx context.Context, requester string, id int64, in todo.UpdateInput) (todo.Item, tracker.Event, error) {
	item, err := s.access.owned(ctx, requester, id)
	if err != nil {
		return todo.Item{}, tracker.Event{}, err
	}

	tr, err := todo.PlanUpdate(item, in, s.clock.now(), s.clock.loc())
	if err != nil {
		return todo.Item{}, tracker.Event{}, err
	}

	if tr.Content != nil {
		html, err := render.HTML(tr.Content.Details)
		if err != nil {
			return todo.Item{}, tracker.Event{}, todo.AsValidation(criterio.NewFieldErrors("details", err))
		}
		tr.Content.DetailsHTML = html
	}

	return s.apply(ctx, requester, id, tr)
}

// MarkDone completes an item owned by requester. It is always permitted and
// records another `done` event when the item is already done.
func (s *TodoService) MarkDone(ctx context.Context, requester string, id int64) (todo.Item, tracker.Event, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return todo.Item{}, tracker.Event{}, err
	}
	return s.apply(ctx, requester, id, todo.Transition{Status: status.Done, At: s.clock.now()})
}

// MarkFailed records that an item owned by requester was not achieved.
func (s *TodoService) MarkFailed(ctx context.Context, requester string, id int64) (todo.Item, tracker.Event, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return todo.Item{}, tracker.Event{}, err
	}
	return s.apply(ctx, requester, id, todo.Transition{Status: status.Failed, At: s.clock.now()})
}

func (s *TodoService) apply(ctx context.Context, requester string, id int64, tr todo.Transition) (todo.Item, tracker.Event, error) {
	ev, err := s.items.Apply(ctx, id, tr)
	if err != nil {
		return todo.Item{}, tracker.Event{}, fmt.Errorf("apply %s: %w", tr.Status, err)
	}

	item, err := s.items.Get(ctx, id)
	if err != nil {
		return todo.Item{}, tracker.Event{}, fmt.Errorf("reload todo: %w", err)
	}

	ctx = logging.WithTodoID(logging.WithUserID(ctx, requester), id)
	s.log.Debug().Ctx(ctx).Str("status", string(ev.Status)).Time("at", ev.Timestamp).Msg("todo transitioned")
	s.bus.PublishTodoTransitioned(eventbus.TodoTransitionedPayload{Item: &item, Event: ev})

	return item, ev, nil
}

// Delete removes an item owned by requester together with its history.
func (s *TodoService) Delete(ctx context.Context, requester string, id int64) error {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	s.bus.PublishTodoDeleted(eventbus.TodoDeletedPayload{TodoID: id, OwnerID: requester})
	return nil
}

// Get returns an item visible to requester.
func (s *TodoService) Get(ctx context.Context, requester string, id int64) (View, error) {
	item, readOnly, err := s.access.visible(ctx, requester, id)
	if err != nil {
		return View{}, err
	}

	st, err := s.statusOf(ctx, id)
	if err != nil {
		return View{}, err
	}

	active, err := s.kiv.IsActive(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("check kiv: %w", err)
	}

	return View{Item: item, Status: st, InKIV: active, ReadOnly: readOnly}, nil
}

// CurrentStatus returns the status of an item visible to requester, or
// status.Pending when it has no authoritative event.
func (s *TodoService) CurrentStatus(ctx context.Context, requester string, id int64) (status.Status, error) {
	if _, _, err := s.access.visible(ctx, requester, id); err != nil {
		return "", err
	}
	return s.statusOf(ctx, id)
}

func (s *TodoService) statusOf(ctx context.Context, id int64) (status.Status, error) {
	st, ok, err := s.events.CurrentStatus(ctx, id)
	if err != nil {
		return "", fmt.Errorf("current status: %w", err)
	}
	if !ok {
		return status.Pending, nil
	}
	return st, nil
}

// History returns the ordered event history of an item visible to requester.
func (s *TodoService) History(ctx context.Context, requester string, id int64) ([]tracker.Event, error) {
	if _, _, err := s.access.visible(ctx, requester, id); err != nil {
		return nil, err
	}
	return s.events.History(ctx, id)
}

// ListDay returns owner's items whose modified time falls on the local day
// selected by choice (today or tomorrow), newest first.
func (s *TodoService) ListDay(ctx context.Context, owner string, choice todo.ScheduleChoice) ([]View, error) {
	start := todo.StartOfDay(s.clock.now(), s.clock.loc())
	switch choice {
	case "", todo.Today:
	case todo.Tomorrow:
		start = start.AddDate(0, 0, 1)
	default:
		return nil, todo.AsValidation(criterio.NewFieldErrors("day",
			fmt.Errorf("invalid day %q: must be today or tomorrow", choice)))
	}

	return s.views(ctx, todo.ListFilter{
		OwnerID:      owner,
		ModifiedFrom: start,
		ModifiedTo:   start.AddDate(0, 0, 1),
	}, false)
}

// Undone lists owner's items whose current status is not done, split into
// items set aside in keep-in-view and the rest.
type Undone struct {
	KIV    []View `json:"kiv"`
	Active []View `json:"active"`
}

// Undone returns owner's unfinished items.
func (s *TodoService) Undone(ctx context.Context, owner string) (Undone, error) {
	all, err := s.views(ctx, todo.ListFilter{OwnerID: owner}, false)
	if err != nil {
		return Undone{}, err
	}

	out := Undone{KIV: []View{}, Active: []View{}}
	for _, v := range all {
		if v.Status == status.Done {
			continue
		}
		if v.InKIV {
			out.KIV = append(out.KIV, v)
		} else {
			out.Active = append(out.Active, v)
		}
	}
	return out, nil
}

// ListShared returns the items of every owner sharing with viewer. The views
// are read-only.
func (s *TodoService) ListShared(ctx context.Context, viewer string) ([]View, error) {
	owners, err := s.access.shares.OwnersSharingWith(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("list sharing owners: %w", err)
	}

	var out []View
	for _, owner := range owners {
		views, err := s.views(ctx, todo.ListFilter{OwnerID: owner}, true)
		if err != nil {
			return nil, err
		}
		out = append(out, views...)
	}
	return out, nil
}

// views lists items with their current status and keep-in-view flag, using
// one history query and one keep-in-view query per owner.
func (s *TodoService) views(ctx context.Context, filter todo.ListFilter, readOnly bool) ([]View, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	histories, err := s.events.HistoryByOwner(ctx, filter.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load histories: %w", err)
	}

	entries, err := s.kiv.ListActive(ctx, filter.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list kiv: %w", err)
	}
	inKIV := make(map[int64]bool, len(entries))
	for _, e := range entries {
		inKIV[e.TodoID] = true
	}

	out := make([]View, 0, len(items))
	for _, item := range items {
		out = append(out, View{
			Item:     item,
			Status:   currentStatus(item, histories[item.ID]),
			InKIV:    inKIV[item.ID],
			ReadOnly: readOnly,
		})
	}
	return out, nil
}
