package todomanage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/kiv"
	"github.com/colonyops/todomanage/internal/core/todo"
)

// KivService sets items aside in the keep-in-view queue. It never touches
// the status history.
type KivService struct {
	kiv    kiv.Store
	access access
	bus    *eventbus.EventBus
	clock  Clock
	log    zerolog.Logger
}

// NewKivService creates a new KivService.
func NewKivService(kivs kiv.Store, acc access, bus *eventbus.EventBus, clock Clock, log zerolog.Logger) *KivService {
	return &KivService{
		kiv:    kivs,
		access: acc,
		bus:    bus,
		clock:  clock,
		log:    log.With().Str("component", "kiv-service").Logger(),
	}
}

// Enter sets an item owned by requester aside. Entering twice keeps one
// entry.
func (s *KivService) Enter(ctx context.Context, requester string, id int64) (kiv.Entry, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return kiv.Entry{}, err
	}

	entry, err := s.kiv.Enter(ctx, id, requester, s.clock.now())
	if err != nil {
		return kiv.Entry{}, fmt.Errorf("enter kiv: %w", err)
	}

	s.bus.PublishKivChanged(eventbus.KivChangedPayload{TodoID: id, UserID: requester, Active: true})
	return entry, nil
}

// Exit returns an item owned by requester to the active list. It reports
// false when the item was not set aside.
func (s *KivService) Exit(ctx context.Context, requester string, id int64) (bool, error) {
	if _, err := s.access.owned(ctx, requester, id); err != nil {
		return false, err
	}

	exited, err := s.kiv.Exit(ctx, id, s.clock.now())
	if err != nil {
		return false, fmt.Errorf("exit kiv: %w", err)
	}

	if exited {
		s.bus.PublishKivChanged(eventbus.KivChangedPayload{TodoID: id, UserID: requester, Active: false})
	}
	return exited, nil
}

// IsActive reports whether an item visible to requester is set aside.
func (s *KivService) IsActive(ctx context.Context, requester string, id int64) (bool, error) {
	if _, _, err := s.access.visible(ctx, requester, id); err != nil {
		return false, err
	}
	return s.kiv.IsActive(ctx, id)
}

// KivItem pairs an active entry with its item.
type KivItem struct {
	Entry kiv.Entry `json:"entry"`
	Item  todo.Item `json:"item"`
}

// List returns user's active entries, most recently entered first.
func (s *KivService) List(ctx context.Context, user string) ([]KivItem, error) {
	entries, err := s.kiv.ListActive(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list kiv: %w", err)
	}

	out := make([]KivItem, 0, len(entries))
	for _, e := range entries {
		item, err := s.access.items.Get(ctx, e.TodoID)
		if err != nil {
			return nil, fmt.Errorf("load kiv item %d: %w", e.TodoID, err)
		}
		out = append(out, KivItem{Entry: e, Item: item})
	}
	return out, nil
}
