package todomanage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/dashboard"
	"github.com/colonyops/todomanage/internal/core/kiv"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
)

// DashboardService builds read-only rollups from full event histories.
type DashboardService struct {
	items  todo.Store
	events tracker.Store
	kiv    kiv.Store
	clock  Clock
	log    zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(items todo.Store, events tracker.Store, kivs kiv.Store, clock Clock, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		items:  items,
		events: events,
		kiv:    kivs,
		clock:  clock,
		log:    log.With().Str("component", "dashboard-service").Logger(),
	}
}

// Rollup classifies every item owner has.
func (s *DashboardService) Rollup(ctx context.Context, owner string) (dashboard.Rollup, error) {
	items, err := s.items.List(ctx, todo.ListFilter{OwnerID: owner})
	if err != nil {
		return dashboard.Rollup{}, fmt.Errorf("list todos: %w", err)
	}

	histories, err := s.events.HistoryByOwner(ctx, owner)
	if err != nil {
		return dashboard.Rollup{}, fmt.Errorf("load histories: %w", err)
	}

	active, err := s.kiv.ListActive(ctx, owner)
	if err != nil {
		return dashboard.Rollup{}, fmt.Errorf("list kiv: %w", err)
	}
	inKIV := make(map[int64]bool, len(active))
	for _, e := range active {
		inKIV[e.TodoID] = true
	}

	entries := make([]dashboard.Entry, 0, len(items))
	for _, item := range items {
		history := histories[item.ID]
		entries = append(entries, dashboard.Entry{
			Item:    item,
			History: history,
			Current: currentStatus(item, history),
			InKIV:   inKIV[item.ID],
		})
	}

	rollup := dashboard.Build(entries, s.clock.now(), s.clock.loc())
	s.log.Debug().Str("owner", owner).Int("items", len(entries)).Int("classified", rollup.Counts.Total()).Msg("dashboard built")
	return rollup, nil
}
