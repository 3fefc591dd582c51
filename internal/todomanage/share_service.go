package todomanage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/share"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/validate"
)

// ShareService manages read-only sharing grants.
type ShareService struct {
	shares share.Store
	bus    *eventbus.EventBus
	clock  Clock
	log    zerolog.Logger
}

// NewShareService creates a new ShareService.
func NewShareService(shares share.Store, bus *eventbus.EventBus, clock Clock, log zerolog.Logger) *ShareService {
	return &ShareService{
		shares: shares,
		bus:    bus,
		clock:  clock,
		log:    log.With().Str("component", "share-service").Logger(),
	}
}

func validateGrant(owner, viewer string) error {
	err := criterio.ValidateStruct(
		validate.UserIDField("owner", owner),
		validate.UserIDField("viewer", viewer),
	)
	if err == nil && owner == viewer {
		err = criterio.NewFieldErrors("viewer", errors.New("cannot share with yourself"))
	}
	return todo.AsValidation(err)
}

// Grant gives viewer read access to every item owner has.
func (s *ShareService) Grant(ctx context.Context, owner, viewer string) error {
	if err := validateGrant(owner, viewer); err != nil {
		return err
	}
	if err := s.shares.Grant(ctx, owner, viewer, s.clock.now()); err != nil {
		return fmt.Errorf("grant share: %w", err)
	}

	s.log.Debug().Str("owner", owner).Str("viewer", viewer).Msg("share granted")
	s.bus.PublishShareChanged(eventbus.ShareChangedPayload{OwnerID: owner, ViewerID: viewer, Active: true})
	return nil
}

// Revoke removes viewer's read access. It reports false when there was none.
func (s *ShareService) Revoke(ctx context.Context, owner, viewer string) (bool, error) {
	revoked, err := s.shares.Revoke(ctx, owner, viewer)
	if err != nil {
		return false, fmt.Errorf("revoke share: %w", err)
	}

	if revoked {
		s.bus.PublishShareChanged(eventbus.ShareChangedPayload{OwnerID: owner, ViewerID: viewer, Active: false})
	}
	return revoked, nil
}

// List returns the active grants owner has given.
func (s *ShareService) List(ctx context.Context, owner string) ([]share.Grant, error) {
	return s.shares.ListByOwner(ctx, owner)
}

// SharedWith returns the owners sharing with viewer.
func (s *ShareService) SharedWith(ctx context.Context, viewer string) ([]string, error) {
	return s.shares.OwnersSharingWith(ctx, viewer)
}
