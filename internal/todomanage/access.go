package todomanage

import (
	"context"
	"fmt"

	"github.com/colonyops/todomanage/internal/core/share"
	"github.com/colonyops/todomanage/internal/core/todo"
)

// access resolves whether a requester may read or change an item. Items the
// requester may not see are reported as todo.ErrNotFound so their existence
// does not leak.
type access struct {
	items  todo.Store
	shares share.Store
}

// owned returns the item when requester owns it.
func (a access) owned(ctx context.Context, requester string, id int64) (todo.Item, error) {
	item, err := a.items.Get(ctx, id)
	if err != nil {
		return todo.Item{}, err
	}
	if item.OwnerID != requester {
		return todo.Item{}, todo.ErrNotFound
	}
	return item, nil
}

// visible returns the item when requester owns it or the owner shares with
// requester. readOnly is true for shared access.
func (a access) visible(ctx context.Context, requester string, id int64) (item todo.Item, readOnly bool, err error) {
	item, err = a.items.Get(ctx, id)
	if err != nil {
		return todo.Item{}, false, err
	}
	if item.OwnerID == requester {
		return item, false, nil
	}

	sharing, err := a.shares.IsSharing(ctx, item.OwnerID, requester)
	if err != nil {
		return todo.Item{}, false, fmt.Errorf("check sharing: %w", err)
	}
	if !sharing {
		return todo.Item{}, false, todo.ErrNotFound
	}
	return item, true, nil
}
