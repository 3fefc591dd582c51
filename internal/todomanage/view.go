package todomanage

import (
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
)

// View is an item as presented to a requester.
type View struct {
	todo.Item
	Status   status.Status `json:"status"`
	InKIV    bool          `json:"in_kiv"`
	ReadOnly bool          `json:"read_only,omitempty"`
}

// currentStatus finds the status of the event an item points at within its
// history. Items without a pointer, or whose pointer is missing from the
// history, are pending.
func currentStatus(item todo.Item, history []tracker.Event) status.Status {
	if item.CurrentEventID == 0 {
		return status.Pending
	}
	for _, e := range history {
		if e.ID == item.CurrentEventID {
			return e.Status
		}
	}
	return status.Pending
}
