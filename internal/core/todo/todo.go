// Package todo defines the todo item aggregate: its content, schedule and the
// rules deciding which status event an edit records.
package todo

import (
	"strings"
	"time"

	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/status"
)

// Item is a single todo owned by one user. Its current status is the status
// of the event referenced by CurrentEventID.
type Item struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Details     string    `json:"details,omitempty"`
	DetailsHTML string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	TargetAt    time.Time `json:"target_at"`

	// CurrentEventID is zero when the item has no authoritative event.
	CurrentEventID int64 `json:"current_event_id,omitempty"`

	Reminder reminder.Reminder `json:"-"`
}

// Content is the user editable part of an item.
type Content struct {
	Title       string
	Details     string
	DetailsHTML string
}

// Normalize trims surrounding whitespace from the title and details.
func (c Content) Normalize() Content {
	c.Title = strings.TrimSpace(c.Title)
	c.Details = strings.TrimSpace(c.Details)
	return c
}

// SameAs compares trimmed title and details.
func (c Content) SameAs(other Content) bool {
	a, b := c.Normalize(), other.Normalize()
	return a.Title == b.Title && a.Details == b.Details
}

// Content returns the item's current content.
func (i Item) Content() Content {
	return Content{Title: i.Title, Details: i.Details, DetailsHTML: i.DetailsHTML}
}

// Transition is one aggregate mutation: an event appended at At, the item's
// modified timestamp moved to At and the current status pointer moved to the
// new event, all in one transaction.
type Transition struct {
	Status status.Status
	At     time.Time
	// Content replaces title and details when set.
	Content *Content
	// TargetAt replaces the scheduled date when set.
	TargetAt *time.Time
}

// ListFilter controls which items List returns.
type ListFilter struct {
	OwnerID string // required
	// ModifiedFrom and ModifiedTo bound the modified timestamp, [from, to).
	// Zero values leave that side open.
	ModifiedFrom time.Time
	ModifiedTo   time.Time
}

// CreateInput holds the fields of a new item.
type CreateInput struct {
	Title    string
	Details  string
	Schedule Schedule
}

// UpdateInput holds an edit of an existing item.
type UpdateInput struct {
	Title    string
	Details  string
	Schedule Schedule
	// Bypass forces a timestamp bump when nothing changed.
	Bypass bool
}
