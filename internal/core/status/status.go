// Package status defines the closed set of lifecycle states recorded in a
// todo item's event history.
package status

import "fmt"

// Status names a lifecycle state.
type Status string

const (
	New      Status = "new"
	Done     Status = "done"
	Failed   Status = "failed"
	Reassign Status = "re-assign"
	// KIV is seeded for compatibility with older histories. Keep-in-view
	// membership lives in the kiv side table and never produces events.
	KIV Status = "kiv"

	// Pending is reported when an item has no authoritative event. It is not
	// part of the stored taxonomy.
	Pending Status = "pending"
)

// ID is the stable numeric identity of a Status in storage.
type ID int64

// seeded maps each status to the id it is seeded with. Ids start at 5 so
// histories imported from older databases keep their meaning.
var seeded = []struct {
	status Status
	id     ID
}{
	{New, 5},
	{Done, 6},
	{Failed, 7},
	{Reassign, 8},
	{KIV, 9},
}

// All returns the stored statuses in seed order.
func All() []Status {
	out := make([]Status, 0, len(seeded))
	for _, s := range seeded {
		out = append(out, s.status)
	}
	return out
}

// IsValid reports whether s is a member of the stored taxonomy.
func (s Status) IsValid() bool {
	_, ok := s.ID()
	return ok
}

// ID returns the seeded id for s.
func (s Status) ID() (ID, bool) {
	for _, e := range seeded {
		if e.status == s {
			return e.id, true
		}
	}
	return 0, false
}

// MustID returns the seeded id for s and panics for statuses outside the
// taxonomy. Only call it with the package constants.
func (s Status) MustID() ID {
	id, ok := s.ID()
	if !ok {
		panic(fmt.Sprintf("status: %q is not a seeded status", string(s)))
	}
	return id
}

// FromID resolves a stored id back to its Status.
func FromID(id ID) (Status, error) {
	for _, e := range seeded {
		if e.id == id {
			return e.status, nil
		}
	}
	return "", fmt.Errorf("unknown status id %d", id)
}

// Parse converts a user supplied name into a Status.
func Parse(name string) (Status, error) {
	s := Status(name)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status %q: must be one of new, done, failed, re-assign, kiv", name)
	}
	return s, nil
}

func (s Status) String() string { return string(s) }
