// Package dashboard computes read-only rollups over the event histories of a
// user's todo items.
package dashboard

import (
	"slices"
	"strconv"
	"time"

	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
)

// RecentLimit bounds the recent activity feed.
const RecentLimit = 5

// Period is a calendar window used to bucket items by their modified time.
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods returns the periods in display order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeekly, PeriodMonthly, PeriodYearly}
}

// Counts is the done / re-assign / pending split of a set of items.
type Counts struct {
	Done     int `json:"done"`
	Reassign int `json:"re-assign"`
	Pending  int `json:"pending"`
}

// Total returns the number of classified items.
func (c Counts) Total() int { return c.Done + c.Reassign + c.Pending }

func (c *Counts) add(s status.Status) {
	switch s {
	case status.Done:
		c.Done++
	case status.Reassign:
		c.Reassign++
	default:
		c.Pending++
	}
}

// ReassignStats summarises how often items were pushed out.
type ReassignStats struct {
	Total               int     `json:"total_reassignments"`
	ItemsReassigned     int     `json:"todos_with_reassignments"`
	CompletedAfter      int     `json:"completed_after_reassignments"`
	AvgBeforeCompletion float64 `json:"avg_reassignments_before_completion"`
}

// Entry is one item with everything the rollup needs to know about it.
type Entry struct {
	Item    todo.Item
	History []tracker.Event
	Current status.Status
	InKIV   bool
}

// Recent is an item in the recent activity feed.
type Recent struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Status     status.Status `json:"status"`
	ModifiedAt time.Time     `json:"modified_at"`
}

// Rollup is the dashboard for one owner.
type Rollup struct {
	Counts        Counts            `json:"counts"`
	Periods       map[Period]Counts `json:"periods"`
	Reassignments ReassignStats     `json:"reassignments"`
	Recent        []Recent          `json:"recent"`
}

// Classify places a history in exactly one bucket. Completion is sticky: any
// done event wins over later events.
func Classify(history []tracker.Event) status.Status {
	switch {
	case tracker.Contains(history, status.Done):
		return status.Done
	case tracker.Contains(history, status.Reassign):
		return status.Reassign
	default:
		return status.Pending
	}
}

// Build computes the rollup of entries at now. Period boundaries are local
// midnights in loc. Entries without any events are left out of the counts.
func Build(entries []Entry, now time.Time, loc *time.Location) Rollup {
	bounds := periodStarts(now, loc)

	r := Rollup{Periods: make(map[Period]Counts, len(bounds))}
	for _, p := range Periods() {
		r.Periods[p] = Counts{}
	}

	for _, e := range entries {
		if len(e.History) == 0 {
			continue
		}

		class := Classify(e.History)
		r.Counts.add(class)

		for _, p := range Periods() {
			if e.Item.ModifiedAt.Before(bounds[p]) {
				continue
			}
			c := r.Periods[p]
			c.add(class)
			r.Periods[p] = c
		}

		reassigned := tracker.Count(e.History, status.Reassign)
		r.Reassignments.Total += reassigned
		if reassigned > 0 {
			r.Reassignments.ItemsReassigned++
		}
		if class == status.Done {
			r.Reassignments.CompletedAfter += reassigned
		}
	}

	if r.Counts.Done > 0 {
		avg := float64(r.Reassignments.CompletedAfter) / float64(r.Counts.Done)
		r.Reassignments.AvgBeforeCompletion = roundTenths(avg)
	}

	r.Recent = recent(entries)
	return r
}

// roundTenths rounds the exact binary value of f to one decimal, ties to even.
func roundTenths(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 1, 64), 64)
	return v
}

func recent(entries []Entry) []Recent {
	candidates := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.InKIV || e.Item.CurrentEventID == 0 {
			continue
		}
		if e.Current == status.Done || e.Current == status.KIV || e.Current == status.Pending {
			continue
		}
		candidates = append(candidates, e)
	}

	slices.SortStableFunc(candidates, func(a, b Entry) int {
		return b.Item.ModifiedAt.Compare(a.Item.ModifiedAt)
	})

	out := make([]Recent, 0, min(len(candidates), RecentLimit))
	for _, e := range candidates[:min(len(candidates), RecentLimit)] {
		out = append(out, Recent{
			ID:         e.Item.ID,
			Title:      e.Item.Title,
			Status:     e.Current,
			ModifiedAt: e.Item.ModifiedAt,
		})
	}
	return out
}

// periodStarts returns the inclusive lower bound of every period. Weeks start
// on Monday.
func periodStarts(now time.Time, loc *time.Location) map[Period]time.Time {
	today := todo.StartOfDay(now, loc)
	offset := (int(today.Weekday()) + 6) % 7

	return map[Period]time.Time{
		PeriodToday:   today,
		PeriodWeekly:  today.AddDate(0, 0, -offset),
		PeriodMonthly: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()),
		PeriodYearly:  time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()),
	}
}
