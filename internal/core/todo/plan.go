package todo

import (
	"time"

	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/validate"
	"github.com/hay-kot/criterio"
)

// Validate checks a new item's fields.
func (in CreateInput) Validate() error {
	return AsValidation(criterio.ValidateStruct(
		validate.TitleField("title", in.Title),
		in.Schedule.validate(),
	))
}

// PlanCreate returns the normalized content and the scheduled instant of a
// new item. Its created and modified timestamps and its first `new` event
// all use that instant.
func PlanCreate(in CreateInput, now time.Time, loc *time.Location) (Content, time.Time, error) {
	if err := in.Validate(); err != nil {
		return Content{}, time.Time{}, err
	}
	at, err := in.Schedule.Resolve(now, loc)
	if err != nil {
		return Content{}, time.Time{}, err
	}
	return Content{Title: in.Title, Details: in.Details}.Normalize(), at, nil
}

// PlanUpdate decides which transition an edit records.
//
//   - Rescheduled to tomorrow or a custom date: `re-assign` at the target.
//   - Today with changed content: `new` at now.
//   - Today, unchanged, bypass: `new` at now.
//   - Today, unchanged, last modified on another day: `re-assign` at now.
//   - Today, unchanged, already today: ErrConflict.
//
// The returned transition carries Content only when it changed.
func PlanUpdate(item Item, in UpdateInput, now time.Time, loc *time.Location) (Transition, error) {
	err := AsValidation(criterio.ValidateStruct(
		validate.TitleField("title", in.Title),
		in.Schedule.validate(),
	))
	if err != nil {
		return Transition{}, err
	}

	target, err := in.Schedule.Resolve(now, loc)
	if err != nil {
		return Transition{}, err
	}

	next := Content{Title: in.Title, Details: in.Details}.Normalize()
	changed := !next.SameAs(item.Content())

	tr := Transition{At: now, TargetAt: &target}
	if changed {
		tr.Content = &next
	}

	switch {
	case !in.Schedule.IsToday():
		tr.Status = status.Reassign
		tr.At = target
	case changed, in.Bypass:
		tr.Status = status.New
	case !SameDay(item.ModifiedAt, now, loc):
		tr.Status = status.Reassign
	default:
		return Transition{}, ErrConflict
	}

	return tr, nil
}
