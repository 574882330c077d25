package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
)

// ErrNoVisibility is returned when a target never enters the corridor.
var ErrNoVisibility = errors.New("target is not visible on this day")

// Reserver stores plan entries.
type Reserver interface {
	Reserve(ctx context.Context, e schedule.PlanEntry) error
}

// Interstellar reports whether targets of category are outside the solar
// system. Everything that is neither a body nor a satellite comes from the
// catalog.
func Interstellar(category string) bool {
	return category != resolve.CategorySolar && category != resolve.CategorySatellite
}

// Reserve plans target for the whole span between its first and last
// visible sample on date. A target with a single visible sample has an
// empty span and is rejected by the store.
func (p *Planner) Reserve(ctx context.Context, store Reserver, date time.Time, target resolve.Target) (schedule.PlanEntry, error) {
	plan, err := p.Plan(ctx, date, []resolve.Target{target})
	if err != nil {
		return schedule.PlanEntry{}, err
	}
	return ReserveResult(ctx, store, plan.Results[0], plan.Times)
}

// ReserveResult stores the visible span of an already evaluated target.
func ReserveResult(ctx context.Context, store Reserver, r TargetResult, times []time.Time) (schedule.PlanEntry, error) {
	switch r.Status {
	case StatusNotFound:
		if r.Err != nil {
			return schedule.PlanEntry{}, r.Err
		}
		return schedule.PlanEntry{}, fmt.Errorf("%w: %s", resolve.ErrNotFound, r.Target.Name)
	case StatusNoVisibility:
		return schedule.PlanEntry{}, fmt.Errorf("%s: %w", r.Target.Name, ErrNoVisibility)
	}

	span, ok := r.Span(times)
	if !ok {
		return schedule.PlanEntry{}, fmt.Errorf("%s: %w", r.Target.Name, ErrNoVisibility)
	}

	entry := schedule.NewEntry(r.Target.Name, Interstellar(r.Target.Category), span)
	if err := store.Reserve(ctx, entry); err != nil {
		return entry, err
	}
	return entry, nil
}
