// Package planner runs a day of visibility computations for a list of
// targets and shapes the results into reports.
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// Status is the outcome for one target.
type Status string

const (
	StatusFound        Status = "found"
	StatusNotFound     Status = "not_found"
	StatusNoVisibility Status = "no_visibility"
)

// TargetResult is the outcome for one target. Mask is kept for charting
// and is nil for targets that were not found.
type TargetResult struct {
	Target  resolve.Target
	Status  Status
	Windows []visibility.Window
	Mask    visibility.Mask
	Raw     int
	Merged  bool
	Err     error
}

// Span returns the first-to-last visible sample interval of the target.
func (r TargetResult) Span(times []time.Time) (visibility.Window, bool) {
	return visibility.Span(r.Mask, times)
}

// Plan is a full day's result.
type Plan struct {
	Date    time.Time
	Times   []time.Time
	Results []TargetResult
}

// Config holds planner options.
type Config struct {
	Corridor visibility.Corridor
	Location *time.Location
	Order    visibility.Order
}

// Planner evaluates targets one after another against a shared corridor.
type Planner struct {
	resolver  resolve.Resolver
	builder   *visibility.Builder
	extractor *visibility.Extractor
	loc       *time.Location
	logger    *slog.Logger
}

// New creates a Planner.
func New(resolver resolve.Resolver, cfg Config, logger *slog.Logger) *Planner {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Planner{
		resolver:  resolver,
		builder:   visibility.NewBuilder(cfg.Corridor),
		extractor: visibility.NewExtractor(visibility.ExtractorConfig{Order: cfg.Order}),
		loc:       loc,
		logger:    logger,
	}
}

// Location returns the time zone the observing day is anchored to.
func (p *Planner) Location() *time.Location { return p.loc }

// Plan samples every target over date's calendar day. A target that cannot
// be resolved is recorded as not found and does not stop the others.
func (p *Planner) Plan(ctx context.Context, date time.Time, targets []resolve.Target) (*Plan, error) {
	start := time.Now()
	times := visibility.DayGrid(date, p.loc)
	plan := &Plan{
		Date:    times[0],
		Times:   times,
		Results: make([]TargetResult, 0, len(targets)),
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan.Results = append(plan.Results, p.evaluate(ctx, target, times))
	}

	metrics.RecordPlanRun(time.Since(start))
	p.logger.Info("plan computed",
		"date", plan.Date.Format("2006-01-02"),
		"targets", len(targets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return plan, nil
}

func (p *Planner) evaluate(ctx context.Context, target resolve.Target, times []time.Time) TargetResult {
	res := TargetResult{Target: target}
	category := target.Category
	if category == "" {
		category = "catalog"
	}

	start := time.Now()
	samples, err := p.resolver.Resolve(ctx, target, times)
	sampling := time.Since(start)
	if err != nil {
		res.Status = StatusNotFound
		res.Err = err
		metrics.RecordTarget(category, string(res.Status), 0, 0, false)
		p.logger.Warn("target not resolved", "target", target.Name, "category", target.Category, "error", err)
		return res
	}

	res.Mask = p.builder.Build(samples)
	ext := p.extractor.Extract(res.Mask, times)
	res.Windows = ext.Windows
	res.Raw = ext.Raw
	res.Merged = ext.Merged

	res.Status = StatusFound
	if !ext.Visible() {
		res.Status = StatusNoVisibility
	}

	metrics.RecordTarget(category, string(res.Status), sampling, len(res.Windows), res.Merged)
	p.logger.Debug("target evaluated",
		"target", target.Name,
		"category", target.Category,
		"status", res.Status,
		"windows", len(res.Windows),
		"merged", res.Merged,
		"sampling_ms", sampling.Milliseconds(),
	)
	return res
}
