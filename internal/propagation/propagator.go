package propagation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/tle"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// sgp4Cache holds initialized propagators for one TLE dataset.
// Immutable after construction; safe for concurrent reads.
type sgp4Cache struct {
	props     map[int]*SGP4Propagator
	fetchedAt time.Time
}

// Propagator samples satellites from a TLE dataset over a time grid.
type Propagator struct {
	pool   *WorkerPool
	logger *slog.Logger
	sgp4   atomic.Pointer[sgp4Cache]
	sgp4Mu sync.Mutex // serializes cache rebuilds
}

// NewPropagator creates a propagator that samples with pool.
func NewPropagator(pool *WorkerPool, logger *slog.Logger) *Propagator {
	return &Propagator{pool: pool, logger: logger}
}

// cachedProps returns initialized propagators for ds, rebuilding the cache
// when the dataset changed (double-checked locking).
func (p *Propagator) cachedProps(ds *tle.Dataset) map[int]*SGP4Propagator {
	if c := p.sgp4.Load(); c != nil && c.fetchedAt.Equal(ds.FetchedAt) {
		return c.props
	}

	p.sgp4Mu.Lock()
	defer p.sgp4Mu.Unlock()

	if c := p.sgp4.Load(); c != nil && c.fetchedAt.Equal(ds.FetchedAt) {
		return c.props
	}

	props := make(map[int]*SGP4Propagator, len(ds.Entries))
	var skipped int
	for _, entry := range ds.Entries {
		if _, ok := props[entry.NORADID]; ok {
			continue
		}
		sp, err := NewSGP4Propagator(entry.Line1, entry.Line2, entry.NORADID)
		if err != nil {
			p.logger.Warn("sgp4 init failed", "norad_id", entry.NORADID, "error", err)
			skipped++
			continue
		}
		props[entry.NORADID] = sp
	}

	p.logger.Debug("sgp4 propagator cache rebuilt",
		"cached", len(props),
		"skipped", skipped,
		"dataset_fetched_at", ds.FetchedAt.UTC().Format(time.RFC3339),
	)
	p.sgp4.Store(&sgp4Cache{props: props, fetchedAt: ds.FetchedAt})
	return props
}

// Track samples the satellite entry from ds at every timestamp as seen from obs.
func (p *Propagator) Track(ctx context.Context, ds *tle.Dataset, entry tle.TLEEntry, obs transform.ObserverPosition, times []time.Time) ([]visibility.Sample, error) {
	sp, ok := p.cachedProps(ds)[entry.NORADID]
	if !ok {
		return nil, fmt.Errorf("no usable elements for NORAD %d", entry.NORADID)
	}

	start := time.Now()
	samples, err := p.pool.Sample(ctx, times, func(t time.Time) (transform.LookAngles, error) {
		return sp.LookAngles(obs, t)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("satellite sampled",
		"norad_id", entry.NORADID,
		"samples", len(samples),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return samples, nil
}
