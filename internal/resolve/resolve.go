// Package resolve turns a named target into horizontal samples over a time
// grid. Each target category has its own strategy: solar-system bodies come
// from the ephemeris, satellites from SGP4 and everything else from the
// catalog.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/catalog"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/ephemeris"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/propagation"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/tle"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// ErrNotFound is returned when no strategy can place the target on the sky.
var ErrNotFound = errors.New("target not found")

// Target categories with a dedicated strategy. Any other category is
// looked up in the catalog.
const (
	CategorySolar     = "solar"
	CategorySatellite = "satellite"
)

// pulsarPrefix is tried first for catalog names; the site mostly observes pulsars.
const pulsarPrefix = "PSR "

// Target is a name and the category it was requested with.
type Target struct {
	Name     string
	Category string
}

// Resolver produces one sample per timestamp for a target.
type Resolver interface {
	Resolve(ctx context.Context, target Target, times []time.Time) ([]visibility.Sample, error)
}

// CatalogLookup maps a name to J2000 coordinates.
type CatalogLookup interface {
	Lookup(ctx context.Context, name string) (catalog.Coordinates, error)
}

// TLESource provides the current TLE dataset.
type TLESource interface {
	Load(ctx context.Context) (*tle.Dataset, error)
}

// Oracle is the Resolver used in production.
type Oracle struct {
	observer   transform.ObserverPosition
	pool       *propagation.WorkerPool
	catalog    CatalogLookup
	tles       TLESource
	propagator *propagation.Propagator
	logger     *slog.Logger
}

// NewOracle creates an Oracle for observer. cat and tles may be nil. Without
// a catalog only names carrying J2000 coordinates resolve; without tles
// satellites are never found.
func NewOracle(observer transform.ObserverPosition, pool *propagation.WorkerPool, cat CatalogLookup, tles TLESource, logger *slog.Logger) *Oracle {
	return &Oracle{
		observer:   observer,
		pool:       pool,
		catalog:    cat,
		tles:       tles,
		propagator: propagation.NewPropagator(pool, logger),
		logger:     logger,
	}
}

// Resolve dispatches on the target category.
func (o *Oracle) Resolve(ctx context.Context, target Target, times []time.Time) ([]visibility.Sample, error) {
	name := strings.TrimSpace(target.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	switch strings.ToLower(strings.TrimSpace(target.Category)) {
	case CategorySolar:
		return o.resolveBody(ctx, name, times)
	case CategorySatellite:
		return o.resolveSatellite(ctx, name, times)
	default:
		return o.resolveCatalog(ctx, name, times)
	}
}

func (o *Oracle) resolveBody(ctx context.Context, name string, times []time.Time) ([]visibility.Sample, error) {
	body, ok := ephemeris.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a known solar-system body", ErrNotFound, name)
	}

	return o.pool.Sample(ctx, times, func(t time.Time) (transform.LookAngles, error) {
		eq, err := ephemeris.Position(body, t)
		if err != nil {
			return transform.LookAngles{}, err
		}
		return transform.EquatorialToLookAngles(o.observer, eq, t), nil
	})
}

func (o *Oracle) resolveSatellite(ctx context.Context, name string, times []time.Time) ([]visibility.Sample, error) {
	if o.tles == nil {
		return nil, fmt.Errorf("%w: no TLE source configured", ErrNotFound)
	}
	ds, err := o.tles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load TLE data: %w", err)
	}

	entry, ok := ds.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: no elements for satellite %q", ErrNotFound, name)
	}
	return o.propagator.Track(ctx, ds, entry, o.observer, times)
}

func (o *Oracle) resolveCatalog(ctx context.Context, name string, times []time.Time) ([]visibility.Sample, error) {
	coords, err := o.lookupCatalog(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, nil
	}

	// Precession over one day is far below the sampling resolution.
	eq := transform.PrecessFromJ2000(transform.NewEquatorialDeg(coords.RADeg, coords.DecDeg), times[0])
	return o.pool.Sample(ctx, times, func(t time.Time) (transform.LookAngles, error) {
		return transform.EquatorialToLookAngles(o.observer, eq, t), nil
	})
}

// lookupCatalog tries the pulsar-prefixed name, then the plain name, then
// coordinates embedded in the name itself (J0437-4715).
func (o *Oracle) lookupCatalog(ctx context.Context, name string) (catalog.Coordinates, error) {
	lastErr := error(catalog.ErrNotFound)
	if o.catalog != nil {
		for _, candidate := range []string{pulsarPrefix + name, name} {
			coords, err := o.catalog.Lookup(ctx, candidate)
			if err == nil {
				o.logger.Debug("catalog resolved", "target", name, "as", candidate, "ra_deg", coords.RADeg, "dec_deg", coords.DecDeg)
				return coords, nil
			}
			lastErr = err
		}
	}

	if coords, ok := catalog.ParseDesignation(name); ok {
		metrics.RecordCatalogLookup("designation", true)
		o.logger.Debug("coordinates read from name", "target", name, "ra_deg", coords.RADeg, "dec_deg", coords.DecDeg)
		return coords, nil
	}

	if errors.Is(lastErr, catalog.ErrNotFound) {
		return catalog.Coordinates{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return catalog.Coordinates{}, lastErr
}
