package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/catalog"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/propagation"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/tle"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

var ondrejov = transform.NewObserverPosition(49.9085742, 14.7797511, 512)

type fakeCatalog struct {
	known   map[string]catalog.Coordinates
	queries []string
}

func (f *fakeCatalog) Lookup(_ context.Context, name string) (catalog.Coordinates, error) {
	f.queries = append(f.queries, name)
	c, ok := f.known[name]
	if !ok {
		return catalog.Coordinates{}, catalog.ErrNotFound
	}
	return c, nil
}

type fakeTLEs struct {
	ds  *tle.Dataset
	err error
}

func (f fakeTLEs) Load(context.Context) (*tle.Dataset, error) { return f.ds, f.err }

func newTestOracle(cat CatalogLookup, tles TLESource) *Oracle {
	return NewOracle(ondrejov, propagation.NewWorkerPool(4, testLogger), cat, tles, testLogger)
}

func dayGrid() []time.Time {
	return visibility.DayGrid(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), time.UTC)
}

func maxAltitude(samples []visibility.Sample) visibility.Sample {
	best := samples[0]
	for _, s := range samples {
		if s.Altitude > best.Altitude {
			best = s
		}
	}
	return best
}

func TestResolveSolar(t *testing.T) {
	o := newTestOracle(nil, nil)
	samples, err := o.Resolve(context.Background(), Target{Name: "Sun", Category: CategorySolar}, dayGrid())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(samples) != visibility.SamplesPerDay {
		t.Fatalf("got %d samples", len(samples))
	}

	// Equinox: culmination near 90 - 49.9 = 40.1 deg, due south, around 11:00 UTC.
	peak := maxAltitude(samples)
	if math.Abs(peak.Altitude-40.1) > 1 {
		t.Errorf("peak altitude = %.2f, want ~40.1", peak.Altitude)
	}
	if math.Abs(peak.Azimuth-180) > 3 {
		t.Errorf("peak azimuth = %.2f, want ~180", peak.Azimuth)
	}
	if peak.Time.Hour() != 10 && peak.Time.Hour() != 11 {
		t.Errorf("culmination at %v, want around 11:00 UTC", peak.Time)
	}
}

func TestResolveSolarUnknownBody(t *testing.T) {
	o := newTestOracle(nil, nil)
	_, err := o.Resolve(context.Background(), Target{Name: "Pluto", Category: "SOLAR"}, dayGrid())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveCatalogTriesPulsarPrefixFirst(t *testing.T) {
	cat := &fakeCatalog{known: map[string]catalog.Coordinates{
		"PSR B0329+54": {RADeg: 53.2474, DecDeg: 54.5788},
	}}
	o := newTestOracle(cat, nil)

	samples, err := o.Resolve(context.Background(), Target{Name: "B0329+54", Category: "pulsar"}, dayGrid())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cat.queries) != 1 || cat.queries[0] != "PSR B0329+54" {
		t.Errorf("queries = %v", cat.queries)
	}

	// Circumpolar at Ondřejov: 54.6 > 90 - 49.9.
	for _, s := range samples {
		if s.Altitude <= 0 {
			t.Fatalf("circumpolar source below horizon at %v: %.2f", s.Time, s.Altitude)
		}
	}
	if peak := maxAltitude(samples); math.Abs(peak.Altitude-(90-(54.58-49.91))) > 0.5 {
		t.Errorf("upper culmination %.2f, want ~85.3", peak.Altitude)
	}
}

func TestResolveCatalogPlainName(t *testing.T) {
	cat := &fakeCatalog{known: map[string]catalog.Coordinates{"Crab": {RADeg: 83.6332, DecDeg: 22.0145}}}
	o := newTestOracle(cat, nil)

	if _, err := o.Resolve(context.Background(), Target{Name: "Crab"}, dayGrid()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cat.queries) != 2 || cat.queries[0] != "PSR Crab" || cat.queries[1] != "Crab" {
		t.Errorf("queries = %v", cat.queries)
	}
}

func TestResolveCatalogDesignationFallback(t *testing.T) {
	tests := []struct {
		name string
		cat  CatalogLookup
	}{
		{"catalog misses", &fakeCatalog{}},
		{"no catalog", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOracle(tt.cat, nil)
			samples, err := o.Resolve(context.Background(), Target{Name: "J1939+2134", Category: "pulsar"}, dayGrid())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(samples) != visibility.SamplesPerDay {
				t.Fatalf("got %d samples", len(samples))
			}
			// Dec +21.6 culminates at 90 - 49.9 + 21.6 = 61.7 degrees.
			if best := maxAltitude(samples); math.Abs(best.Altitude-61.7) > 1 {
				t.Errorf("max altitude = %.2f, want ~61.7", best.Altitude)
			}
		})
	}
}

func TestResolveCatalogPrefersCatalogOverDesignation(t *testing.T) {
	exact := catalog.Coordinates{RADeg: 294.9108, DecDeg: 21.5831}
	cat := &fakeCatalog{known: map[string]catalog.Coordinates{"PSR J1939+2134": exact}}
	o := newTestOracle(cat, nil)

	coords, err := o.lookupCatalog(context.Background(), "J1939+2134")
	if err != nil {
		t.Fatal(err)
	}
	if coords != exact {
		t.Errorf("coords = %+v, want the catalog entry %+v", coords, exact)
	}
}

func TestResolveNotFound(t *testing.T) {
	tests := []struct {
		name   string
		oracle *Oracle
		target Target
	}{
		{"unknown catalog name", newTestOracle(&fakeCatalog{}, nil), Target{Name: "NoSuchThing"}},
		{"no catalog", newTestOracle(nil, nil), Target{Name: "Crab", Category: "galaxy"}},
		{"empty name", newTestOracle(&fakeCatalog{}, nil), Target{Name: "  "}},
		{"no TLE source", newTestOracle(nil, nil), Target{Name: "ISS", Category: CategorySatellite}},
		{"unknown satellite", newTestOracle(nil, fakeTLEs{ds: &tle.Dataset{}}), Target{Name: "ISS", Category: CategorySatellite}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.oracle.Resolve(context.Background(), tt.target, dayGrid())
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestResolveSatellite(t *testing.T) {
	ds := &tle.Dataset{
		FetchedAt: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Entries: []tle.TLEEntry{{
			NORADID: 25544,
			Name:    "ISS (ZARYA)",
			Line1:   "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005",
			Line2:   "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09",
		}},
	}
	o := newTestOracle(nil, fakeTLEs{ds: ds})
	times := visibility.DayGrid(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), time.UTC)

	samples, err := o.Resolve(context.Background(), Target{Name: "25544", Category: CategorySatellite}, times)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(samples) != len(times) {
		t.Fatalf("got %d samples", len(samples))
	}
}

func TestResolveSatelliteLoadError(t *testing.T) {
	boom := errors.New("no TLE data available")
	o := newTestOracle(nil, fakeTLEs{err: boom})

	_, err := o.Resolve(context.Background(), Target{Name: "ISS", Category: CategorySatellite}, dayGrid())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want load error", err)
	}
}
