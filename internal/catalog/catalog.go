// Package catalog maps object names to J2000 equatorial coordinates.
//
// Names are looked up in a local YAML catalog, then in a sqlite cache of
// earlier remote answers, then with the CDS Sesame name resolver.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
)

// ErrNotFound is returned when no source knows the name.
var ErrNotFound = errors.New("object not found in catalog")

// Coordinates are J2000.0 equatorial coordinates in degrees.
type Coordinates struct {
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

// Source answers name lookups.
type Source interface {
	Name() string
	Lookup(ctx context.Context, name string) (Coordinates, error)
}

// normalizeName folds case and collapses whitespace so "psr  b0329+54"
// and "PSR B0329+54" share one key.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Resolver queries sources in order. Answers from remote sources are
// written to the cache when one is configured.
type Resolver struct {
	local  []Source
	cache  *Cache
	remote []Source
	logger *slog.Logger
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(local []Source, cache *Cache, remote []Source, logger *slog.Logger) *Resolver {
	return &Resolver{local: local, cache: cache, remote: remote, logger: logger}
}

// Lookup returns the coordinates of name or an error wrapping ErrNotFound.
// A source failing for reasons other than not knowing the name is logged
// and the next source is tried.
func (r *Resolver) Lookup(ctx context.Context, name string) (Coordinates, error) {
	if c, ok := r.try(ctx, r.local, name); ok {
		return c, nil
	}

	if r.cache != nil {
		c, err := r.cache.Lookup(ctx, name)
		metrics.RecordCatalogLookup(r.cache.Name(), err == nil)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("catalog cache lookup failed", "name", name, "error", err)
		}
	}

	for _, src := range r.remote {
		c, ok := r.try(ctx, []Source{src}, name)
		if !ok {
			continue
		}
		if r.cache != nil {
			if err := r.cache.Put(ctx, name, c, src.Name()); err != nil {
				r.logger.Warn("catalog cache write failed", "name", name, "error", err)
			}
		}
		return c, nil
	}

	return Coordinates{}, &lookupError{name: name}
}

func (r *Resolver) try(ctx context.Context, sources []Source, name string) (Coordinates, bool) {
	for _, src := range sources {
		c, err := src.Lookup(ctx, name)
		metrics.RecordCatalogLookup(src.Name(), err == nil)
		if err == nil {
			r.logger.Debug("catalog hit", "name", name, "source", src.Name())
			return c, true
		}
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("catalog source failed", "name", name, "source", src.Name(), "error", err)
		}
	}
	return Coordinates{}, false
}

type lookupError struct {
	name string
}

func (e *lookupError) Error() string { return "catalog: " + e.name + ": " + ErrNotFound.Error() }

func (e *lookupError) Unwrap() error { return ErrNotFound }
