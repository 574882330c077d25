package tle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// LoaderConfig controls where TLE data comes from.
type LoaderConfig struct {
	EnableFetch bool
	MaxAge      time.Duration // cached data older than this is refreshed when fetching is enabled
}

// Loader produces a Dataset from the disk cache, refreshing it from the
// network when it is missing or stale.
type Loader struct {
	cache   *Cache
	fetcher *Fetcher
	cfg     LoaderConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewLoader creates a Loader. fetcher may be nil when fetching is disabled.
func NewLoader(cache *Cache, fetcher *Fetcher, cfg LoaderConfig, logger *slog.Logger) *Loader {
	return &Loader{cache: cache, fetcher: fetcher, cfg: cfg, logger: logger, now: time.Now}
}

// Load returns the freshest dataset available. A stale cache is still used
// when the refresh fails.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	data, ts, cacheErr := l.cache.LoadLatest()
	if cacheErr != nil && !errors.Is(cacheErr, ErrNoCache) {
		l.logger.Warn("reading TLE cache failed", "error", cacheErr)
	}

	fresh := cacheErr == nil && (l.cfg.MaxAge <= 0 || l.now().Sub(ts) < l.cfg.MaxAge)
	if !fresh && l.cfg.EnableFetch && l.fetcher != nil {
		fetched, err := l.fetcher.Fetch(ctx)
		if err == nil {
			now := l.now()
			if werr := l.cache.Write(fetched, now); werr != nil {
				l.logger.Warn("writing TLE cache failed", "error", werr)
			}
			return l.parse(fetched, l.fetcher.SourceURL(), now)
		}
		l.logger.Warn("TLE fetch failed", "url", l.fetcher.SourceURL(), "error", err)
	}

	if cacheErr != nil {
		return nil, fmt.Errorf("no TLE data available: %w", cacheErr)
	}
	return l.parse(data, "cache", ts)
}

func (l *Loader) parse(data []byte, source string, ts time.Time) (*Dataset, error) {
	entries, err := Parse(bytes.NewReader(data), l.logger)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("TLE dataset loaded", "source", source, "count", len(entries), "fetched_at", ts.Format(time.RFC3339))
	return &Dataset{Source: source, FetchedAt: ts, Entries: entries}, nil
}
