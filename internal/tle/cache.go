package tle

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// ErrNoCache is returned by LoadLatest when the cache holds no files.
var ErrNoCache = errors.New("no cached TLE files")

const snapshotPattern = "tle_*.txt"

// Cache is a directory of timestamped TLE snapshots. Only the newest
// maxFiles snapshots are kept.
type Cache struct {
	dir      string
	maxFiles int
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Cache{dir: dir, maxFiles: maxFiles}
}

type snapshot struct {
	path string
	at   time.Time
}

// Write stores data as the snapshot taken at ts. The file is renamed into
// place, so a concurrent reader never sees a partial snapshot.
func (c *Cache) Write(data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create TLE cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tle-*")
	if err != nil {
		return fmt.Errorf("create TLE snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write TLE snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write TLE snapshot: %w", err)
	}

	final := filepath.Join(c.dir, fmt.Sprintf("tle_%d.txt", ts.Unix()))
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store TLE snapshot: %w", err)
	}
	return c.prune()
}

// LoadLatest returns the newest snapshot and the time it was taken.
func (c *Cache) LoadLatest() ([]byte, time.Time, error) {
	snaps, err := c.snapshots()
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(snaps) == 0 {
		return nil, time.Time{}, ErrNoCache
	}

	newest := snaps[len(snaps)-1]
	data, err := os.ReadFile(newest.path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read TLE snapshot: %w", err)
	}
	return data, newest.at, nil
}

// snapshots lists the cache oldest first. A missing directory is an empty cache.
func (c *Cache) snapshots() ([]snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, snapshotPattern))
	if err != nil {
		return nil, fmt.Errorf("list TLE cache: %w", err)
	}

	snaps := make([]snapshot, 0, len(paths))
	for _, p := range paths {
		var unix int64
		if _, err := fmt.Sscanf(filepath.Base(p), "tle_%d.txt", &unix); err != nil {
			continue
		}
		snaps = append(snaps, snapshot{path: p, at: time.Unix(unix, 0)})
	}

	slices.SortFunc(snaps, func(a, b snapshot) int { return cmp.Compare(a.at.Unix(), b.at.Unix()) })
	return snaps, nil
}

func (c *Cache) prune() error {
	snaps, err := c.snapshots()
	if err != nil {
		return err
	}
	if len(snaps) <= c.maxFiles {
		return nil
	}
	for _, s := range snaps[:len(snaps)-c.maxFiles] {
		if err := os.Remove(s.path); err != nil {
			return fmt.Errorf("prune TLE snapshot %s: %w", filepath.Base(s.path), err)
		}
	}
	return nil
}
