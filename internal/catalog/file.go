package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one object of a catalog file.
type Entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	RADeg   float64  `yaml:"ra_deg"`
	DecDeg  float64  `yaml:"dec_deg"`
}

type fileContents struct {
	Objects []Entry `yaml:"objects"`
}

// FileSource is an in-memory catalog loaded from YAML.
type FileSource struct {
	byName map[string]Coordinates
}

// NewFileSource indexes entries by name and alias.
func NewFileSource(entries []Entry) (*FileSource, error) {
	fs := &FileSource{byName: make(map[string]Coordinates)}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("catalog entry without a name")
		}
		if e.RADeg < 0 || e.RADeg >= 360 || e.DecDeg < -90 || e.DecDeg > 90 {
			return nil, fmt.Errorf("catalog entry %q: coordinates out of range", e.Name)
		}
		c := Coordinates{RADeg: e.RADeg, DecDeg: e.DecDeg}
		for _, n := range append([]string{e.Name}, e.Aliases...) {
			fs.byName[normalizeName(n)] = c
		}
	}
	return fs, nil
}

// LoadFile reads a catalog file. An empty path or a missing file yields an
// empty catalog.
func LoadFile(path string) (*FileSource, error) {
	if path == "" {
		return NewFileSource(nil)
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewFileSource(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var fc fileContents
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return NewFileSource(fc.Objects)
}

// Len returns the number of indexed names, aliases included.
func (fs *FileSource) Len() int { return len(fs.byName) }

func (fs *FileSource) Name() string { return "file" }

func (fs *FileSource) Lookup(_ context.Context, name string) (Coordinates, error) {
	c, ok := fs.byName[normalizeName(name)]
	if !ok {
		return Coordinates{}, ErrNotFound
	}
	return c, nil
}
