// Package site describes the observatory: where it is, which part of the sky
// its instrument can reach and which time zone its observing day follows.
package site

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// Config holds the site location and visibility corridor.
type Config struct {
	Name     string              `yaml:"name"`
	LatDeg   float64             `yaml:"latitude"`
	LonDeg   float64             `yaml:"longitude"`
	HeightM  float64             `yaml:"height_m"`
	Timezone string              `yaml:"timezone"`
	Corridor visibility.Corridor `yaml:"corridor"`
}

// Ondrejov returns the configuration of the Ondřejov observatory antenna.
func Ondrejov() Config {
	return Config{
		Name:     "Ondrejov",
		LatDeg:   49.9085742,
		LonDeg:   14.7797511,
		HeightM:  512,
		Timezone: "UTC",
		Corridor: visibility.Corridor{AzMin: 29, AzMax: 355, AltMin: 15, AltMax: 84},
	}
}

// Load reads a YAML site file on top of the Ondřejov defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Ondrejov(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Ondrejov(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read site file: %w", err)
	}

	cfg := Ondrejov()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse site file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that coordinates and corridor bounds make sense.
func (c Config) Validate() error {
	if c.LatDeg < -90 || c.LatDeg > 90 {
		return fmt.Errorf("latitude %.4f out of range", c.LatDeg)
	}
	if c.LonDeg < -180 || c.LonDeg > 360 {
		return fmt.Errorf("longitude %.4f out of range", c.LonDeg)
	}
	if c.Corridor.AzMin >= c.Corridor.AzMax {
		return fmt.Errorf("corridor az_min %.2f must be below az_max %.2f", c.Corridor.AzMin, c.Corridor.AzMax)
	}
	if c.Corridor.AltMin >= c.Corridor.AltMax {
		return fmt.Errorf("corridor alt_min %.2f must be below alt_max %.2f", c.Corridor.AltMin, c.Corridor.AltMax)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the time zone the observing day is anchored to.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Observer returns the site as an observer position for look-angle computations.
func (c Config) Observer() transform.ObserverPosition {
	return transform.NewObserverPosition(c.LatDeg, c.LonDeg, c.HeightM)
}
