package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if cfg != Ondrejov() {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := `name: Test Site
latitude: 40.5
longitude: -3.2
timezone: Europe/Madrid
corridor:
  az_min: 10
  az_max: 350
  alt_min: 20
  alt_max: 80
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		if strings.Contains(err.Error(), "timezone") {
			t.Skipf("tzdata unavailable: %v", err)
		}
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "Test Site" || cfg.LatDeg != 40.5 || cfg.LonDeg != -3.2 {
		t.Errorf("unexpected location: %+v", cfg)
	}
	// Height was not set in the file and keeps the default.
	if cfg.HeightM != 512 {
		t.Errorf("height = %v, want default 512", cfg.HeightM)
	}
	if cfg.Corridor.AltMin != 20 || cfg.Corridor.AzMax != 350 {
		t.Errorf("corridor = %+v", cfg.Corridor)
	}
	if cfg.Location().String() != "Europe/Madrid" {
		t.Errorf("location = %s", cfg.Location())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errStr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad latitude", func(c *Config) { c.LatDeg = 91 }, "latitude"},
		{"inverted azimuth", func(c *Config) { c.Corridor.AzMin = 356 }, "az_min"},
		{"inverted altitude", func(c *Config) { c.Corridor.AltMax = 10 }, "alt_min"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Ondrejov()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errStr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errStr) {
				t.Errorf("error = %v, want containing %q", err, tt.errStr)
			}
		})
	}
}

func TestObserver(t *testing.T) {
	obs := Ondrejov().Observer()
	if obs.AltM != 512 {
		t.Errorf("observer altitude = %v, want 512", obs.AltM)
	}
	if obs.LatRad <= 0 || obs.LonRad <= 0 {
		t.Errorf("observer should be in the north-east quadrant: %+v", obs)
	}
}
