package transform

import (
	"math"
	"testing"
	"time"
)

func TestEquatorialPolaris(t *testing.T) {
	// Near the celestial pole the elevation stays close to the site latitude all day.
	obs := NewObserverPosition(49.9085742, 14.7797511, 512)
	polaris := PrecessFromJ2000(NewEquatorialDeg(37.95456, 89.26411), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h += 3 {
		ts := start.Add(time.Duration(h) * time.Hour)
		la := EquatorialToLookAngles(obs, polaris, ts)
		if math.Abs(la.ElevationDeg-49.9) > 1.2 {
			t.Errorf("%v: Polaris elevation %.2f, want within 1.2° of 49.9", ts, la.ElevationDeg)
		}
		if la.AzimuthDeg > 3 && la.AzimuthDeg < 357 {
			t.Errorf("%v: Polaris azimuth %.2f, want near north", ts, la.AzimuthDeg)
		}
		if la.RangeKm != 0 {
			t.Errorf("infinite-distance target should report zero range, got %.1f", la.RangeKm)
		}
	}
}

func TestEquatorialMeridianTransit(t *testing.T) {
	// A star on the local meridian (RA = LST) with declination equal to the
	// latitude culminates at the zenith; with declination 0 it sits due south
	// at 90° minus the latitude.
	obs := NewObserverPosition(50, 15, 0)
	ts := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
	lst := LocalSiderealTime(ts, obs.LonRad)

	// Geodetic vs geocentric latitude differ by ~0.19° at 50°.
	zenithStar := Equatorial{RARad: lst, DecRad: 50 * math.Pi / 180}
	if la := EquatorialToLookAngles(obs, zenithStar, ts); la.ElevationDeg < 89.5 {
		t.Errorf("zenith star elevation = %.3f, want ~90", la.ElevationDeg)
	}

	equatorStar := Equatorial{RARad: lst}
	la := EquatorialToLookAngles(obs, equatorStar, ts)
	if math.Abs(la.ElevationDeg-40) > 0.5 {
		t.Errorf("equator star elevation = %.3f, want ~40", la.ElevationDeg)
	}
	if math.Abs(la.AzimuthDeg-180) > 0.5 {
		t.Errorf("equator star azimuth = %.3f, want ~180", la.AzimuthDeg)
	}
}

func TestEquatorialParallax(t *testing.T) {
	// A Moon-distance target on the horizon is depressed by roughly one degree
	// relative to the same direction at infinite distance.
	obs := NewObserverPosition(0, 0, 0)
	ts := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	lst := LocalSiderealTime(ts, obs.LonRad)

	// Rising in the east: hour angle -90°.
	far := Equatorial{RARad: lst + math.Pi/2}
	near := far
	near.DistanceM = 384400e3

	laFar := EquatorialToLookAngles(obs, far, ts)
	laNear := EquatorialToLookAngles(obs, near, ts)

	depression := laFar.ElevationDeg - laNear.ElevationDeg
	if depression < 0.8 || depression > 1.1 {
		t.Errorf("horizontal parallax = %.3f°, want ~0.95°", depression)
	}
	if laNear.RangeKm < 380000 || laNear.RangeKm > 390000 {
		t.Errorf("range = %.0f km, want ~384400", laNear.RangeKm)
	}
}

func TestPrecessFromJ2000(t *testing.T) {
	eq := NewEquatorialDeg(0, 0)

	same := PrecessFromJ2000(eq, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(same.DecRad) > 1e-9 || math.Min(same.RARad, 2*math.Pi-same.RARad) > 1e-9 {
		t.Errorf("precession to J2000 should be identity, got %+v", same)
	}

	// General precession in RA at the equinox is ~3.075 s of time per year.
	later := PrecessFromJ2000(eq, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	gotDeg := later.RARad * 180 / math.Pi
	wantDeg := 3.075 * 25 * 15 / 3600
	if math.Abs(gotDeg-wantDeg) > 0.02 {
		t.Errorf("RA after 25 years = %.4f°, want ~%.4f°", gotDeg, wantDeg)
	}
	if later.DecRad <= 0 {
		t.Errorf("declination at the equinox should increase, got %.6f rad", later.DecRad)
	}
}
