// Package ephemeris computes low-precision geocentric positions of the Sun,
// the Moon and the major planets.
//
// Planets use the JPL "Keplerian Elements for Approximate Positions of the
// Major Planets" (Standish, table 1, valid 1800-2050); the Moon uses the
// short series of the Astronomical Almanac. Accuracy is a few arc-minutes
// for the Sun and planets and a few tenths of a degree for the Moon, which
// is below what one-minute sampling of a visibility corridor can resolve.
package ephemeris

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
)

// Body identifies a solar-system body.
type Body string

const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mercury Body = "mercury"
	Venus   Body = "venus"
	Mars    Body = "mars"
	Jupiter Body = "jupiter"
	Saturn  Body = "saturn"
	Uranus  Body = "uranus"
	Neptune Body = "neptune"
)

const (
	auMeters     = 149597870700.0
	earthRadiusM = 6378140.0
	degToRad     = math.Pi / 180

	// Mean obliquity of the ecliptic at J2000.0.
	obliquityJ2000 = 23.43928 * degToRad
)

// Lookup returns the body for a case-insensitive name.
func Lookup(name string) (Body, bool) {
	b := Body(strings.ToLower(strings.TrimSpace(name)))
	if b == Sun || b == Moon {
		return b, true
	}
	if b == earthMoon {
		return "", false
	}
	_, ok := planets[b]
	return b, ok
}

// Position returns the geocentric position of b on the mean equator and
// equinox of t, with the distance filled in.
func Position(b Body, t time.Time) (transform.Equatorial, error) {
	switch b {
	case Moon:
		return moonPosition(t), nil
	case Sun:
		earth := heliocentric(planets[earthMoon], t)
		return fromJ2000Vector(-earth[0], -earth[1], -earth[2], t), nil
	}

	el, ok := planets[b]
	if !ok {
		return transform.Equatorial{}, fmt.Errorf("unknown body %q", b)
	}
	p := heliocentric(el, t)
	earth := heliocentric(planets[earthMoon], t)
	return fromJ2000Vector(p[0]-earth[0], p[1]-earth[1], p[2]-earth[2], t), nil
}

// fromJ2000Vector turns a geocentric J2000 equatorial vector in AU into an
// Equatorial of date.
func fromJ2000Vector(x, y, z float64, t time.Time) transform.Equatorial {
	dist := math.Sqrt(x*x + y*y + z*z)
	eq := transform.Equatorial{
		RARad:     math.Atan2(y, x),
		DecRad:    math.Asin(z / dist),
		DistanceM: dist * auMeters,
	}
	return transform.PrecessFromJ2000(eq, t)
}
