package transform

import (
	"math"
	"time"
)

const arcsecToRad = math.Pi / (180 * 3600)

// Equatorial is a position in right ascension and declination.
// DistanceM is the geocentric distance; zero means "infinitely far"
// (stars, pulsars, galaxies) and disables parallax.
type Equatorial struct {
	RARad     float64
	DecRad    float64
	DistanceM float64
}

// NewEquatorialDeg builds an Equatorial at infinite distance from degrees.
func NewEquatorialDeg(raDeg, decDeg float64) Equatorial {
	return Equatorial{RARad: raDeg * math.Pi / 180, DecRad: decDeg * math.Pi / 180}
}

// PrecessFromJ2000 moves J2000.0 mean coordinates to the mean equator and
// equinox of t (Meeus, Astronomical Algorithms, 21.2-21.4).
func PrecessFromJ2000(eq Equatorial, t time.Time) Equatorial {
	T := JulianCenturies(t)
	T2 := T * T
	T3 := T2 * T

	zeta := (2306.2181*T + 0.30188*T2 + 0.017998*T3) * arcsecToRad
	z := (2306.2181*T + 1.09468*T2 + 0.018203*T3) * arcsecToRad
	theta := (2004.3109*T - 0.42665*T2 - 0.041833*T3) * arcsecToRad

	sinDec, cosDec := math.Sincos(eq.DecRad)
	sinRZ, cosRZ := math.Sincos(eq.RARad + zeta)
	sinTh, cosTh := math.Sincos(theta)

	a := cosDec * sinRZ
	b := cosTh*cosDec*cosRZ - sinTh*sinDec
	c := sinTh*cosDec*cosRZ + cosTh*sinDec

	return Equatorial{
		RARad:     normalizeAngle(math.Atan2(a, b) + z),
		DecRad:    math.Asin(math.Max(-1, math.Min(1, c))),
		DistanceM: eq.DistanceM,
	}
}

// EquatorialToLookAngles returns the azimuth and elevation of eq (equator and
// equinox of date) seen by obs at time t. For targets with a finite distance
// the geocentric vector is rotated to ECEF, so diurnal parallax is included.
func EquatorialToLookAngles(obs ObserverPosition, eq Equatorial, t time.Time) LookAngles {
	sinDec, cosDec := math.Sincos(eq.DecRad)
	sinRA, cosRA := math.Sincos(eq.RARad)

	// Unit vector in the (quasi-inertial) equatorial frame of date.
	ux := cosDec * cosRA
	uy := cosDec * sinRA
	uz := sinDec

	gmst := GMST(t)
	if eq.DistanceM > 0 {
		x, y := rotateZ(ux*eq.DistanceM, uy*eq.DistanceM, gmst)
		return ECEFToLookAngles(obs, x, y, uz*eq.DistanceM)
	}

	x, y := rotateZ(ux, uy, gmst)
	s, e, zen := toSEZ(obs, x, y, uz)
	return sezAngles(s, e, zen)
}
