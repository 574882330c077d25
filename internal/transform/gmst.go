package transform

import (
	"math"
	"time"
)

const (
	// j2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
	j2000       = 2451545.0
	// unixEpochJD is the Julian Date of 1970-01-01 00:00 UTC.
	unixEpochJD = 2440587.5

	secondsPerDay = 86400.0
)

// JulianDate converts t to a Julian Date on the UTC time scale.
func JulianDate(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + sec/secondsPerDay
}

// JulianCenturies returns the number of Julian centuries elapsed since J2000.0.
// The UTC/TT offset (about a minute) is ignored; it is far below the
// resolution of the one-minute sampling this package serves.
func JulianCenturies(t time.Time) float64 {
	return (JulianDate(t) - j2000) / 36525.0
}

// GMST returns Greenwich Mean Sidereal Time in radians, IAU-82 model
// (Vallado Eq 3-47):
//
//	θ = 67310.54841 + (876600h + 8640184.812866)·T + 0.093104·T² − 6.2e-6·T³  [seconds]
func GMST(t time.Time) float64 {
	tu := JulianCenturies(t.UTC())

	sec := 67310.54841 +
		(876600.0*3600.0+8640184.812866)*tu +
		0.093104*tu*tu -
		6.2e-6*tu*tu*tu

	sec = math.Mod(sec, secondsPerDay)
	if sec < 0 {
		sec += secondsPerDay
	}
	return sec / secondsPerDay * 2 * math.Pi
}

// LocalSiderealTime returns the mean sidereal time at east longitude lonRad, in radians [0, 2π).
func LocalSiderealTime(t time.Time, lonRad float64) float64 {
	return normalizeAngle(GMST(t) + lonRad)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
