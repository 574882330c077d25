package transform

import "math"

// WGS-84 ellipsoid.
const (
	wgs84A  = 6378137.0
	wgs84F  = 1.0 / 298.257223563
	wgs84E2 = wgs84F * (2 - wgs84F)
)

// ObserverPosition is a ground site in geodetic and ECEF form.
// The ECEF vector is computed once and reused for every look-angle query.
type ObserverPosition struct {
	LatRad, LonRad, AltM float64
	ECEFx, ECEFy, ECEFz  float64 // meters
}

// LookAngles is a direction seen from an observer.
type LookAngles struct {
	AzimuthDeg   float64 // 0 = North, clockwise
	ElevationDeg float64 // 0 = horizon, 90 = zenith
	RangeKm      float64 // 0 when the target is treated as infinitely far
}

// NewObserverPosition builds an ObserverPosition from latitude/longitude in
// degrees and height in meters above the WGS-84 ellipsoid.
func NewObserverPosition(latDeg, lonDeg, altM float64) ObserverPosition {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Prime vertical radius of curvature.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return ObserverPosition{
		LatRad: lat,
		LonRad: lon,
		AltM:   altM,
		ECEFx:  (n + altM) * cosLat * cosLon,
		ECEFy:  (n + altM) * cosLat * sinLon,
		ECEFz:  (n*(1-wgs84E2) + altM) * sinLat,
	}
}

// ECEFToLookAngles returns the direction from obs to a point given in ECEF meters.
// The range vector is rotated into the SEZ (South-East-Zenith) frame, Vallado 4.4.
func ECEFToLookAngles(obs ObserverPosition, x, y, z float64) LookAngles {
	rx := x - obs.ECEFx
	ry := y - obs.ECEFy
	rz := z - obs.ECEFz

	s, e, zen := toSEZ(obs, rx, ry, rz)
	rng := math.Sqrt(s*s + e*e + zen*zen)

	la := sezAngles(s, e, zen)
	la.RangeKm = rng / 1000
	return la
}

// toSEZ rotates an ECEF vector into the observer's South-East-Zenith frame.
func toSEZ(obs ObserverPosition, x, y, z float64) (south, east, zenith float64) {
	sinLat, cosLat := math.Sincos(obs.LatRad)
	sinLon, cosLon := math.Sincos(obs.LonRad)

	south = sinLat*cosLon*x + sinLat*sinLon*y - cosLat*z
	east = -sinLon*x + cosLon*y
	zenith = cosLat*cosLon*x + cosLat*sinLon*y + sinLat*z
	return south, east, zenith
}

// sezAngles converts an SEZ vector of any length to azimuth and elevation.
func sezAngles(south, east, zenith float64) LookAngles {
	mag := math.Sqrt(south*south + east*east + zenith*zenith)
	if mag == 0 {
		return LookAngles{}
	}

	el := math.Asin(zenith / mag)
	// North is -South.
	az := math.Atan2(east, -south)
	if az < 0 {
		az += 2 * math.Pi
	}

	return LookAngles{
		AzimuthDeg:   az * 180 / math.Pi,
		ElevationDeg: el * 180 / math.Pi,
	}
}
