// Package transform converts positions between the frames the resolvers
// produce (TEME from SGP4, equatorial coordinates from catalogs and
// ephemerides) and the horizontal frame of a ground observer.
//
// Earth rotation is modelled with GMST only; polar motion, nutation and
// refraction are ignored. The resulting error (arc-seconds for stars, tens
// of meters for satellites) is well below what one-minute sampling resolves.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3-4.
package transform

import (
	"math"
	"time"
)

// PositionTEME is an SGP4 position in the True Equator Mean Equinox frame (km).
type PositionTEME struct {
	X, Y, Z float64
}

// PositionECEF is an Earth-fixed position in meters.
type PositionECEF struct {
	X, Y, Z float64
}

// TEMEToECEF rotates a TEME position into ECEF at time t.
func TEMEToECEF(teme PositionTEME, t time.Time) PositionECEF {
	return TEMEToECEFWithGMST(teme, GMST(t))
}

// TEMEToECEFWithGMST rotates a TEME position about Z by gmst (radians)
// and converts km to meters: r_ECEF = R3(θ)·r_TEME.
func TEMEToECEFWithGMST(teme PositionTEME, gmst float64) PositionECEF {
	x, y := rotateZ(teme.X, teme.Y, gmst)
	return PositionECEF{
		X: x * 1000,
		Y: y * 1000,
		Z: teme.Z * 1000,
	}
}

// rotateZ applies R3(θ) to the x/y components of a vector.
func rotateZ(x, y, theta float64) (float64, float64) {
	sin, cos := math.Sincos(theta)
	return x*cos + y*sin, -x*sin + y*cos
}

// ValidateECEF reports whether pos is a finite position between roughly the
// Earth's surface and high orbit (6200 km to 50000 km from the center).
func ValidateECEF(pos PositionECEF) bool {
	for _, v := range []float64{pos.X, pos.Y, pos.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	const (
		minRadius = 6200e3
		maxRadius = 50000e3
	)
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	return mag >= minRadius && mag <= maxRadius
}
