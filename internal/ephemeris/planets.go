package ephemeris

import (
	"math"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
)

// earthMoon is the Earth-Moon barycenter; the Sun's geocentric position is
// taken as its negation.
const earthMoon Body = "earth-moon"

// elements holds J2000 Keplerian elements and their rates per Julian century.
// Angles are in degrees, a in AU.
type elements struct {
	a, e, i, l, peri, node       float64
	da, de, di, dl, dperi, dnode float64
}

var planets = map[Body]elements{
	Mercury: {
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081,
	},
	Venus: {
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418,
	},
	earthMoon: {
		1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
		0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0,
	},
	Mars: {
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343,
	},
	Jupiter: {
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106,
	},
	Saturn: {
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794,
	},
	Uranus: {
		19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589,
	},
	Neptune: {
		30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664,
	},
}

// heliocentric returns the J2000 equatorial heliocentric position in AU.
func heliocentric(el elements, t time.Time) [3]float64 {
	T := transform.JulianCenturies(t)

	a := el.a + el.da*T
	e := el.e + el.de*T
	inc := (el.i + el.di*T) * degToRad
	l := el.l + el.dl*T
	peri := el.peri + el.dperi*T
	node := (el.node + el.dnode*T) * degToRad

	argPeri := peri*degToRad - node
	meanAnomaly := math.Mod(l-peri, 360) * degToRad

	E := solveKepler(meanAnomaly, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	sinW, cosW := math.Sincos(argPeri)
	sinN, cosN := math.Sincos(node)
	sinI, cosI := math.Sincos(inc)

	// Orbital plane to J2000 ecliptic.
	x := (cosW*cosN-sinW*sinN*cosI)*xp + (-sinW*cosN-cosW*sinN*cosI)*yp
	y := (cosW*sinN+sinW*cosN*cosI)*xp + (-sinW*sinN+cosW*cosN*cosI)*yp
	z := sinW*sinI*xp + cosW*sinI*yp

	// Ecliptic to equatorial.
	sinE, cosE := math.Sincos(obliquityJ2000)
	return [3]float64{x, cosE*y - sinE*z, sinE*y + cosE*z}
}

// solveKepler solves E - e·sin(E) = M by Newton iteration (radians).
func solveKepler(m, e float64) float64 {
	E := m + e*math.Sin(m)
	for i := 0; i < 12; i++ {
		dE := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}
