package ephemeris

import (
	"math"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/transform"
)

func sinDeg(d float64) float64 { return math.Sin(d * degToRad) }
func cosDeg(d float64) float64 { return math.Cos(d * degToRad) }

// moonPosition evaluates the Astronomical Almanac low-precision lunar series
// (ecliptic longitude, latitude and horizontal parallax of date).
func moonPosition(t time.Time) transform.Equatorial {
	T := transform.JulianCenturies(t)

	lon := 218.32 + 481267.881*T +
		6.29*sinDeg(135.0+477198.87*T) -
		1.27*sinDeg(259.3-413335.36*T) +
		0.66*sinDeg(235.7+890534.22*T) +
		0.21*sinDeg(269.9+954397.74*T) -
		0.19*sinDeg(357.5+35999.05*T) -
		0.11*sinDeg(186.5+966404.03*T)

	lat := 5.13*sinDeg(93.3+483202.02*T) +
		0.28*sinDeg(228.2+960400.89*T) -
		0.28*sinDeg(318.3+6003.15*T) -
		0.17*sinDeg(217.6-407332.21*T)

	parallax := 0.9508 +
		0.0518*cosDeg(135.0+477198.87*T) +
		0.0095*cosDeg(259.3-413335.36*T) +
		0.0078*cosDeg(235.7+890534.22*T) +
		0.0028*cosDeg(269.9+954397.74*T)

	eps := (23.439291 - 0.0130042*T) * degToRad
	sinEps, cosEps := math.Sincos(eps)
	sinLon, cosLon := math.Sincos(lon * degToRad)
	sinLat, cosLat := math.Sincos(lat * degToRad)

	l := cosLat * cosLon
	m := cosEps*cosLat*sinLon - sinEps*sinLat
	n := sinEps*cosLat*sinLon + cosEps*sinLat

	ra := math.Atan2(m, l)
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return transform.Equatorial{
		RARad:     ra,
		DecRad:    math.Asin(n),
		DistanceM: earthRadiusM / sinDeg(parallax),
	}
}
