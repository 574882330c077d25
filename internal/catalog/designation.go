package catalog

import (
	"regexp"
	"strconv"
)

// J2000 designation embedded in a name: J, right ascension as HHMM[SS[.s]],
// sign, declination as DD[MM[SS[.s]]]. Examples: J0437-4715,
// PSR J1939+2134, SDSS J123456.78+012345.6.
var designationRe = regexp.MustCompile(`(?:^|[^A-Za-z0-9])J(\d{2})(\d{2})(\d{2}(?:\.\d+)?)?([+-])(\d{2})(\d{2})?(\d{2}(?:\.\d+)?)?(?:$|[^0-9.])`)

// ParseDesignation reads J2000 coordinates from a designation in name.
// Truncated fields count as zero, so a pulsar name like J0437-4715 is
// only good to about a minute of arc.
func ParseDesignation(name string) (Coordinates, bool) {
	m := designationRe.FindStringSubmatch(name)
	if m == nil {
		return Coordinates{}, false
	}

	hh, mm, ss := num(m[1]), num(m[2]), num(m[3])
	dd, dm, ds := num(m[5]), num(m[6]), num(m[7])
	if hh >= 24 || mm >= 60 || ss >= 60 || dd > 90 || dm >= 60 || ds >= 60 {
		return Coordinates{}, false
	}

	dec := dd + dm/60 + ds/3600
	if dec > 90 {
		return Coordinates{}, false
	}
	if m[4] == "-" {
		dec = -dec
	}
	return Coordinates{RADeg: 15 * (hh + mm/60 + ss/3600), DecDeg: dec}, true
}

func num(s string) float64 {
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
