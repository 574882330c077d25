package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
)

// Dialect is the form a target list was written in. It also selects the
// shape of the report.
type Dialect int

const (
	// DialectPlain is a bare list of names: "Sun,Crab,B0329+54".
	DialectPlain Dialect = iota
	// DialectPair is a list of name:category pairs: "Sun:solar,ISS:satellite".
	DialectPair
)

func (d Dialect) String() string {
	if d == DialectPair {
		return "pair"
	}
	return "plain"
}

// solarNames are the bare names treated as solar-system bodies.
var solarNames = map[string]bool{
	"sun":     true,
	"moon":    true,
	"mars":    true,
	"jupiter": true,
	"saturn":  true,
	"venus":   true,
}

// InferCategory returns the category of a bare name.
func InferCategory(name string) string {
	if solarNames[strings.ToLower(strings.TrimSpace(name))] {
		return resolve.CategorySolar
	}
	return ""
}

// ParseTargets splits a comma-separated target list. The list uses the
// pair dialect as soon as one element contains a colon; elements without
// one then get their category inferred. Empty elements are skipped.
func ParseTargets(list string) ([]resolve.Target, Dialect) {
	dialect := DialectPlain
	if strings.Contains(list, ":") {
		dialect = DialectPair
	}

	var targets []resolve.Target
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, category, ok := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if ok {
			category = strings.TrimSpace(category)
		} else {
			category = InferCategory(name)
		}
		targets = append(targets, resolve.Target{Name: name, Category: category})
	}
	return targets, dialect
}

// ParseDate parses a YYYY.MM.DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY.MM.DD: %w", s, err)
	}
	return d, nil
}
