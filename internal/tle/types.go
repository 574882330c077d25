package tle

import (
	"strconv"
	"strings"
	"time"
)

// TLEEntry is one satellite's two-line element set.
type TLEEntry struct {
	NORADID int
	Name    string
	Epoch   time.Time
	Line1   string
	Line2   string
}

// Dataset is a parsed set of TLEs and where it came from.
type Dataset struct {
	Source    string
	FetchedAt time.Time
	Entries   []TLEEntry
}

// Find looks a satellite up by NORAD catalog number or by name.
// Names match case-insensitively, ignoring surrounding whitespace.
func (d *Dataset) Find(query string) (TLEEntry, bool) {
	if d == nil {
		return TLEEntry{}, false
	}
	query = strings.TrimSpace(query)

	if id, err := strconv.Atoi(query); err == nil {
		for _, e := range d.Entries {
			if e.NORADID == id {
				return e, true
			}
		}
		return TLEEntry{}, false
	}

	for _, e := range d.Entries {
		if strings.EqualFold(e.Name, query) {
			return e, true
		}
	}
	return TLEEntry{}, false
}
