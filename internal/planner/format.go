package planner

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// DateLayout is the date format accepted on the command line and echoed
// in reports.
const DateLayout = "2006.01.02"

// Sentinel values reported in place of a window list.
const (
	NotFoundPlain  = "Not found"
	NotFoundPair   = "Target not found"
	NoVisibility   = "No visibility"
	clockLayout    = "15:04"
	rangeSeparator = " - "
)

// Document is the JSON report of a plan.
type Document struct {
	Date    string  `json:"date"`
	Image   string  `json:"image,omitempty"`
	Windows Entries `json:"windows"`
}

// Entry is one target of a report.
type Entry struct {
	Name  string
	Value any
}

// Entries is a JSON object whose keys keep insertion order.
type Entries []Entry

// MarshalJSON writes the entries as an object in order.
func (e Entries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// set adds or replaces name. A repeated name keeps its first position and
// takes the latest value.
func (e Entries) set(name string, value any) Entries {
	for i := range e {
		if e[i].Name == name {
			e[i].Value = value
			return e
		}
	}
	return append(e, Entry{Name: name, Value: value})
}

// PairValue is the pair-dialect value of a visible target.
type PairValue struct {
	Location string       `json:"location"`
	Windows  []ClockRange `json:"windows"`
}

// ClockRange is a window as wall-clock times.
type ClockRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Clock formats w as HH:MM start and end in loc.
func Clock(w visibility.Window, loc *time.Location) ClockRange {
	return ClockRange{
		Start: w.Start.In(loc).Format(clockLayout),
		End:   w.End.In(loc).Format(clockLayout),
	}
}

// FormatWindow renders w as "HH:MM - HH:MM" in loc.
func FormatWindow(w visibility.Window, loc *time.Location) string {
	c := Clock(w, loc)
	return c.Start + rangeSeparator + c.End
}

// Format builds the report of p in the shape of dialect, in input order.
func Format(p *Plan, dialect Dialect, image string, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}
	doc := Document{
		Date:    p.Date.In(loc).Format(DateLayout),
		Image:   image,
		Windows: Entries{},
	}
	for _, r := range p.Results {
		doc.Windows = doc.Windows.set(r.Target.Name, value(r, dialect, loc))
	}
	return doc
}

func value(r TargetResult, dialect Dialect, loc *time.Location) any {
	switch r.Status {
	case StatusNotFound:
		if dialect == DialectPair {
			return NotFoundPair
		}
		return NotFoundPlain
	case StatusNoVisibility:
		return NoVisibility
	}

	if dialect == DialectPair {
		pv := PairValue{Location: r.Target.Category, Windows: make([]ClockRange, 0, len(r.Windows))}
		for _, w := range r.Windows {
			pv.Windows = append(pv.Windows, Clock(w, loc))
		}
		return pv
	}

	out := make([]string, 0, len(r.Windows))
	for _, w := range r.Windows {
		out = append(out, FormatWindow(w, loc))
	}
	return out
}

// ImageName returns the default chart file name for date.
func ImageName(date time.Time) string {
	return "plan_" + date.Format("20060102") + ".png"
}
