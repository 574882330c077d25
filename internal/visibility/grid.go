package visibility

import "time"

// DayGrid returns SamplesPerDay timestamps one minute apart, starting at
// midnight of date's calendar day in loc and ending at the next midnight.
func DayGrid(date time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	times := make([]time.Time, SamplesPerDay)
	for i := range times {
		times[i] = midnight.Add(time.Duration(i) * time.Minute)
	}
	return times
}
