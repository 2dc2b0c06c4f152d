// Package night builds the one-minute time grid for an observing night and
// samples the Sun and Moon over it.
package night

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// GridSize is the number of samples in a night grid: 24 hours at one minute.
const GridSize = 1441

// ErrInvalidDate is returned when a night date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a night date as YYYY-MM-DD or YYYYMMDD. The result is
// 00:00 UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
}

// Grid is the sampling grid for one night.
type Grid struct {
	Date        time.Time   // the civil date the night starts on
	UTCMidnight time.Time   // 00:00 UTC of the following day
	Times       []time.Time // GridSize minute-aligned UTC timestamps
}

// NewGrid returns the grid for the night starting on date at a site whose
// longitude is lonOffsetHours east of Greenwich in hour-angle units.
//
// Times are UTCMidnight + linspace(-12-offset, 12-offset, GridSize) hours
// rounded to the minute, so both ends fall in local daytime.
func NewGrid(date time.Time, lonOffsetHours float64) Grid {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	midnight := day.AddDate(0, 0, 1)

	// A 24h linspace of GridSize points steps exactly one minute; rounding
	// the first sample fixes the rest.
	first := math.Round((-12 - lonOffsetHours) * 60)
	start := midnight.Add(time.Duration(first) * time.Minute)

	times := make([]time.Time, GridSize)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Minute)
	}

	return Grid{
		Date:        day,
		UTCMidnight: midnight,
		Times:       times,
	}
}

// Len returns the number of grid samples.
func (g Grid) Len() int {
	return len(g.Times)
}

// Index returns the grid index closest to t, clamped to the grid.
func (g Grid) Index(t time.Time) int {
	if len(g.Times) == 0 {
		return -1
	}
	i := int(math.Round(t.Sub(g.Times[0]).Minutes()))
	return max(0, min(i, len(g.Times)-1))
}
