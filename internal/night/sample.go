package night

import (
	"errors"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/observatory"
)

const (
	// TwilightSunAlt bounds astronomical twilight.
	TwilightSunAlt = -12.0

	// NightSunAlt bounds full night.
	NightSunAlt = -18.0
)

var (
	// ErrNoTwilight means the Sun never drops below TwilightSunAlt on the grid.
	ErrNoTwilight = errors.New("sun does not reach -12° on this date")

	// ErrNoNight means the Sun never drops below NightSunAlt on the grid.
	ErrNoNight = errors.New("sun does not reach -18° on this date")
)

// Interval is a pair of grid timestamps bounding a period.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Context is the sampled Sun and Moon state for one night at one site.
type Context struct {
	Site observatory.Observatory
	Grid Grid

	Sun  ephem.Track
	Moon ephem.Track

	// Dark[i] is true when the Sun is below Site.MaxSunAlt.
	Dark []bool

	SolarMidnight       time.Time
	SolarMidnightOffset time.Duration // from Grid.UTCMidnight

	Twilight *Interval // Sun below -12°, nil when never reached
	Night    *Interval // Sun below -18°, nil when never reached

	MoonRise *time.Time
	MoonSet  *time.Time

	// MoonIllumination is the illuminated percentage (0-100) at solar midnight.
	MoonIllumination float64

	// Warnings lists non-fatal conditions such as ErrNoTwilight.
	Warnings []error
}

// Sample evaluates the Sun and Moon over the grid for site.
func Sample(grid Grid, site observatory.Observatory, provider ephem.Provider) *Context {
	obs := site.Observer()

	c := &Context{
		Site: site,
		Grid: grid,
		Sun:  provider.SunTrack(obs, grid.Times),
		Moon: provider.MoonTrack(obs, grid.Times),
	}

	c.Dark = make([]bool, grid.Len())
	for i, alt := range c.Sun.Alt {
		c.Dark[i] = alt < site.MaxSunAlt
	}

	if i := astro.ArgMin(c.Sun.Alt); i >= 0 {
		c.SolarMidnight = grid.Times[i]
		c.SolarMidnightOffset = c.SolarMidnight.Sub(grid.UTCMidnight)
	}

	c.Twilight = below(grid.Times, c.Sun.Alt, TwilightSunAlt)
	if c.Twilight == nil {
		c.Warnings = append(c.Warnings, ErrNoTwilight)
	}
	c.Night = below(grid.Times, c.Sun.Alt, NightSunAlt)
	if c.Night == nil {
		c.Warnings = append(c.Warnings, ErrNoNight)
	}

	if rise, ok := astro.FindRise(grid.Times, c.Moon.Alt, 0); ok {
		c.MoonRise = &rise.Time
	}
	if set, ok := astro.FindSet(grid.Times, c.Moon.Alt, 0); ok {
		c.MoonSet = &set.Time
	}

	c.MoonIllumination = 100 * provider.MoonIllumination(c.SolarMidnight)

	return c
}

// below returns the span between the first and last sample under level.
func below(times []time.Time, alt []float64, level float64) *Interval {
	first, ok := astro.FirstBelow(alt, level)
	if !ok {
		return nil
	}
	last, _ := astro.LastBelow(alt, level)
	return &Interval{Start: times[first], End: times[last]}
}

// DarkHours returns the number of dark samples expressed as a duration.
func (c *Context) DarkHours() time.Duration {
	n := 0
	for _, d := range c.Dark {
		if d {
			n++
		}
	}
	return time.Duration(n) * time.Minute
}
