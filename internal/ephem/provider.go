// Package ephem provides the ephemeris services used by the planner: Sun,
// Moon and fixed-point tracks over a time grid, solar-system body tracks and
// the horizontal to hour-angle frame transform.
package ephem

import (
	"context"
	"errors"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
)

// ErrUnsupportedBody is returned by a BodyTracker that cannot serve a body.
var ErrUnsupportedBody = errors.New("body not supported by ephemeris provider")

// Track is a horizontal path sampled at the timestamps of a grid.
// Alt[i] and Az[i] are in degrees and correspond to times[i].
type Track struct {
	Alt []float64
	Az  []float64
}

// Len returns the number of samples.
func (t Track) Len() int {
	return len(t.Alt)
}

// Provider computes apparent horizontal positions for a site.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// SunTrack returns the Sun's track over times.
	SunTrack(obs astro.Observer, times []time.Time) Track

	// MoonTrack returns the Moon's topocentric track over times.
	MoonTrack(obs astro.Observer, times []time.Time) Track

	// FixedTrack returns the track of a fixed RA/Dec point over times.
	FixedTrack(obs astro.Observer, raDeg, decDeg float64, times []time.Time) Track

	// MoonIllumination returns the illuminated fraction (0-1) at t.
	MoonIllumination(t time.Time) float64

	// HourAngleDec converts an alt/az sample into hour angle and declination.
	HourAngleDec(obs astro.Observer, altDeg, azDeg float64, t time.Time) (haHours, decDeg float64)
}

// BodyTracker returns tracks for solar-system bodies.
type BodyTracker interface {
	BodyTrack(ctx context.Context, body Body, obs astro.Observer, times []time.Time) (Track, error)
}

// Analytic is a Provider using the low-precision series in package astro.
// It also tracks the Sun and the Moon as bodies.
type Analytic struct{}

// Name implements Provider.
func (Analytic) Name() string {
	return "analytic"
}

// SunTrack implements Provider.
func (Analytic) SunTrack(obs astro.Observer, times []time.Time) Track {
	tr := newTrack(len(times))
	for i, t := range times {
		ra, dec := astro.SunPosition(t)
		h := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t)
		tr.Alt[i], tr.Az[i] = h.ElDeg, h.AzDeg
	}
	return tr
}

// MoonTrack implements Provider.
func (Analytic) MoonTrack(obs astro.Observer, times []time.Time) Track {
	tr := newTrack(len(times))
	for i, t := range times {
		h := astro.MoonHorizontal(obs, t)
		tr.Alt[i], tr.Az[i] = h.ElDeg, h.AzDeg
	}
	return tr
}

// FixedTrack implements Provider.
func (Analytic) FixedTrack(obs astro.Observer, raDeg, decDeg float64, times []time.Time) Track {
	tr := newTrack(len(times))
	eq := astro.SkyCoord{RAdeg: raDeg, DecDeg: decDeg}
	for i, t := range times {
		h := astro.EquatorialToHorizontal(eq, obs, t)
		tr.Alt[i], tr.Az[i] = h.ElDeg, h.AzDeg
	}
	return tr
}

// MoonIllumination implements Provider.
func (Analytic) MoonIllumination(t time.Time) float64 {
	return astro.MoonIllumination(t)
}

// HourAngleDec implements Provider. Only the site latitude enters the
// transform.
func (Analytic) HourAngleDec(obs astro.Observer, altDeg, azDeg float64, _ time.Time) (float64, float64) {
	return astro.HorizontalToHourAngle(altDeg, azDeg, obs.LatDeg)
}

// BodyTrack implements BodyTracker for the Sun and the Moon.
func (a Analytic) BodyTrack(_ context.Context, body Body, obs astro.Observer, times []time.Time) (Track, error) {
	switch body.NAIFID {
	case NAIFSun:
		return a.SunTrack(obs, times), nil
	case NAIFMoon:
		return a.MoonTrack(obs, times), nil
	default:
		return Track{}, ErrUnsupportedBody
	}
}

// SolarSystem dispatches Sun and Moon to the local provider and every other
// body to the remote tracker.
type SolarSystem struct {
	Local  BodyTracker
	Remote BodyTracker
}

// BodyTrack implements BodyTracker.
func (s SolarSystem) BodyTrack(ctx context.Context, body Body, obs astro.Observer, times []time.Time) (Track, error) {
	if s.Local != nil {
		tr, err := s.Local.BodyTrack(ctx, body, obs, times)
		if !errors.Is(err, ErrUnsupportedBody) {
			return tr, err
		}
	}
	if s.Remote == nil {
		return Track{}, ErrUnsupportedBody
	}
	return s.Remote.BodyTrack(ctx, body, obs, times)
}

func newTrack(n int) Track {
	return Track{
		Alt: make([]float64, n),
		Az:  make([]float64, n),
	}
}
