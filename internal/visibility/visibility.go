// Package visibility decides when each target can be observed during a night.
package visibility

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/noise"
	"github.com/litescript/ls-nightplan/internal/target"
)

// Status classifies a target for one night.
type Status int

const (
	// Observable targets are unobstructed during dark time.
	Observable Status = iota
	// DaylightOnly targets are unobstructed only while the Sun is up.
	DaylightOnly
	// NotVisibleOnDate targets are unobstructed at some point but no window
	// could be bracketed on the grid.
	NotVisibleOnDate
	// NeverVisible targets are never unobstructed from the site.
	NeverVisible
	// NotVisibleTonight is used for solar-system bodies without a dark window.
	NotVisibleTonight
)

func (s Status) String() string {
	switch s {
	case Observable:
		return "observable"
	case DaylightOnly:
		return "daylight only"
	case NotVisibleOnDate:
		return "not visible on this date"
	case NeverVisible:
		return "never visible from this site"
	case NotVisibleTonight:
		return "not visible on this night"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Window is a pair of grid timestamps.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Result is the evaluation of one target.
type Result struct {
	Target target.Resolved
	Status Status

	// Window is set for Observable and DaylightOnly.
	Window *Window

	// Statistics over the observable samples inside Window; zero unless
	// Status is Observable.
	MeanCubedAirmass   float64
	MeanMoonSeparation float64
	ObservableSamples  int

	Track      ephem.Track
	Visible    []bool
	Observable []bool

	// Noise is set for observable targets with a known BP magnitude.
	Noise *noise.Estimate
}

// Evaluator evaluates targets against a sampled night.
type Evaluator struct {
	provider ephem.Provider
	exposure time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithExposure sets the exposure time used for noise estimates.
func WithExposure(d time.Duration) Option {
	return func(e *Evaluator) {
		e.exposure = d
	}
}

// NewEvaluator creates an Evaluator. The provider computes fixed-target
// tracks and converts horizontal coordinates to hour angle and declination.
func NewEvaluator(provider ephem.Provider, opts ...Option) *Evaluator {
	e := &Evaluator{
		provider: provider,
		exposure: noise.DefaultExpTime,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateAll evaluates targets in order.
func (e *Evaluator) EvaluateAll(nc *night.Context, targets []target.Resolved) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		r, err := e.Evaluate(nc, t)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", t.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Evaluate computes the visibility of one target during nc.
func (e *Evaluator) Evaluate(nc *night.Context, t target.Resolved) (Result, error) {
	times := nc.Grid.Times

	var track ephem.Track
	switch p := t.Position.(type) {
	case target.Fixed:
		track = e.provider.FixedTrack(nc.Site.Observer(), p.RAdeg, p.DecDeg, times)
	case target.Moving:
		track = p.Track
	default:
		return Result{}, fmt.Errorf("unknown position type %T", t.Position)
	}

	visible, err := nc.Site.IsUnobstructed(track.Alt, track.Az, times, e.provider)
	if err != nil {
		return Result{}, err
	}
	if len(nc.Dark) != len(visible) {
		return Result{}, fmt.Errorf("dark mask has %d samples, track has %d", len(nc.Dark), len(visible))
	}

	observable := make([]bool, len(visible))
	for i := range visible {
		observable[i] = visible[i] && nc.Dark[i]
	}

	r := Result{
		Target:     t,
		Track:      track,
		Visible:    visible,
		Observable: observable,
	}

	first, last, ok := span(observable)
	switch {
	case ok:
		r.Status = Observable
		r.Window = &Window{Start: times[first], End: times[last]}
		e.stats(&r, nc, first, last)
	case t.IsMoving():
		r.Status = NotVisibleTonight
	case !anyTrue(visible):
		r.Status = NeverVisible
	default:
		if start, end, found := firstEdgePair(visible); found {
			r.Status = DaylightOnly
			r.Window = &Window{Start: times[start], End: times[end]}
		} else {
			r.Status = NotVisibleOnDate
		}
	}

	return r, nil
}

// stats fills the airmass, Moon separation and noise fields from the
// observable samples between first and last. The span may include samples
// that are not observable; those are skipped.
func (e *Evaluator) stats(r *Result, nc *night.Context, first, last int) {
	var sumAirmass, sumSep float64
	n := 0
	for i := first; i <= last; i++ {
		if !r.Observable[i] {
			continue
		}
		am := astro.Airmass(r.Track.Alt[i])
		sumAirmass += am * am * am
		sumSep += astro.HorizontalSeparation(r.Track.Alt[i], r.Track.Az[i], nc.Moon.Alt[i], nc.Moon.Az[i])
		n++
	}

	r.ObservableSamples = n
	r.MeanCubedAirmass = sumAirmass / float64(n)
	r.MeanMoonSeparation = sumSep / float64(n)

	if r.Target.Mag != nil && !math.IsInf(r.MeanCubedAirmass, 0) {
		est := noise.Compute(nc.MoonIllumination, r.MeanCubedAirmass, *r.Target.Mag, e.exposure)
		r.Noise = &est
	}
}

// span returns the first and last true indices of mask.
func span(mask []bool) (first, last int, ok bool) {
	first = -1
	for i, v := range mask {
		if v {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

// firstEdgePair finds the first false→true transition and the first
// true→false transition after it. It returns the first and last true
// indices of that run.
func firstEdgePair(mask []bool) (start, end int, ok bool) {
	rise := -1
	for i := 1; i < len(mask); i++ {
		switch {
		case rise < 0 && !mask[i-1] && mask[i]:
			rise = i
		case rise >= 0 && mask[i-1] && !mask[i]:
			return rise, i - 1, true
		}
	}
	return 0, 0, false
}

func anyTrue(mask []bool) bool {
	for _, v := range mask {
		if v {
			return true
		}
	}
	return false
}
