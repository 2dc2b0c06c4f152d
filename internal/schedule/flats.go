// Package schedule plans twilight flats and emits the JSON observing
// schedule consumed by the telescope control system.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/night"
)

const (
	// FlatFieldAlt is the altitude of the representative flat pointing,
	// opposite the Sun in azimuth.
	FlatFieldAlt = 75.0

	// FlatMoonLimit is the minimum Moon separation for usable flats.
	FlatMoonLimit = 30.0
)

var (
	// ErrNoFlatWindow means the Sun never enters the flat band on the grid.
	ErrNoFlatWindow = errors.New("no flat-field window")

	// ErrMoonTooClose means a flat was dropped for lunar proximity.
	ErrMoonTooClose = errors.New("moon too close to flat field")
)

// Flat is one twilight flat opportunity.
type Flat struct {
	Evening        bool
	Time           time.Time // evening start or morning end
	MoonSeparation float64   // degrees from the flat pointing
	Included       bool
}

func (f Flat) label() string {
	if f.Evening {
		return "evening"
	}
	return "morning"
}

// Flats holds both twilight flat opportunities. A nil entry means the Sun
// does not reach the flat band on that side of the night.
type Flats struct {
	Evening  *Flat
	Morning  *Flat
	Warnings []error
}

// Complete reports whether both windows exist.
func (f Flats) Complete() bool {
	return f.Evening != nil && f.Morning != nil
}

// PlanFlats finds the evening flat start (first sample with the Sun below
// FlatSunAlt.Max) and the morning flat end (last sample with the Sun below
// FlatSunAlt.Min), and keeps each only when the Moon is more than
// FlatMoonLimit from the flat pointing. Problems are reported as warnings.
func PlanFlats(nc *night.Context) Flats {
	var out Flats
	limits := nc.Site.FlatSunAlt

	if i, ok := astro.FirstBelow(nc.Sun.Alt, limits.Max); ok {
		out.Evening = flatAt(nc, i, true)
	} else {
		out.Warnings = append(out.Warnings, fmt.Errorf("%w: Sun never below %.0f° in the evening", ErrNoFlatWindow, limits.Max))
	}

	if i, ok := astro.LastBelow(nc.Sun.Alt, limits.Min); ok {
		out.Morning = flatAt(nc, i, false)
	} else {
		out.Warnings = append(out.Warnings, fmt.Errorf("%w: Sun never below %.0f° in the morning", ErrNoFlatWindow, limits.Min))
	}

	for _, f := range []*Flat{out.Evening, out.Morning} {
		if f != nil && !f.Included {
			out.Warnings = append(out.Warnings, fmt.Errorf("%w: %s flats dropped, Moon %.1f° from pointing",
				ErrMoonTooClose, f.label(), f.MoonSeparation))
		}
	}
	return out
}

// flatAt evaluates the flat pointing at grid index i.
func flatAt(nc *night.Context, i int, evening bool) *Flat {
	az := math.Mod(nc.Sun.Az[i]+180, 360)
	sep := astro.HorizontalSeparation(FlatFieldAlt, az, nc.Moon.Alt[i], nc.Moon.Az[i])
	return &Flat{
		Evening:        evening,
		Time:           nc.Grid.Times[i],
		MoonSeparation: sep,
		Included:       sep > FlatMoonLimit,
	}
}
