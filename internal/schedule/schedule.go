package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/litescript/ls-nightplan/internal/observatory"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

// DomeMargin is added before the evening flats and after the morning flats.
const DomeMargin = 2 * time.Minute

var (
	// ErrUnsupportedSite means the site does not take generated schedules.
	ErrUnsupportedSite = errors.New("site does not support automated schedules")

	// ErrSolarSystemTarget means a moving target was given for a schedule.
	ErrSolarSystemTarget = errors.New("solar-system targets cannot be scheduled")
)

// Action is one schedule step.
type Action interface {
	Type() string
}

// SkyFlats takes twilight flats.
type SkyFlats struct {
	Evening bool
}

// AutoFocus focuses the telescope once Start is reached, unless Expires
// has passed.
type AutoFocus struct {
	Start   time.Time
	Expires time.Time
}

// ObserveTimeSeries tracks a fixed target between Start and End.
type ObserveTimeSeries struct {
	Start  time.Time
	End    time.Time
	RAdeg  float64
	DecDeg float64
	Target string
}

func (SkyFlats) Type() string          { return "SkyFlats" }
func (AutoFocus) Type() string         { return "AutoFocus" }
func (ObserveTimeSeries) Type() string { return "ObserveTimeSeries" }

// Dome holds the dome open and close times.
type Dome struct {
	Open  time.Time `json:"open"`
	Close time.Time `json:"close"`
}

// Schedule is one night's action list.
type Schedule struct {
	Night    time.Time // civil date the night starts on
	Dome     Dome
	Actions  []Action
	Warnings []error
}

// Build assembles the schedule for date at site. All checks run before
// anything is written: the site must be schedulable, every target fixed,
// and both flat windows present. Targets without an observable window are
// skipped with a warning.
func Build(date time.Time, site observatory.Observatory, flats Flats, results []visibility.Result) (*Schedule, error) {
	if !site.Schedulable {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, site.Name)
	}
	for _, r := range results {
		if r.Target.IsMoving() {
			return nil, fmt.Errorf("%w: %s", ErrSolarSystemTarget, r.Target.Name)
		}
	}
	if !flats.Complete() {
		return nil, ErrNoFlatWindow
	}

	s := &Schedule{
		Night: date,
		Dome: Dome{
			Open:  flats.Evening.Time.Add(-DomeMargin),
			Close: flats.Morning.Time.Add(DomeMargin),
		},
	}

	if flats.Evening.Included {
		s.Actions = append(s.Actions, SkyFlats{Evening: true})
	}

	for _, r := range results {
		pos, _ := r.Target.Fixed()
		if r.Status != visibility.Observable || r.Window == nil {
			s.Warnings = append(s.Warnings, fmt.Errorf("%s skipped: %s", r.Target.Name, r.Status))
			continue
		}
		s.Actions = append(s.Actions,
			AutoFocus{Start: r.Window.Start, Expires: r.Window.End},
			ObserveTimeSeries{
				Start:  r.Window.Start,
				End:    r.Window.End,
				RAdeg:  pos.RAdeg,
				DecDeg: pos.DecDeg,
				Target: r.Target.Name,
			},
		)
	}

	if flats.Morning.Included {
		s.Actions = append(s.Actions, SkyFlats{Evening: false})
	}

	return s, nil
}

// actionJSON is the wire form shared by all action types.
type actionJSON struct {
	Type    string     `json:"type"`
	Evening *bool      `json:"evening,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
	RA      *float64   `json:"ra,omitempty"`
	Dec     *float64   `json:"dec,omitempty"`
	Object  string     `json:"object,omitempty"`
}

type scheduleJSON struct {
	Night   string       `json:"night"`
	Dome    Dome         `json:"dome"`
	Actions []actionJSON `json:"actions"`
}

// MarshalJSON encodes the schedule in the control system format.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	out := scheduleJSON{
		Night: s.Night.Format("2006-01-02"),
		Dome: Dome{
			Open:  s.Dome.Open.UTC(),
			Close: s.Dome.Close.UTC(),
		},
		Actions: make([]actionJSON, 0, len(s.Actions)),
	}

	for _, a := range s.Actions {
		aj := actionJSON{Type: a.Type()}
		switch v := a.(type) {
		case SkyFlats:
			aj.Evening = &v.Evening
		case AutoFocus:
			start, expires := v.Start.UTC(), v.Expires.UTC()
			aj.Start, aj.Expires = &start, &expires
		case ObserveTimeSeries:
			start, end := v.Start.UTC(), v.End.UTC()
			aj.Start, aj.End = &start, &end
			aj.RA, aj.Dec = &v.RAdeg, &v.DecDeg
			aj.Object = v.Target
		default:
			return nil, fmt.Errorf("unknown action type %T", a)
		}
		out.Actions = append(out.Actions, aj)
	}

	return json.Marshal(out)
}

// FileName returns the schedule file name for the night, YYYYMMDD.json.
func (s *Schedule) FileName() string {
	return s.Night.Format("20060102") + ".json"
}

// Write writes the schedule to dir/YYYYMMDD.json through a temporary file
// and a rename, and returns the final path.
func Write(dir string, s *Schedule) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode schedule: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create schedule directory: %w", err)
	}

	path := filepath.Join(dir, s.FileName())
	tmp, err := os.CreateTemp(dir, ".schedule-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp schedule: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", fmt.Errorf("write schedule: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("sync schedule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close schedule: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod schedule: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("rename schedule: %w", err)
	}
	return path, nil
}
