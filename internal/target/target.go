// Package target turns command-line tokens into resolved observing targets.
package target

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-nightplan/internal/ephem"
)

var (
	// ErrTargetNotFound is matched by every *NotFoundError.
	ErrTargetNotFound = errors.New("target not found")

	// ErrNoTargets is returned when no tokens were given.
	ErrNoTargets = errors.New("no targets given")

	// ErrTooManyNames is returned when more display names than targets are given.
	ErrTooManyNames = errors.New("more names than targets")
)

// NotFoundError names the token that no resolution step could match.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("target not found: %q", e.Token)
}

// Is reports whether target matches ErrTargetNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// Source labels for resolved targets.
const (
	SourceCoordinates = "coordinates"
	SourceAnalytic    = "analytic"
	SourceHorizons    = "horizons"
)

// Position is either Fixed or Moving.
type Position interface {
	isPosition()
}

// Fixed is a sidereal position in J2000 degrees.
type Fixed struct {
	RAdeg  float64
	DecDeg float64
}

// Moving is a solar-system body with a precomputed track over the night grid.
type Moving struct {
	Body  ephem.Body
	Track ephem.Track
}

func (Fixed) isPosition()  {}
func (Moving) isPosition() {}

// Resolved is one target ready for evaluation.
type Resolved struct {
	Name     string
	Tokens   []string // input tokens consumed by this target
	Position Position
	Mag      *float64 // Gaia BP magnitude; nil when unknown
	Source   string
}

// IsMoving reports whether the target carries a moving track.
func (r Resolved) IsMoving() bool {
	_, ok := r.Position.(Moving)
	return ok
}

// Fixed returns the fixed position and true, or false for moving targets.
func (r Resolved) Fixed() (Fixed, bool) {
	f, ok := r.Position.(Fixed)
	return f, ok
}
