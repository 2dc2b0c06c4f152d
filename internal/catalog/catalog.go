// Package catalog resolves object names to sky positions and looks up
// Gaia BP magnitudes.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resolver does not know a name.
	ErrNotFound = errors.New("object not found")

	// ErrNoMagnitude is returned when no BP magnitude is available.
	ErrNoMagnitude = errors.New("no BP magnitude available")
)

// Position is a resolved fixed sky position (J2000).
type Position struct {
	Name   string // canonical name reported by the resolver
	RAdeg  float64
	DecDeg float64
	Source string // resolver that produced the position
}

// Resolver turns a free-text name into a sky position.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, name string) (Position, error)
}

// MagnitudeLookup returns the Gaia DR3 BP magnitude for a name.
type MagnitudeLookup interface {
	BPMagnitude(ctx context.Context, name string) (float64, error)
}

// Chain tries resolvers in order. A resolver returning ErrNotFound passes
// the name to the next one; any other error stops the chain.
type Chain []Resolver

// Name implements Resolver.
func (c Chain) Name() string {
	return "chain"
}

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, name string) (Position, error) {
	for _, r := range c {
		pos, err := r.Resolve(ctx, name)
		if err == nil {
			return pos, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Position{}, fmt.Errorf("%s: %w", r.Name(), err)
		}
	}
	return Position{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
