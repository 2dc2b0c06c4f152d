package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Star is a built-in catalog entry.
type Star struct {
	Name   string  // Common name (e.g., "Sirius", "WASP-12")
	RAdeg  float64 // Right Ascension in degrees (J2000)
	DecDeg float64 // Declination in degrees (J2000)
	Mag    float64 // Apparent visual magnitude (lower = brighter)
}

// Builtin resolves names against a small offline list of bright stars and
// common time-series targets. Matching is case-insensitive and exact.
type Builtin struct {
	byName map[string]Star
}

// NewBuiltin returns the offline resolver.
func NewBuiltin() *Builtin {
	m := make(map[string]Star, len(builtinObjects))
	for _, s := range builtinObjects {
		m[strings.ToLower(s.Name)] = s
	}
	return &Builtin{byName: m}
}

// Name implements Resolver.
func (b *Builtin) Name() string {
	return "builtin"
}

// Resolve implements Resolver.
func (b *Builtin) Resolve(_ context.Context, name string) (Position, error) {
	s, ok := b.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Position{Name: s.Name, RAdeg: s.RAdeg, DecDeg: s.DecDeg, Source: b.Name()}, nil
}

// Objects returns the built-in entries, brightest stars first.
func (b *Builtin) Objects() []Star {
	out := make([]Star, len(builtinObjects))
	copy(out, builtinObjects)
	return out
}

// builtinObjects holds bright stars usable as focus or pointing checks,
// ordered roughly by magnitude (brightest first), followed by frequently
// observed transit hosts and deep-sky objects.
var builtinObjects = []Star{
	// Magnitude < 0 (exceptionally bright)
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Hadar", 210.956, -60.373, 0.61},

	// Magnitude 0.5-1.0
	{"Altair", 297.696, 8.868, 0.76},
	{"Acrux", 186.650, -63.099, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},

	// Magnitude 1.0-1.6
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Mimosa", 191.930, -59.689, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Adhara", 104.656, -28.972, 1.50},
	{"Castor", 113.650, 31.889, 1.58},

	// Pole star, for pointing checks
	{"Polaris", 37.954, 89.264, 2.02},

	// Transit hosts and time-series targets
	{"HD 209458", 330.795, 18.884, 7.65},
	{"HD 189733", 300.182, 22.711, 7.67},
	{"KELT-9", 307.860, 39.939, 7.56},
	{"WASP-12", 97.637, 29.672, 11.57},
	{"TRAPPIST-1", 346.622, -5.041, 18.80},

	// Deep sky
	{"M31", 10.685, 41.269, 3.44},
	{"M42", 83.822, -5.391, 4.00},
}
