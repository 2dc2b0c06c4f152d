package astro

import "time"

// Crossing is a horizon (or threshold) crossing found between two samples.
type Crossing struct {
	Index int       // sample index i; the crossing lies between i and i+1
	Time  time.Time // linearly interpolated crossing instant
}

// FindRise returns the first upward crossing of level: the first i with
// alt[i] < level <= alt[i+1]. The second result is false when the track
// never rises through level.
func FindRise(times []time.Time, alt []float64, level float64) (Crossing, bool) {
	n := min(len(times), len(alt))
	for i := 0; i+1 < n; i++ {
		if alt[i] < level && alt[i+1] >= level {
			return Crossing{Index: i, Time: interpolateCrossing(times[i], times[i+1], alt[i], alt[i+1], level)}, true
		}
	}
	return Crossing{}, false
}

// FindSet returns the first downward crossing of level: the first i with
// alt[i] > level >= alt[i+1].
func FindSet(times []time.Time, alt []float64, level float64) (Crossing, bool) {
	n := min(len(times), len(alt))
	for i := 0; i+1 < n; i++ {
		if alt[i] > level && alt[i+1] <= level {
			return Crossing{Index: i, Time: interpolateCrossing(times[i], times[i+1], alt[i], alt[i+1], level)}, true
		}
	}
	return Crossing{}, false
}

// FirstBelow returns the index of the first sample strictly below level.
func FirstBelow(values []float64, level float64) (int, bool) {
	for i, v := range values {
		if v < level {
			return i, true
		}
	}
	return -1, false
}

// LastBelow returns the index of the last sample strictly below level.
func LastBelow(values []float64, level float64) (int, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] < level {
			return i, true
		}
	}
	return -1, false
}

// ArgMin returns the index of the smallest value (first on ties), or -1 for
// an empty slice.
func ArgMin(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v < values[best] {
			best = i
		}
	}
	return best
}

// interpolateCrossing finds the time when elevation crosses a threshold:
// t1 + (t2 - t1) * (threshold - el1) / (el2 - el1).
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if el2 == el1 {
		return t1
	}

	fraction := (threshold - el1) / (el2 - el1)

	// Clamp to valid range
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// ElevationTier categorizes elevation for display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-30 degrees
	ElevationMedium                      // 30-60 degrees
	ElevationHigh                        // 60+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 30:
		return ElevationLow
	case elDeg < 60:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
