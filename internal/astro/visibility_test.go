package astro

import (
	"math"
	"testing"
	"time"
)

func minuteTimes(n int) []time.Time {
	base := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return out
}

func TestFindRise(t *testing.T) {
	times := minuteTimes(4)

	tests := []struct {
		name      string
		alt       []float64
		wantFound bool
		wantIdx   int
		wantOff   time.Duration
	}{
		{"crossing halfway", []float64{-3, -1, 1, 3}, true, 1, time.Minute + 30*time.Second},
		{"lands exactly on zero", []float64{-2, -1, 0, 1}, true, 1, 2 * time.Minute},
		{"already up", []float64{1, 2, 3, 4}, false, 0, 0},
		{"only sets", []float64{3, 1, -1, -3}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := FindRise(times, tt.alt, 0)
			if ok != tt.wantFound {
				t.Fatalf("FindRise() found = %v, want %v", ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if c.Index != tt.wantIdx {
				t.Errorf("Index = %d, want %d", c.Index, tt.wantIdx)
			}
			if got := c.Time.Sub(times[0]); got != tt.wantOff {
				t.Errorf("Time offset = %v, want %v", got, tt.wantOff)
			}
		})
	}
}

func TestFindSet(t *testing.T) {
	times := minuteTimes(4)

	c, ok := FindSet(times, []float64{5, 2, -2, -5}, 0)
	if !ok {
		t.Fatal("FindSet() found no crossing")
	}
	if c.Index != 1 {
		t.Errorf("Index = %d, want 1", c.Index)
	}
	if got := c.Time.Sub(times[0]); got != time.Minute+30*time.Second {
		t.Errorf("Time offset = %v, want 1m30s", got)
	}

	if _, ok := FindSet(times, []float64{-5, -2, 2, 5}, 0); ok {
		t.Error("FindSet() found a crossing on a rising track")
	}
}

func TestInterpolateCrossing(t *testing.T) {
	tests := []struct {
		name      string
		el1, el2  float64
		threshold float64
		wantFrac  float64
	}{
		{"midpoint crossing", -10, 10, 0, 0.5},
		{"quarter crossing", -5, 15, 0, 0.25},
		{"three-quarter crossing", -15, 5, 0, 0.75},
		{"threshold below zero", -20, -10, -12, 0.8},
		{"flat track", 4, 4, 0, 0},
	}

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := interpolateCrossing(t1, t2, tt.el1, tt.el2, tt.threshold)
			actualFrac := float64(result.Sub(t1)) / float64(t2.Sub(t1))

			if math.Abs(actualFrac-tt.wantFrac) > 0.01 {
				t.Errorf("interpolateCrossing() fraction = %.3f, want %.3f", actualFrac, tt.wantFrac)
			}
		})
	}
}

func TestFirstLastBelow(t *testing.T) {
	values := []float64{5, -7, -11, -20, -11, -7, 5}

	if i, ok := FirstBelow(values, -6); !ok || i != 1 {
		t.Errorf("FirstBelow(-6) = %d, %v, want 1, true", i, ok)
	}
	if i, ok := LastBelow(values, -10); !ok || i != 4 {
		t.Errorf("LastBelow(-10) = %d, %v, want 4, true", i, ok)
	}
	if _, ok := FirstBelow(values, -30); ok {
		t.Error("FirstBelow(-30) should not find a sample")
	}
	if _, ok := LastBelow(nil, 0); ok {
		t.Error("LastBelow(nil) should not find a sample")
	}
}

func TestArgMin(t *testing.T) {
	tests := []struct {
		values []float64
		want   int
	}{
		{nil, -1},
		{[]float64{3}, 0},
		{[]float64{3, -1, 2, -1}, 1},
		{[]float64{-50, -40, -60, -30}, 2},
	}
	for _, tt := range tests {
		if got := ArgMin(tt.values); got != tt.want {
			t.Errorf("ArgMin(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		elDeg float64
		want  ElevationTier
	}{
		{-10, ElevationNone},
		{0, ElevationNone},
		{10, ElevationLow},
		{29.9, ElevationLow},
		{30, ElevationMedium},
		{59.9, ElevationMedium},
		{60, ElevationHigh},
		{90, ElevationHigh},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := GetElevationTier(tt.elDeg)
			if got != tt.want {
				t.Errorf("GetElevationTier(%.1f) = %v, want %v", tt.elDeg, got, tt.want)
			}
		})
	}
}
