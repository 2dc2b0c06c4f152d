package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPosition(t *testing.T) {
	// Cardinal points of the ecliptic in 2024; the Sun sits within a
	// degree of each at noon UTC on the listed day.
	tests := []struct {
		name    string
		time    time.Time
		wantRA  float64
		wantDec float64
	}{
		{"march equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 0, 0},
		{"june solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 90, 23.44},
		{"september equinox", time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC), 180, 0},
		{"december solstice", time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), 270, -23.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := SunPosition(tt.time)
			if sep := AngularSeparation(ra, dec, tt.wantRA, tt.wantDec); sep > 1 {
				t.Errorf("SunPosition() = (%.2f°, %.2f°), %.2f° from (%.0f°, %.2f°)",
					ra, dec, sep, tt.wantRA, tt.wantDec)
			}
			if ra < 0 || ra >= 360 {
				t.Errorf("RA = %.4f, want [0, 360)", ra)
			}
		})
	}
}

func TestSunAltitudeAtLocalNoon(t *testing.T) {
	// On the June solstice the noon Sun at latitude 23.44°N is overhead.
	when := time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC)
	obs := Observer{LatDeg: 23.44, LonDeg: 0}

	ra, dec := SunPosition(when)
	lst := LocalSiderealTime(when, 0)
	obs.LonDeg = normalizeAngle360(ra - lst)
	if obs.LonDeg > 180 {
		obs.LonDeg -= 360
	}

	h := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, when)
	if h.ElDeg < 89 {
		t.Errorf("noon altitude = %.2f°, want ~90°", h.ElDeg)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name      string
		ra1, dec1 float64
		ra2, dec2 float64
		want      float64
	}{
		{"identical", 100, 30, 100, 30, 0},
		{"quarter of the equator", 0, 0, 90, 0, 90},
		{"antipodal on the equator", 0, 0, 180, 0, 180},
		{"pole to equator", 0, 90, 0, 0, 90},
		{"pole to pole", 0, 90, 0, -90, 180},
		{"one degree of RA at dec 30", 100, 30, 101, 30, 0.866},
		{"RA wrap", 359.5, 0, 0.5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("AngularSeparation() = %.4f°, want %.4f°", got, tt.want)
			}
			if back := AngularSeparation(tt.ra2, tt.dec2, tt.ra1, tt.dec1); math.Abs(back-got) > 1e-9 {
				t.Errorf("separation not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}

func TestHorizontalSeparation(t *testing.T) {
	tests := []struct {
		name      string
		alt1, az1 float64
		alt2, az2 float64
		want      float64
	}{
		{"same direction", 45, 120, 45, 120, 0},
		{"zenith to horizon", 90, 0, 0, 200, 90},
		{"opposite horizon points", 0, 90, 0, 270, 180},
		{"flat point to moon east", 75, 90, 65, 90, 10},
		{"azimuth wrap", 10, 359, 10, 1, 1.9696},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HorizontalSeparation(tt.alt1, tt.az1, tt.alt2, tt.az2)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("HorizontalSeparation() = %.4f°, want %.4f°", got, tt.want)
			}
		})
	}
}

func TestNormalizeAngle360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-10, 350},
		{725, 5},
	}
	for _, tt := range tests {
		if got := normalizeAngle360(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeAngle360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
