package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"grid midnight", time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), 2460325.5},
		{"february uses previous year", time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC), 2460370.25},
		{"non-UTC input", time.Date(2024, 1, 16, 1, 0, 0, 0, time.FixedZone("CET", 3600)), 2460325.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := julianDate(tt.time); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("julianDate() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestSiderealTime(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if gmst := greenwichMeanSiderealTime(j2000); math.Abs(gmst-280.46) > 0.01 {
		t.Errorf("GMST at J2000 = %.4f, want 280.46", gmst)
	}

	// One solar day later the sidereal clock has gained ~3m56s (0.9856°)
	day := greenwichMeanSiderealTime(j2000.Add(24 * time.Hour))
	gain := normalizeAngle360(day - greenwichMeanSiderealTime(j2000))
	if math.Abs(gain-0.9856) > 0.001 {
		t.Errorf("daily sidereal gain = %.4f°, want 0.9856°", gain)
	}

	when := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	gmst := greenwichMeanSiderealTime(when)
	for _, lon := range []float64{-155.47, -17.88, 0, 20.81, 179.9} {
		lst := LocalSiderealTime(when, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST(lon=%v) = %v out of [0, 360)", lon, lst)
		}
		if d := normalizeAngle360(lst - gmst - lon); d > 1e-9 && d < 360-1e-9 {
			t.Errorf("LST(lon=%v) - GMST = %v, want lon", lon, lst-gmst)
		}
	}
}

func TestEquatorialToHorizontal(t *testing.T) {
	lapalma := Observer{LatDeg: 28.76, LonDeg: -17.88, Name: "La Palma"}
	when := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	lst := LocalSiderealTime(when, lapalma.LonDeg)

	tests := []struct {
		name          string
		star          SkyCoord
		wantEl, tol   float64
		wantAz, azTol float64
	}{
		{"pole star sits at the latitude", SkyCoord{RAdeg: 37.95, DecDeg: 89.26}, 28.76, 1, 0, 1.5},
		{"transit at the zenith", SkyCoord{RAdeg: lst, DecDeg: 28.76}, 90, 1e-4, -1, 0},
		{"transit south of zenith", SkyCoord{RAdeg: lst, DecDeg: -11.24}, 50, 1e-6, 180, 1e-6},
		{"anti-transit of a circumpolar star", SkyCoord{RAdeg: normalizeAngle360(lst + 180), DecDeg: 80}, 18.76, 1e-6, 0, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := EquatorialToHorizontal(tt.star, lapalma, when)
			if math.Abs(h.ElDeg-tt.wantEl) > tt.tol {
				t.Errorf("El = %.4f°, want %.4f°", h.ElDeg, tt.wantEl)
			}
			if tt.wantAz >= 0 {
				d := math.Abs(h.AzDeg - tt.wantAz)
				if d > 180 {
					d = 360 - d
				}
				if d > tt.azTol {
					t.Errorf("Az = %.4f°, want %.4f°", h.AzDeg, tt.wantAz)
				}
			}
			if h.RAdeg != tt.star.RAdeg || h.DecDeg != tt.star.DecDeg {
				t.Errorf("RA/Dec changed: %v/%v", h.RAdeg, h.DecDeg)
			}
		})
	}
}

func TestEquatorialToHorizontal_NeverRises(t *testing.T) {
	// Highest altitude for dec -70 from 28.76N is 90 - 28.76 - 70 < 0
	lapalma := Observer{LatDeg: 28.76, LonDeg: -17.88}
	for hour := 0; hour < 24; hour++ {
		when := time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC)
		h := EquatorialToHorizontal(SkyCoord{RAdeg: 150, DecDeg: -70}, lapalma, when)
		if h.ElDeg > 0 {
			t.Errorf("hour %d: El = %.2f°, want below horizon", hour, h.ElDeg)
		}
		if h.AzDeg < 0 || h.AzDeg >= 360 {
			t.Errorf("hour %d: Az = %.2f° out of [0, 360)", hour, h.AzDeg)
		}
	}
}

func TestHorizontalToHourAngle_RoundTrip(t *testing.T) {
	observers := []Observer{
		{LatDeg: 28.7603, LonDeg: -17.8796, Name: "La Palma"},
		{LatDeg: -32.3794, LonDeg: 20.8107, Name: "Sutherland"},
		{LatDeg: 19.8207, LonDeg: -155.4681, Name: "Mauna Kea"},
	}
	testTime := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)

	for _, obs := range observers {
		for ra := 0.0; ra < 360; ra += 45 {
			for dec := -60.0; dec <= 60; dec += 30 {
				h := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, testTime)
				ha, gotDec := HorizontalToHourAngle(h.ElDeg, h.AzDeg, obs.LatDeg)

				wantHA := normalizeAngle360(LocalSiderealTime(testTime, obs.LonDeg)-ra) / 15
				if wantHA > 12 {
					wantHA -= 24
				}
				dHA := math.Abs(ha - wantHA)
				if dHA > 12 {
					dHA = 24 - dHA
				}
				if dHA > 1e-6 {
					t.Errorf("%s RA=%v Dec=%v: HA = %v, want %v", obs.Name, ra, dec, ha, wantHA)
				}
				if math.Abs(gotDec-dec) > 1e-6 {
					t.Errorf("%s RA=%v Dec=%v: Dec = %v, want %v", obs.Name, ra, dec, gotDec, dec)
				}
			}
		}
	}
}

func TestHorizontalToHourAngle_Meridian(t *testing.T) {
	// Due south on the meridian from the northern hemisphere: HA = 0, dec = lat - z
	ha, dec := HorizontalToHourAngle(60, 180, 30)
	if math.Abs(ha) > 1e-9 {
		t.Errorf("HA = %v, want 0", ha)
	}
	if math.Abs(dec-0) > 1e-9 {
		t.Errorf("Dec = %v, want 0", dec)
	}

	// Rising in the east gives a negative hour angle
	ha, _ = HorizontalToHourAngle(20, 100, 30)
	if ha >= 0 {
		t.Errorf("HA east of meridian = %v, want < 0", ha)
	}
}

func TestAirmass(t *testing.T) {
	tests := []struct {
		alt  float64
		want float64
	}{
		{90, 1},
		{30, 2},
		{60, 1.1547},
	}
	for _, tt := range tests {
		if got := Airmass(tt.alt); math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("Airmass(%v) = %v, want %v", tt.alt, got, tt.want)
		}
	}
	if got := Airmass(0); !math.IsInf(got, 1) {
		t.Errorf("Airmass(0) = %v, want +Inf", got)
	}
	if got := Airmass(-5); !math.IsInf(got, 1) {
		t.Errorf("Airmass(-5) = %v, want +Inf", got)
	}
}

func TestAngleConversionRoundTrip(t *testing.T) {
	for _, deg := range []float64{-90, 0, 45, 180, 359.5} {
		if got := radToDeg(degToRad(deg)); math.Abs(got-deg) > 1e-10 {
			t.Errorf("radToDeg(degToRad(%v)) = %v", deg, got)
		}
	}
	if got := degToRad(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("degToRad(180) = %v, want π", got)
	}
}
