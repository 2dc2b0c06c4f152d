package target

import "testing"

func TestParseCoordinatePair(t *testing.T) {
	tests := []struct {
		ra, dec string
		wantRA  float64
		wantDec float64
		wantOK  bool
	}{
		{"10:00:00", "+20:00:00", 150.0, 20.0, true},
		{"00:00:00", "-45:30:00", 0, -45.5, true},
		{"06:30:00.0", "29:40:12", 97.5, 29.67, true},
		{"150.0", "20.0", 150.0, 20.0, true},
		{"0", "-90", 0, -90, true},
		{"360", "0", 0, 0, false},
		{"-1", "0", 0, 0, false},
		{"10", "91", 0, 0, false},
		{"24:00:00", "+00:00:00", 0, 0, false},
		{"10:60:00", "+00:00:00", 0, 0, false},
		{"10:00:00", "+91:00:00", 0, 0, false},
		{"10:00", "+20:00:00", 0, 0, false},
		{"10:00:00", "20.0", 0, 0, false},
		{"Vega", "Deneb", 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := parseCoordinatePair(tt.ra, tt.dec)
		if ok != tt.wantOK {
			t.Errorf("parseCoordinatePair(%q, %q) ok = %v, want %v", tt.ra, tt.dec, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if diff := got.RAdeg - tt.wantRA; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("parseCoordinatePair(%q, %q) RA = %v, want %v", tt.ra, tt.dec, got.RAdeg, tt.wantRA)
		}
		if diff := got.DecDeg - tt.wantDec; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("parseCoordinatePair(%q, %q) Dec = %v, want %v", tt.ra, tt.dec, got.DecDeg, tt.wantDec)
		}
	}
}

func TestParseCoordinatePair_Exact(t *testing.T) {
	got, ok := parseCoordinatePair("10:00:00", "+20:00:00")
	if !ok {
		t.Fatal("parseCoordinatePair() rejected a valid pair")
	}
	if got.RAdeg != 150.0 || got.DecDeg != 20.0 {
		t.Errorf("parseCoordinatePair() = %v/%v, want exactly 150/20", got.RAdeg, got.DecDeg)
	}
}
