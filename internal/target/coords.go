package target

import (
	"strconv"
	"strings"

	"github.com/soniakeys/unit"
)

// parseCoordinatePair recognises an RA/Dec pair written either as
// HH:MM:SS[.s] ±DD:MM:SS[.s] or as two decimal-degree numbers.
func parseCoordinatePair(raTok, decTok string) (Fixed, bool) {
	if strings.Contains(raTok, ":") || strings.Contains(decTok, ":") {
		ra, ok := parseSexagesimalRA(raTok)
		if !ok {
			return Fixed{}, false
		}
		dec, ok := parseSexagesimalDec(decTok)
		if !ok {
			return Fixed{}, false
		}
		return Fixed{RAdeg: ra, DecDeg: dec}, true
	}

	ra, err := strconv.ParseFloat(raTok, 64)
	if err != nil || ra < 0 || ra >= 360 {
		return Fixed{}, false
	}
	dec, err := strconv.ParseFloat(decTok, 64)
	if err != nil || dec < -90 || dec > 90 {
		return Fixed{}, false
	}
	return Fixed{RAdeg: ra, DecDeg: dec}, true
}

// parseSexagesimalRA parses HH:MM:SS[.s] and returns degrees.
func parseSexagesimalRA(s string) (float64, bool) {
	h, m, sec, ok := splitSexagesimal(s)
	if !ok || h > 23 {
		return 0, false
	}
	return unit.FromSexa(' ', h, m, sec) * 15, true
}

// parseSexagesimalDec parses ±DD:MM:SS[.s] and returns degrees.
func parseSexagesimalDec(s string) (float64, bool) {
	var neg byte = ' '
	switch {
	case strings.HasPrefix(s, "-"):
		neg = '-'
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	d, m, sec, ok := splitSexagesimal(s)
	if !ok {
		return 0, false
	}
	dec := unit.FromSexa(neg, d, m, sec)
	if dec < -90 || dec > 90 {
		return 0, false
	}
	return dec, true
}

func splitSexagesimal(s string) (whole, minutes int, seconds float64, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	whole, err := strconv.Atoi(parts[0])
	if err != nil || whole < 0 {
		return 0, 0, 0, false
	}
	minutes, err = strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes >= 60 {
		return 0, 0, 0, false
	}
	seconds, err = strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, 0, 0, false
	}
	return whole, minutes, seconds, true
}
