package astro

import (
	"math"
	"time"
)

// MoonPosition returns the geocentric apparent RA/Dec of the Moon in degrees
// and its horizontal parallax in degrees. Low-precision series from the
// Astronomical Almanac: ~0.3° in longitude, ~0.2° in latitude.
func MoonPosition(t time.Time) (raDeg, decDeg, parallaxDeg float64) {
	T := julianCenturies(t)

	sinD := func(deg float64) float64 { return math.Sin(degToRad(deg)) }
	cosD := func(deg float64) float64 { return math.Cos(degToRad(deg)) }

	lon := 218.32 + 481267.881*T +
		6.29*sinD(135.0+477198.87*T) -
		1.27*sinD(259.3-413335.36*T) +
		0.66*sinD(235.7+890534.22*T) +
		0.21*sinD(269.9+954397.74*T) -
		0.19*sinD(357.5+35999.05*T) -
		0.11*sinD(186.5+966404.03*T)

	lat := 5.13*sinD(93.3+483202.02*T) +
		0.28*sinD(228.2+960400.89*T) -
		0.28*sinD(318.3+6003.15*T) -
		0.17*sinD(217.6-407332.21*T)

	parallaxDeg = 0.9508 +
		0.0518*cosD(135.0+477198.87*T) +
		0.0095*cosD(259.3-413335.36*T) +
		0.0078*cosD(235.7+890534.22*T) +
		0.0028*cosD(269.9+954397.74*T)

	// Ecliptic direction cosines rotated into the equator
	eps := degToRad(meanObliquity(T))
	lonRad := degToRad(normalizeAngle360(lon))
	latRad := degToRad(lat)

	l := math.Cos(latRad) * math.Cos(lonRad)
	m := math.Cos(eps)*math.Cos(latRad)*math.Sin(lonRad) - math.Sin(eps)*math.Sin(latRad)
	n := math.Sin(eps)*math.Cos(latRad)*math.Sin(lonRad) + math.Cos(eps)*math.Sin(latRad)

	raDeg = normalizeAngle360(radToDeg(math.Atan2(m, l)))
	decDeg = radToDeg(math.Asin(clampUnit(n)))

	return raDeg, decDeg, parallaxDeg
}

// MoonHorizontal returns the topocentric horizontal position of the Moon.
// Parallax in altitude is applied as π·cos(alt); the azimuth shift is
// negligible at this precision.
func MoonHorizontal(obs Observer, t time.Time) SkyCoord {
	ra, dec, parallax := MoonPosition(t)
	h := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t)
	h.ElDeg -= parallax * math.Cos(degToRad(h.ElDeg))
	return h
}

// MoonIllumination returns the illuminated fraction of the lunar disk (0-1).
// The phase angle is approximated as 180° minus the Sun-Moon elongation.
func MoonIllumination(t time.Time) float64 {
	sunRA, sunDec := SunPosition(t)
	moonRA, moonDec, _ := MoonPosition(t)

	elongation := AngularSeparation(sunRA, sunDec, moonRA, moonDec)
	phaseAngle := degToRad(180 - elongation)

	return (1 + math.Cos(phaseAngle)) / 2
}
