// Package noise estimates the photometric precision of a time series with
// the 1 m telescope camera.
package noise

import (
	"math"
	"time"
)

// Instrument constants for the 2x2 binned camera.
const (
	PlateScale     = 0.778  // arcsec/pixel
	ReadNoise      = 12.96  // e-
	DarkCurrent    = 0.0243 // e-/pixel/s
	ReadoutTime    = 0.993  // s
	DefaultExpTime = 30 * time.Second

	telescopeAperture = 1.0    // m
	scaleHeight       = 8000.0 // m
	scintCY           = 1.3    // m^(2/3) s^(1/2)
	siteHeight        = 2396.0 // m
)

// Sky background levels in e-/arcsec²/s, selected by lunar illumination.
const (
	SkyDark   = 16.0
	SkyGrey   = 100.0
	SkyBright = 300.0
)

// Estimate is a per-exposure noise budget in electrons, with the combined
// precision over one hour of continuous exposures.
type Estimate struct {
	ApertureRadius float64 // pixels
	ZeroPoint      float64 // mag giving 1 e-/s
	SkyBackground  float64 // e-/arcsec²/s
	Exposure       time.Duration

	Signal        float64
	Read          float64
	Dark          float64
	Shot          float64
	Sky           float64
	Scintillation float64
	Total         float64

	PPMPerHour float64
}

// Compute returns the noise budget for a target of Gaia BP magnitude bp
// observed at the given lunar illumination percentage and mean cubed
// airmass. A non-positive exposure uses DefaultExpTime.
func Compute(moonPercent, meanCubedAirmass, bp float64, exposure time.Duration) Estimate {
	if exposure <= 0 {
		exposure = DefaultExpTime
	}
	t := exposure.Seconds()

	e := Estimate{Exposure: exposure}
	e.ApertureRadius, e.ZeroPoint = aperture(bp)
	e.SkyBackground = skyBackground(moonPercent)

	nPix := math.Pi * e.ApertureRadius * e.ApertureRadius

	e.Read = ReadNoise * math.Sqrt(nPix)
	e.Dark = math.Sqrt(DarkCurrent * t * nPix)
	e.Signal = math.Pow(10, (e.ZeroPoint-bp)/2.5) * t
	e.Shot = math.Sqrt(e.Signal)
	e.Sky = math.Sqrt(e.SkyBackground * PlateScale * PlateScale * nPix * t)
	e.Scintillation = math.Sqrt(1e-5*scintCY*scintCY*
		math.Pow(telescopeAperture, -4.0/3.0)*
		meanCubedAirmass*
		math.Exp(-2*siteHeight/scaleHeight)/t) * e.Signal

	e.Total = math.Sqrt(e.Read*e.Read + e.Dark*e.Dark + e.Shot*e.Shot +
		e.Sky*e.Sky + e.Scintillation*e.Scintillation)

	e.PPMPerHour = e.Total / e.Signal * math.Sqrt((t+ReadoutTime)/3600) * 1e6
	return e
}

// aperture returns the photometric aperture radius and its zero point.
func aperture(bp float64) (radius, zp float64) {
	switch {
	case bp < 14:
		return 20, 24.3
	case bp < 18:
		return 10, 24.0
	default:
		return 5, 23.7
	}
}

func skyBackground(moonPercent float64) float64 {
	switch {
	case moonPercent < 25:
		return SkyDark
	case moonPercent < 75:
		return SkyGrey
	default:
		return SkyBright
	}
}
