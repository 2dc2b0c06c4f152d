// Package observatory models observing sites: their location, horizon
// obstruction and the pointing limits that decide whether a sample of a
// target track can be observed.
package observatory

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
)

// ProfileSamples is the number of altitude samples in a horizon profile,
// covering azimuth 0°..360° inclusive at 10° steps.
const ProfileSamples = 37

// profileStep is the azimuth spacing between profile samples in degrees.
const profileStep = 360.0 / (ProfileSamples - 1)

// ErrLengthMismatch is returned when track slices passed to IsUnobstructed differ in length.
var ErrLengthMismatch = errors.New("alt, az and time slices differ in length")

// Horizon is the minimum-altitude constraint of a site. It is either a
// ScalarLimit or a HorizonProfile.
type Horizon interface {
	// MinAltitudeAt returns the lowest usable altitude at the given azimuth.
	MinAltitudeAt(azDeg float64) float64

	allows(altDeg, azDeg, decDeg float64) bool
}

// ScalarLimit is a flat altitude limit combined with declination bounds.
type ScalarLimit struct {
	MinAlt float64 // degrees
	MinDec float64 // degrees, default -90
	MaxDec float64 // degrees, default +90
}

// MinAltitudeAt implements Horizon.
func (s ScalarLimit) MinAltitudeAt(float64) float64 {
	return s.MinAlt
}

func (s ScalarLimit) allows(altDeg, _ float64, decDeg float64) bool {
	return altDeg > s.MinAlt && decDeg > s.MinDec && decDeg < s.MaxDec
}

// HorizonProfile is a measured physical horizon: altitudes at azimuth
// 0, 10, ..., 360 degrees. Sample 0 and sample 36 both describe north and
// the registry rejects profiles where they differ.
// No declination limit applies in profile mode.
type HorizonProfile struct {
	Samples [ProfileSamples]float64
}

// MinAltitudeAt linearly interpolates the profile at the given azimuth.
// Azimuths outside [0, 360) are wrapped first, so 0° and 360° agree.
func (p HorizonProfile) MinAltitudeAt(azDeg float64) float64 {
	az := math.Mod(azDeg, 360)
	if az < 0 {
		az += 360
	}

	pos := az / profileStep
	i := int(pos)
	if i >= ProfileSamples-1 {
		i = ProfileSamples - 2
	}
	frac := pos - float64(i)

	return p.Samples[i] + (p.Samples[i+1]-p.Samples[i])*frac
}

func (p HorizonProfile) allows(altDeg, azDeg, _ float64) bool {
	return altDeg > p.MinAltitudeAt(azDeg)
}

// FlatLimits bounds the Sun altitude band used for twilight flats.
type FlatLimits struct {
	Max float64 // evening flats start once the Sun is below this, default -6
	Min float64 // morning flats end at the last sample below this, default -10
}

// Observatory is an immutable observing site.
type Observatory struct {
	Name         string
	Lat          float64 // degrees, north positive
	Lon          float64 // degrees, east positive
	Height       float64 // meters
	Horizon      Horizon
	MaxHourAngle float64 // hours
	MaxSunAlt    float64 // degrees; samples with the Sun below this are dark
	FlatSunAlt   FlatLimits
	Schedulable  bool // site accepts generated JSON schedules
}

// FrameTransformer converts horizontal coordinates into local hour angle
// and declination for a site.
type FrameTransformer interface {
	HourAngleDec(obs astro.Observer, altDeg, azDeg float64, t time.Time) (haHours, decDeg float64)
}

// Observer returns the site as an astro.Observer.
func (o Observatory) Observer() astro.Observer {
	return astro.Observer{
		LatDeg:  o.Lat,
		LonDeg:  o.Lon,
		HeightM: o.Height,
		Name:    o.Name,
	}
}

// LonOffsetHours returns the site longitude in hour-angle units.
func (o Observatory) LonOffsetHours() float64 {
	return o.Lon / 15
}

// Allows reports whether a single sample passes the site limits.
func (o Observatory) Allows(altDeg, azDeg, haHours, decDeg float64) bool {
	if math.Abs(haHours) >= o.MaxHourAngle {
		return false
	}
	return o.Horizon.allows(altDeg, azDeg, decDeg)
}

// MinAltitudeAt returns the effective altitude limit at an azimuth.
func (o Observatory) MinAltitudeAt(azDeg float64) float64 {
	return o.Horizon.MinAltitudeAt(azDeg)
}

// IsUnobstructed evaluates Allows at every sample of a track. The hour
// angle and declination of each sample come from frame.
func (o Observatory) IsUnobstructed(alt, az []float64, times []time.Time, frame FrameTransformer) ([]bool, error) {
	if len(alt) != len(az) || len(alt) != len(times) {
		return nil, fmt.Errorf("%w: alt=%d az=%d times=%d", ErrLengthMismatch, len(alt), len(az), len(times))
	}

	obs := o.Observer()
	mask := make([]bool, len(alt))
	for i := range alt {
		ha, dec := frame.HourAngleDec(obs, alt[i], az[i], times[i])
		mask[i] = o.Allows(alt[i], az[i], ha, dec)
	}
	return mask, nil
}

// IsProfile reports whether the site uses a measured horizon profile.
func (o Observatory) IsProfile() bool {
	_, ok := o.Horizon.(HorizonProfile)
	return ok
}
