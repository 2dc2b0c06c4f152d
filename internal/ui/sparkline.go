package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// elevColorLow is the color for low altitude (dark blue).
var elevColorLow = [3]uint8{0x1b, 0x2b, 0x4b}

// elevColorMid is the color for mid altitude (blue).
var elevColorMid = [3]uint8{0x34, 0x78, 0xc0}

// elevColorHigh is the color for high altitude (cyan).
var elevColorHigh = [3]uint8{0x8b, 0xe9, 0xff}

// renderAltitudeSparkline renders altitudes in degrees as one block per
// value. Values below the horizon are drawn as a dim baseline.
func renderAltitudeSparkline(values []float64) string {
	belowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	var sb strings.Builder
	for _, alt := range values {
		if alt <= 0 {
			sb.WriteString(belowStyle.Render("_"))
			continue
		}
		if alt > 90 {
			alt = 90
		}

		t := alt / 90.0
		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, b := interpolateElevColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}
	return sb.String()
}

// renderMaskBar renders a per-cell state row: observable, visible in
// daylight, or neither.
func renderMaskBar(observable, visible []bool) string {
	obsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7CFC00"))
	visStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	var sb strings.Builder
	for i := range observable {
		switch {
		case observable[i]:
			sb.WriteString(obsStyle.Render("█"))
		case i < len(visible) && visible[i]:
			sb.WriteString(visStyle.Render("▒"))
		default:
			sb.WriteString(offStyle.Render("·"))
		}
	}
	return sb.String()
}

// interpolateElevColor returns RGB color for altitude fraction t in [0, 1].
// Gradient: low (dark blue) → mid (blue) → high (cyan).
func interpolateElevColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var r, g, b uint8
	if t < 0.5 {
		s := t * 2
		r = uint8(float64(elevColorLow[0])*(1-s) + float64(elevColorMid[0])*s)
		g = uint8(float64(elevColorLow[1])*(1-s) + float64(elevColorMid[1])*s)
		b = uint8(float64(elevColorLow[2])*(1-s) + float64(elevColorMid[2])*s)
	} else {
		s := (t - 0.5) * 2
		r = uint8(float64(elevColorMid[0])*(1-s) + float64(elevColorHigh[0])*s)
		g = uint8(float64(elevColorMid[1])*(1-s) + float64(elevColorHigh[1])*s)
		b = uint8(float64(elevColorMid[2])*(1-s) + float64(elevColorHigh[2])*s)
	}

	return r, g, b
}

// bucketBounds returns the sample range [start, end) of bucket i when n
// samples are split into width buckets. Every bucket holds at least one
// sample.
func bucketBounds(i, n, width int) (int, int) {
	per := float64(n) / float64(width)
	start := int(float64(i) * per)
	end := int(float64(i+1) * per)
	if end <= start {
		end = start + 1
	}
	if end > n {
		end = n
		start = min(start, n-1)
	}
	return start, end
}

// resampleAltitude averages a grid-aligned series into width buckets.
func resampleAltitude(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	for i := range result {
		start, end := bucketBounds(i, len(values), width)
		sum := 0.0
		for j := start; j < end; j++ {
			sum += values[j]
		}
		result[i] = sum / float64(end-start)
	}
	return result
}

// resampleMask reduces a mask into width buckets; a bucket is set when
// any of its samples is set.
func resampleMask(mask []bool, width int) []bool {
	if len(mask) == 0 || width <= 0 {
		return nil
	}

	result := make([]bool, width)
	for i := range result {
		start, end := bucketBounds(i, len(mask), width)
		for j := start; j < end; j++ {
			if mask[j] {
				result[i] = true
				break
			}
		}
	}
	return result
}
