// Package report renders a plan as a console summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/schedule"
	"github.com/litescript/ls-nightplan/internal/target"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

// Display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high elevation
	colorVisMedium = "#FFD700" // Gold - medium elevation
	colorVisLow    = "#FF6347" // Tomato - low elevation
	colorVisNone   = "#444444" // Dark gray - not observable

	// Moon separation colors
	colorMoonSafe    = "#7CFC00" // Green - >= 30°
	colorMoonCaution = "#FFD700" // Gold - 15-30°
	colorMoonWarning = "#FF4500" // Orange-red - < 15°
)

const timeLayout = "15:04"

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMoonWarning))
)

// Write renders plan to w.
func Write(w io.Writer, plan *planner.Plan) error {
	var b strings.Builder

	b.WriteString(renderHeader(plan))
	b.WriteString("\n\n")
	b.WriteString(renderTargets(plan.Results))
	b.WriteString("\n")

	if flats := renderFlats(plan.Flats); flats != "" {
		b.WriteString("\n")
		b.WriteString(flats)
		b.WriteString("\n")
	}

	if len(plan.Warnings) > 0 {
		b.WriteString("\n")
		for _, warn := range plan.Warnings {
			b.WriteString(warnStyle.Render("warning: "+warn.Error()) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderHeader renders the site and Sun/Moon summary.
//
//	w1m  28.7603° -17.8796°  2387 m   night of 2024-01-15
//	Moon      27% illuminated   rise 11:02   set 23:18
//	Twilight  19:07 - 07:01 (11h54m)
func renderHeader(plan *planner.Plan) string {
	nc := plan.Night
	site := plan.Site

	var lines []string
	lines = append(lines, labelStyle.Render(site.Name)+dimStyle.Render(fmt.Sprintf("  %.4f° %.4f°  %.0f m   night of %s",
		site.Lat, site.Lon, site.Height, nc.Grid.Date.Format("2006-01-02"))))

	moon := fmt.Sprintf("%3.0f%% illuminated", nc.MoonIllumination)
	if nc.MoonRise != nil {
		moon += "   rise " + nc.MoonRise.UTC().Format(timeLayout)
	}
	if nc.MoonSet != nil {
		moon += "   set " + nc.MoonSet.UTC().Format(timeLayout)
	}
	lines = append(lines, row("Moon", moon))
	lines = append(lines, row("Twilight", renderInterval(nc.Twilight)))
	lines = append(lines, row("Night", renderInterval(nc.Night)))
	lines = append(lines, row("Dark", formatDuration(nc.DarkHours())))

	midnight := fmt.Sprintf("%s UTC (%+.0f min)", nc.SolarMidnight.UTC().Format(timeLayout), nc.SolarMidnightOffset.Minutes())
	if i := nc.Grid.Index(nc.SolarMidnight); i >= 0 && i < len(nc.Moon.Alt) {
		midnight += fmt.Sprintf("   moon alt %.0f°", nc.Moon.Alt[i])
	}
	lines = append(lines, row("Midnight", midnight))

	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + value
}

func renderInterval(iv *night.Interval) string {
	if iv == nil {
		return dimStyle.Render("not available on this date")
	}
	return fmt.Sprintf("%s - %s (%s)", iv.Start.UTC().Format(timeLayout), iv.End.UTC().Format(timeLayout),
		formatDuration(iv.Duration()))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// renderTargets renders one line per result in input order.
func renderTargets(results []visibility.Result) string {
	header := dimStyle.Render(fmt.Sprintf("%-16s %-14s %-14s %-13s %8s %9s %12s",
		"Target", "RA", "Dec", "Window (UTC)", "Airmass³", "Moon sep", "Noise"))

	lines := []string{header}
	for _, r := range results {
		lines = append(lines, renderResult(r))
	}
	return strings.Join(lines, "\n")
}

func renderResult(r visibility.Result) string {
	name := labelStyle.Render(fmt.Sprintf("%-16s", truncate(r.Target.Name, 16)))
	ra, dec := formatPosition(r.Target)
	coords := fmt.Sprintf(" %-14s %-14s ", ra, dec)

	if r.Status != visibility.Observable {
		text := r.Status.String()
		if r.Status == visibility.DaylightOnly && r.Window != nil {
			text = fmt.Sprintf("%s (%s - %s)", text,
				r.Window.Start.UTC().Format(timeLayout), r.Window.End.UTC().Format(timeLayout))
		}
		return name + coords + dimStyle.Render(text)
	}

	tier := astro.GetElevationTier(peakAltitude(r))
	window := colorByTier(tier, fmt.Sprintf("%-13s", r.Window.Start.UTC().Format(timeLayout)+"-"+r.Window.End.UTC().Format(timeLayout)))

	noise := dimStyle.Render(fmt.Sprintf("%12s", "-"))
	if r.Noise != nil {
		noise = fmt.Sprintf("%8.0f ppm", r.Noise.PPMPerHour)
	}

	return name + coords + window +
		fmt.Sprintf(" %8.2f ", r.MeanCubedAirmass) +
		renderMoonSeparation(r.MeanMoonSeparation) + " " + noise
}

// formatPosition returns sexagesimal RA and Dec, or the body name for
// moving targets.
func formatPosition(t target.Resolved) (string, string) {
	f, ok := t.Fixed()
	if !ok {
		return "moving", ""
	}
	return fmt.Sprint(sexa.FmtRA(unit.RAFromDeg(f.RAdeg))),
		fmt.Sprint(sexa.FmtAngle(unit.AngleFromDeg(f.DecDeg)))
}

// peakAltitude returns the highest observable altitude.
func peakAltitude(r visibility.Result) float64 {
	peak := -90.0
	for i, ok := range r.Observable {
		if ok && r.Track.Alt[i] > peak {
			peak = r.Track.Alt[i]
		}
	}
	return peak
}

func renderMoonSeparation(sep float64) string {
	color := colorMoonSafe
	switch {
	case sep < 15:
		color = colorMoonWarning
	case sep < schedule.FlatMoonLimit:
		color = colorMoonCaution
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	return style.Render(fmt.Sprintf("%8.1f°", sep))
}

// renderFlats renders the twilight flat windows.
func renderFlats(f schedule.Flats) string {
	var lines []string
	for _, flat := range []*schedule.Flat{f.Evening, f.Morning} {
		if flat == nil {
			continue
		}
		label := "Morning"
		verb := "end"
		if flat.Evening {
			label = "Evening"
			verb = "start"
		}
		state := "ok"
		if !flat.Included {
			state = "dropped"
		}
		lines = append(lines, row(label, fmt.Sprintf("flats %s %s   moon %.1f° from pointing (%s)",
			verb, flat.Time.UTC().Format(timeLayout), flat.MoonSeparation, state)))
	}
	return strings.Join(lines, "\n")
}

// tierToColor returns the color for an elevation tier.
func tierToColor(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return colorVisHigh
	case astro.ElevationMedium:
		return colorVisMedium
	case astro.ElevationLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier astro.ElevationTier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
