package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/schedule"
)

// NightModel shows the Sun, the Moon and the flat-field plan.
type NightModel struct {
	plan   *planner.Plan
	width  int
	height int
}

// NewNightModel creates the night view.
func NewNightModel(plan *planner.Plan) NightModel {
	return NightModel{plan: plan}
}

// SetSize updates the view dimensions.
func (m NightModel) SetSize(width, height int) NightModel {
	m.width = width
	m.height = height
	return m
}

// Update is a no-op; the night view has no interactive state.
func (m NightModel) Update(tea.Msg) (NightModel, tea.Cmd) {
	return m, nil
}

// View renders Sun and Moon altitude plots and the night's timings.
func (m NightModel) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	nc := m.plan.Night

	width := SparklineWidth
	if m.width > 0 && m.width-16 < width {
		width = max(m.width-16, 12)
	}

	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Sun        ") + renderAltitudeSparkline(resampleAltitude(nc.Sun.Alt, width)) + "\n")
	b.WriteString("  " + labelStyle.Render("Dark       ") + renderMaskBar(resampleMask(nc.Dark, width), nil) + "\n")
	b.WriteString("  " + labelStyle.Render("Moon       ") + renderAltitudeSparkline(resampleAltitude(nc.Moon.Alt, width)) + "\n")
	b.WriteString("  " + labelStyle.Render("           ") + labelStyle.Render(timeAxis(nc.Grid.Times, width)) + "\n\n")

	b.WriteString("  " + labelStyle.Render("Twilight   ") + valueStyle.Render(intervalText(nc.Twilight)) + "\n")
	b.WriteString("  " + labelStyle.Render("Night      ") + valueStyle.Render(intervalText(nc.Night)) + "\n")
	b.WriteString("  " + labelStyle.Render("Dark       ") + valueStyle.Render(formatDuration(nc.DarkHours())) + "\n")
	b.WriteString("  " + labelStyle.Render("Midnight   ") + valueStyle.Render(nc.SolarMidnight.Format("15:04 UTC")) + "\n")
	b.WriteString("  " + labelStyle.Render("Moon       ") + valueStyle.Render(fmt.Sprintf("%.0f%% lit, rise %s, set %s",
		nc.MoonIllumination, clockText(nc.MoonRise), clockText(nc.MoonSet))) + "\n")

	b.WriteString("\n")
	b.WriteString("  " + labelStyle.Render("Flats      ") + valueStyle.Render(flatText(m.plan.Flats.Evening, "evening")) + "\n")
	b.WriteString("  " + labelStyle.Render("           ") + valueStyle.Render(flatText(m.plan.Flats.Morning, "morning")) + "\n")
	return b.String()
}

func intervalText(iv *night.Interval) string {
	if iv == nil {
		return "not reached"
	}
	return fmt.Sprintf("%s – %s UTC (%s)", iv.Start.Format("15:04"), iv.End.Format("15:04"), formatDuration(iv.Duration()))
}

func clockText(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}

func flatText(f *schedule.Flat, label string) string {
	if f == nil {
		return label + ": no window"
	}
	state := "included"
	if !f.Included {
		state = "dropped"
	}
	return fmt.Sprintf("%s: %s UTC, Moon %.0f° (%s)", label, f.Time.Format("15:04"), f.MoonSeparation, state)
}
