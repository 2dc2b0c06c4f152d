package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

// SparklineWidth is the default number of cells used for per-night plots.
const SparklineWidth = 72

// TargetsModel lists targets and plots the selected one over the night.
type TargetsModel struct {
	plan     *planner.Plan
	selected int
	width    int
	height   int
}

// NewTargetsModel creates the targets view.
func NewTargetsModel(plan *planner.Plan) TargetsModel {
	return TargetsModel{plan: plan}
}

// SetSize updates the view dimensions.
func (m TargetsModel) SetSize(width, height int) TargetsModel {
	m.width = width
	m.height = height
	return m
}

// Selected returns the index of the selected result.
func (m TargetsModel) Selected() int {
	return m.selected
}

// Update handles selection keys.
func (m TargetsModel) Update(msg tea.Msg) (TargetsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.plan.Results)-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		if n := len(m.plan.Results); n > 0 {
			m.selected = n - 1
		}
	}
	return m, nil
}

// View renders the list and the selected target's detail panel.
func (m TargetsModel) View() string {
	if len(m.plan.Results) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("  No targets")
	}

	var b strings.Builder
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderDetail(m.plan.Results[m.selected]))
	return b.String()
}

func (m TargetsModel) renderList() string {
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	var b strings.Builder
	for i, res := range m.plan.Results {
		cursor := "  "
		style := nameStyle
		if i == m.selected {
			cursor = "▶ "
			style = selStyle
		}
		line := fmt.Sprintf("%-24s", truncate(res.Target.Name, 24))
		b.WriteString("  " + cursor + style.Render(line) + " " + statusStyle(res.Status).Render(res.Status.String()) + "\n")
	}
	return b.String()
}

func (m TargetsModel) renderDetail(res visibility.Result) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	width := m.plotWidth()

	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Altitude   ") + renderAltitudeSparkline(resampleAltitude(res.Track.Alt, width)) + "\n")
	b.WriteString("  " + labelStyle.Render("Observable ") + renderMaskBar(resampleMask(res.Observable, width), resampleMask(res.Visible, width)) + "\n")
	b.WriteString("  " + labelStyle.Render("           ") + labelStyle.Render(m.timeAxis(width)) + "\n\n")

	if res.Window != nil {
		b.WriteString("  " + labelStyle.Render("Window     ") + valueStyle.Render(fmt.Sprintf("%s – %s UTC (%s)",
			res.Window.Start.Format("15:04"), res.Window.End.Format("15:04"), formatDuration(res.Window.Duration()))) + "\n")
	}
	if res.Status == visibility.Observable {
		b.WriteString("  " + labelStyle.Render("Airmass³   ") + valueStyle.Render(fmt.Sprintf("%.2f", res.MeanCubedAirmass)) + "\n")
		b.WriteString("  " + labelStyle.Render("Moon sep   ") + valueStyle.Render(fmt.Sprintf("%.0f°", res.MeanMoonSeparation)) + "\n")
	}
	if res.Target.Mag != nil {
		b.WriteString("  " + labelStyle.Render("BP mag     ") + valueStyle.Render(fmt.Sprintf("%.2f", *res.Target.Mag)) + "\n")
	}
	if res.Noise != nil {
		b.WriteString("  " + labelStyle.Render("Noise      ") + valueStyle.Render(fmt.Sprintf("%.0f ppm/h (aperture %.0f px)",
			res.Noise.PPMPerHour, res.Noise.ApertureRadius)) + "\n")
	}
	return b.String()
}

func (m TargetsModel) plotWidth() int {
	w := SparklineWidth
	if m.width > 0 && m.width-16 < w {
		w = m.width - 16
	}
	if w < 12 {
		w = 12
	}
	return w
}

// timeAxis labels the first, middle and last cell of a plot with UTC
// clock times from the grid.
func (m TargetsModel) timeAxis(width int) string {
	return timeAxis(m.plan.Night.Grid.Times, width)
}

func timeAxis(times []time.Time, width int) string {
	if len(times) == 0 || width < 12 {
		return ""
	}

	first := times[0].Format("15:04")
	mid := times[len(times)/2].Format("15:04")
	last := times[len(times)-1].Format("15:04")

	axis := []rune(strings.Repeat(" ", width))
	copy(axis, []rune(first))
	copy(axis[(width-len(mid))/2:], []rune(mid))
	copy(axis[width-len(last):], []rune(last))
	return string(axis)
}

func statusStyle(s visibility.Status) lipgloss.Style {
	switch s {
	case visibility.Observable:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#7CFC00"))
	case visibility.DaylightOnly:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	case visibility.NotVisibleTonight:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
