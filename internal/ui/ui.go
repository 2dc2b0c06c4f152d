// Package ui provides the interactive plan browser using Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewTargets ViewMode = iota
	ViewNight
)

// viewCount is the number of views cycled by tab.
const viewCount = 2

// Model is the root Bubble Tea model.
type Model struct {
	plan *planner.Plan

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool

	// Sub-models
	targets TargetsModel
	night   NightModel
}

// New creates a root model browsing plan.
func New(plan *planner.Plan) Model {
	return Model{
		plan:     plan,
		viewMode: ViewTargets,
		targets:  NewTargetsModel(plan),
		night:    NewNightModel(plan),
	}
}

// Run starts the browser in the alternate screen and blocks until the
// user quits.
func Run(plan *planner.Plan) error {
	p := tea.NewProgram(New(plan), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "t":
			m.viewMode = ViewTargets
		case "2", "n":
			m.viewMode = ViewNight

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		default:
			cmd = m.updateActiveView(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 12
		m.targets = m.targets.SetSize(msg.Width, contentHeight)
		m.night = m.night.SetSize(msg.Width, contentHeight)

	default:
		cmd = m.updateActiveView(msg)
	}

	return m, cmd
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewTargets:
		m.targets, cmd = m.targets.Update(msg)
	case ViewNight:
		m.night, cmd = m.night.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewTargets:
		content = m.targets.View()
	case ViewNight:
		content = m.night.View()
	}

	return m.renderLogo() + m.renderTabs() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ███╗   ██╗██╗ ██████╗ ██╗  ██╗████████╗██████╗ ██╗      █████╗ ███╗   ██╗`,
		`  ████╗  ██║██║██╔════╝ ██║  ██║╚══██╔══╝██╔══██╗██║     ██╔══██╗████╗  ██║`,
		`  ██╔██╗ ██║██║██║  ███╗███████║   ██║   ██████╔╝██║     ███████║██╔██╗ ██║`,
		`  ██║╚██╗██║██║██║   ██║██╔══██║   ██║   ██╔═══╝ ██║     ██╔══██║██║╚██╗██║`,
		`  ██║ ╚████║██║╚██████╔╝██║  ██║   ██║   ██║     ███████╗██║  ██║██║ ╚████║`,
		`  ╚═╝  ╚═══╝╚═╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tagline := fmt.Sprintf("  %s · night of %s · v%s",
		m.plan.Site.Name, m.plan.Night.Grid.Date.Format("2006-01-02"), version.Version)
	b.WriteString(muted.Render(tagline))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue through violet to a pale dawn orange.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 30 + t*(124-30)
		g = 58 + t*(58-58)
		b = 138 + t*(237-138)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 124 + t*(251-124)
		g = 58 + t*(146-58)
		b = 237 + t*(60-237)
	}

	brightness := 1.0 - (yRatio * 0.4)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Targets", "[2] Night"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	var help string
	switch m.viewMode {
	case ViewTargets:
		help = "j/k: select | tab: switch view | q: quit"
	default:
		help = "tab: switch view | q: quit"
	}

	footer := "  " + dimStyle.Render(help)
	if n := len(m.plan.Warnings); n > 0 {
		footer += "  " + dimStyle.Render("|") + "  " + warnStyle.Render(fmt.Sprintf("%d warning(s)", n))
	}
	return footer
}
