package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/observatory"
	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/schedule"
	"github.com/litescript/ls-nightplan/internal/target"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

func testPlan() *planner.Plan {
	grid := night.NewGrid(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 0)
	n := grid.Len()

	track := func(peak float64) ephem.Track {
		tr := ephem.Track{Alt: make([]float64, n), Az: make([]float64, n)}
		for i := range tr.Alt {
			tr.Alt[i] = peak - 120*float64(abs(i-n/2))/float64(n)
			tr.Az[i] = 180
		}
		return tr
	}

	dark := make([]bool, n)
	observable := make([]bool, n)
	for i := n / 4; i < 3*n/4; i++ {
		dark[i] = true
		observable[i] = true
	}

	mag := 9.5
	nc := &night.Context{
		Site:          observatory.Observatory{Name: "Test Site"},
		Grid:          grid,
		Sun:           track(-40),
		Moon:          track(20),
		Dark:          dark,
		SolarMidnight: grid.Times[n/2],
		Night:         &night.Interval{Start: grid.Times[n/4], End: grid.Times[3*n/4]},
	}

	window := &visibility.Window{Start: grid.Times[n/4], End: grid.Times[3*n/4]}
	return &planner.Plan{
		Site:  nc.Site,
		Night: nc,
		Results: []visibility.Result{
			{
				Target:           target.Resolved{Name: "Vega", Mag: &mag},
				Status:           visibility.Observable,
				Window:           window,
				MeanCubedAirmass: 1.5,
				Track:            track(60),
				Visible:          observable,
				Observable:       observable,
			},
			{Target: target.Resolved{Name: "Polar"}, Status: visibility.NeverVisible, Track: track(-10)},
			{Target: target.Resolved{Name: "Noon"}, Status: visibility.DaylightOnly, Track: track(30)},
		},
		Flats: schedule.Flats{
			Evening: &schedule.Flat{Evening: true, Time: grid.Times[n/4], MoonSeparation: 50, Included: true},
		},
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelViewSwitching(t *testing.T) {
	var model tea.Model = New(testPlan())

	if got := model.View(); got != "Initializing..." {
		t.Errorf("View before size = %q, want Initializing...", got)
	}

	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m := model.(Model); m.viewMode != ViewTargets {
		t.Errorf("initial viewMode = %d, want ViewTargets", m.viewMode)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m := model.(Model); m.viewMode != ViewNight {
		t.Errorf("after tab viewMode = %d, want ViewNight", m.viewMode)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m := model.(Model); m.viewMode != ViewTargets {
		t.Errorf("tab should wrap to ViewTargets, got %d", m.viewMode)
	}

	model, _ = model.Update(keyRune('2'))
	if m := model.(Model); m.viewMode != ViewNight {
		t.Errorf("after '2' viewMode = %d, want ViewNight", m.viewMode)
	}

	model, _ = model.Update(keyRune('t'))
	if m := model.(Model); m.viewMode != ViewTargets {
		t.Errorf("after 't' viewMode = %d, want ViewTargets", m.viewMode)
	}
}

func TestModelQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyRune('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := New(testPlan()).Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key)
		}
	}
}

func TestModelKeysReachTargets(t *testing.T) {
	var model tea.Model = New(testPlan())
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(keyRune('j'))

	if got := model.(Model).targets.Selected(); got != 1 {
		t.Errorf("selected = %d, want 1", got)
	}

	// Selection keys are ignored while the night view is active
	model, _ = model.Update(keyRune('2'))
	model, _ = model.Update(keyRune('j'))
	if got := model.(Model).targets.Selected(); got != 1 {
		t.Errorf("selected changed in night view: %d", got)
	}
}

func TestTargetsNavigation(t *testing.T) {
	m := NewTargetsModel(testPlan())

	m, _ = m.Update(keyRune('k'))
	if m.Selected() != 0 {
		t.Errorf("k at top should stay at 0, got %d", m.Selected())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(keyRune('j'))
	if m.Selected() != 2 {
		t.Errorf("expected 2 after two downs, got %d", m.Selected())
	}

	m, _ = m.Update(keyRune('j'))
	if m.Selected() != 2 {
		t.Errorf("j at bottom should stay at 2, got %d", m.Selected())
	}

	m, _ = m.Update(keyRune('g'))
	if m.Selected() != 0 {
		t.Errorf("g should jump to 0, got %d", m.Selected())
	}

	m, _ = m.Update(keyRune('G'))
	if m.Selected() != 2 {
		t.Errorf("G should jump to 2, got %d", m.Selected())
	}
}

func TestTargetsView(t *testing.T) {
	m := NewTargetsModel(testPlan()).SetSize(120, 30)
	out := m.View()

	for _, want := range []string{"Vega", "Polar", "Noon", "observable", "never visible", "daylight only", "BP mag", "9.50", "Window"} {
		if !strings.Contains(out, want) {
			t.Errorf("targets view missing %q", want)
		}
	}
}

func TestTargetsViewEmpty(t *testing.T) {
	plan := testPlan()
	plan.Results = nil

	out := NewTargetsModel(plan).View()
	if !strings.Contains(out, "No targets") {
		t.Errorf("empty view = %q, want No targets", out)
	}

	// Navigation on an empty list must not move the cursor
	m, _ := NewTargetsModel(plan).Update(keyRune('G'))
	if m.Selected() != 0 {
		t.Errorf("selected = %d, want 0", m.Selected())
	}
}

func TestNightView(t *testing.T) {
	out := NewNightModel(testPlan()).SetSize(120, 30).View()

	for _, want := range []string{"Sun", "Moon", "Twilight", "not reached", "Night", "evening", "included", "morning: no window", "Dark", "12h00m"} {
		if !strings.Contains(out, want) {
			t.Errorf("night view missing %q", want)
		}
	}
}

func TestFullViewNoPanic(t *testing.T) {
	for _, width := range []int{20, 80, 200} {
		var model tea.Model = New(testPlan())
		model, _ = model.Update(tea.WindowSizeMsg{Width: width, Height: 40})
		if out := model.View(); !strings.Contains(out, "Test Site") {
			t.Errorf("width %d: header missing site name", width)
		}
		model, _ = model.Update(keyRune('2'))
		_ = model.View()
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Vega", 10, "Vega"},
		{"Betelgeuse", 10, "Betelgeuse"},
		{"Alpha Centauri", 8, "Alpha C…"},
		{"Vega", 1, "V"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 0, 10, 6); got != "#1E3A8A" {
		t.Errorf("gradientColor(0,0) = %s, want #1E3A8A", got)
	}
	if got := clampByte(300); got != 255 {
		t.Errorf("clampByte(300) = %d, want 255", got)
	}
	if got := clampByte(-3); got != 0 {
		t.Errorf("clampByte(-3) = %d, want 0", got)
	}
}
