package target

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/catalog"
	"github.com/litescript/ls-nightplan/internal/ephem"
)

var laPalma = astro.Observer{LatDeg: 28.7603135, LonDeg: -17.8796168, HeightM: 2387}

// countingCatalog answers from a fixed table and records every lookup.
type countingCatalog struct {
	mu      sync.Mutex
	known   map[string]catalog.Position
	lookups []string
	delay   map[string]time.Duration
}

func (c *countingCatalog) Name() string { return "stub" }

func (c *countingCatalog) Resolve(ctx context.Context, name string) (catalog.Position, error) {
	c.mu.Lock()
	c.lookups = append(c.lookups, name)
	d := c.delay[name]
	c.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return catalog.Position{}, ctx.Err()
		}
	}
	if p, ok := c.known[name]; ok {
		p.Source = "stub"
		return p, nil
	}
	return catalog.Position{}, catalog.ErrNotFound
}

func (c *countingCatalog) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lookups)
}

type fixedMags map[string]float64

func (m fixedMags) BPMagnitude(_ context.Context, name string) (float64, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return 0, catalog.ErrNoMagnitude
}

func gridTimes(n int) []time.Time {
	start := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Minute)
	}
	return times
}

func TestResolve_CoordinatesNeverTouchCatalog(t *testing.T) {
	cat := &countingCatalog{}
	r := NewResolver(cat)

	for run := 0; run < 2; run++ {
		got, err := r.Resolve(context.Background(), []string{"10:00:00", "+20:00:00"}, nil, laPalma, gridTimes(3))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Resolve() returned %d targets, want 1", len(got))
		}
		f, ok := got[0].Fixed()
		if !ok {
			t.Fatal("coordinate target is not fixed")
		}
		if f.RAdeg != 150.0 || f.DecDeg != 20.0 {
			t.Errorf("run %d: position = %v/%v, want 150/20", run, f.RAdeg, f.DecDeg)
		}
		if got[0].Source != SourceCoordinates {
			t.Errorf("Source = %q, want %q", got[0].Source, SourceCoordinates)
		}
		if got[0].Mag != nil {
			t.Error("coordinate target has a magnitude")
		}
	}
	if cat.calls() != 0 {
		t.Errorf("catalog called %d times, want 0", cat.calls())
	}
}

func TestResolve_SpellingFallback(t *testing.T) {
	tests := []struct {
		token string
		known string
		tried []string
	}{
		{"WASP-12", "WASP-12", []string{"WASP-12"}},
		{"HD 209458", "HD209458", []string{"HD 209458", "HD209458"}},
		{"WASP 12", "WASP-12", []string{"WASP 12", "WASP12", "WASP-12"}},
	}

	for _, tt := range tests {
		cat := &countingCatalog{known: map[string]catalog.Position{
			tt.known: {Name: tt.known, RAdeg: 10, DecDeg: 20},
		}}
		got, err := NewResolver(cat).Resolve(context.Background(), []string{tt.token}, nil, laPalma, nil)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", tt.token, err)
			continue
		}
		if got[0].Name != tt.token {
			t.Errorf("Resolve(%q).Name = %q", tt.token, got[0].Name)
		}
		if strings.Join(cat.lookups, "|") != strings.Join(tt.tried, "|") {
			t.Errorf("Resolve(%q) lookups = %v, want %v", tt.token, cat.lookups, tt.tried)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	cat := &countingCatalog{}
	_, err := NewResolver(cat).Resolve(context.Background(), []string{"Nowhere 7"}, nil, laPalma, nil)

	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrTargetNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Token != "Nowhere 7" {
		t.Errorf("Resolve() error = %v, want NotFoundError for %q", err, "Nowhere 7")
	}
	if cat.calls() != 3 {
		t.Errorf("catalog called %d times, want 3", cat.calls())
	}
}

func TestResolve_NoTargets(t *testing.T) {
	_, err := NewResolver(&countingCatalog{}).Resolve(context.Background(), []string{" ", ""}, nil, laPalma, nil)
	if !errors.Is(err, ErrNoTargets) {
		t.Errorf("Resolve() error = %v, want ErrNoTargets", err)
	}
}

func TestResolve_InputOrderUnderConcurrency(t *testing.T) {
	cat := &countingCatalog{
		known: map[string]catalog.Position{
			"A": {Name: "A", RAdeg: 1},
			"B": {Name: "B", RAdeg: 2},
			"C": {Name: "C", RAdeg: 3},
		},
		delay: map[string]time.Duration{"A": 30 * time.Millisecond, "B": 10 * time.Millisecond},
	}

	tokens := []string{"A", "B", "150", "20", "C"}
	got, err := NewResolver(cat, WithConcurrency(3)).Resolve(context.Background(), tokens, nil, laPalma, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	wantNames := []string{"A", "B", "150 20", "C"}
	if len(got) != len(wantNames) {
		t.Fatalf("Resolve() returned %d targets, want %d", len(got), len(wantNames))
	}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Errorf("target %d = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestResolve_Magnitudes(t *testing.T) {
	cat := &countingCatalog{known: map[string]catalog.Position{
		"HD209458": {Name: "HD 209458"},
		"Vega":     {Name: "Vega"},
	}}
	mags := fixedMags{"HD209458": 7.88}

	got, err := NewResolver(cat, WithMagnitudes(mags)).Resolve(context.Background(), []string{"HD 209458", "Vega"}, nil, laPalma, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got[0].Mag == nil || *got[0].Mag != 7.88 {
		t.Errorf("HD 209458 Mag = %v, want 7.88", got[0].Mag)
	}
	if got[1].Mag != nil {
		t.Errorf("Vega Mag = %v, want nil", *got[1].Mag)
	}
}

func TestResolve_Bodies(t *testing.T) {
	cat := &countingCatalog{}
	times := gridTimes(5)

	got, err := NewResolver(cat).Resolve(context.Background(), []string{"moon", "SUN"}, nil, laPalma, times)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i, want := range []string{"Moon", "Sun"} {
		if got[i].Name != want {
			t.Errorf("target %d = %q, want %q", i, got[i].Name, want)
		}
		mv, ok := got[i].Position.(Moving)
		if !ok {
			t.Fatalf("%s is not moving", want)
		}
		if mv.Track.Len() != len(times) {
			t.Errorf("%s track length = %d, want %d", want, mv.Track.Len(), len(times))
		}
		if got[i].Source != SourceAnalytic {
			t.Errorf("%s Source = %q", want, got[i].Source)
		}
		if got[i].Mag != nil {
			t.Errorf("%s has a magnitude", want)
		}
	}
	if cat.calls() != 0 {
		t.Errorf("catalog called %d times, want 0", cat.calls())
	}
}

func TestResolve_PlanetWithoutRemoteTracker(t *testing.T) {
	_, err := NewResolver(&countingCatalog{}).Resolve(context.Background(), []string{"Jupiter"}, nil, laPalma, gridTimes(2))
	if !errors.Is(err, ephem.ErrUnsupportedBody) {
		t.Errorf("Resolve() error = %v, want ErrUnsupportedBody", err)
	}
}

func TestResolve_NamesOverride(t *testing.T) {
	tokens := []string{"10:00:00", "+20:00:00", "150", "20"}

	got, err := NewResolver(&countingCatalog{}).Resolve(context.Background(), tokens, []string{"Field A"}, laPalma, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got[0].Name != "Field A" || got[1].Name != "150 20" {
		t.Errorf("names = %q, %q", got[0].Name, got[1].Name)
	}

	_, err = NewResolver(&countingCatalog{}).Resolve(context.Background(), tokens, []string{"a", "b", "c"}, laPalma, nil)
	if !errors.Is(err, ErrTooManyNames) {
		t.Errorf("Resolve() error = %v, want ErrTooManyNames", err)
	}
}

func TestResolve_CatalogFailureIsFatal(t *testing.T) {
	boom := errors.New("service unavailable")
	cat := failingCatalog{err: boom}

	_, err := NewResolver(cat).Resolve(context.Background(), []string{"Vega"}, nil, laPalma, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want %v", err, boom)
	}
}

type failingCatalog struct{ err error }

func (failingCatalog) Name() string { return "failing" }

func (f failingCatalog) Resolve(context.Context, string) (catalog.Position, error) {
	return catalog.Position{}, f.err
}
