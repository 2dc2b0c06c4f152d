package catalog

import (
	"context"
	"errors"
	"testing"
)

type stubResolver struct {
	name  string
	pos   map[string]Position
	err   error
	calls int
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(_ context.Context, name string) (Position, error) {
	s.calls++
	if s.err != nil {
		return Position{}, s.err
	}
	if p, ok := s.pos[name]; ok {
		p.Source = s.name
		return p, nil
	}
	return Position{}, ErrNotFound
}

func TestChain_FallsThroughNotFound(t *testing.T) {
	first := &stubResolver{name: "first", pos: map[string]Position{}}
	second := &stubResolver{name: "second", pos: map[string]Position{
		"WASP-12": {Name: "WASP-12", RAdeg: 97.637, DecDeg: 29.672},
	}}

	pos, err := Chain{first, second}.Resolve(context.Background(), "WASP-12")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if pos.Source != "second" {
		t.Errorf("Source = %q, want second", pos.Source)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", first.calls, second.calls)
	}
}

func TestChain_FirstMatchWins(t *testing.T) {
	first := &stubResolver{name: "first", pos: map[string]Position{"Vega": {Name: "Vega"}}}
	second := &stubResolver{name: "second", pos: map[string]Position{"Vega": {Name: "Vega"}}}

	pos, err := Chain{first, second}.Resolve(context.Background(), "Vega")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if pos.Source != "first" {
		t.Errorf("Source = %q, want first", pos.Source)
	}
	if second.calls != 0 {
		t.Errorf("second resolver called %d times, want 0", second.calls)
	}
}

func TestChain_StopsOnHardError(t *testing.T) {
	boom := errors.New("boom")
	first := &stubResolver{name: "first", err: boom}
	second := &stubResolver{name: "second", pos: map[string]Position{"Vega": {Name: "Vega"}}}

	_, err := Chain{first, second}.Resolve(context.Background(), "Vega")
	if !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want boom", err)
	}
	if second.calls != 0 {
		t.Errorf("second resolver called %d times, want 0", second.calls)
	}
}

func TestChain_AllMiss(t *testing.T) {
	_, err := Chain{&stubResolver{name: "a"}, &stubResolver{name: "b"}}.Resolve(context.Background(), "nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}
