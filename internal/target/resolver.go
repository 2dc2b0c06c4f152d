package target

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/catalog"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/logging"
)

// DefaultConcurrency bounds concurrent catalog and body lookups.
const DefaultConcurrency = 4

// spelling is one catalog lookup attempt: a label for diagnostics and the
// transform applied to the token before lookup.
type spelling struct {
	label string
	spell func(string) string
}

// spellings are tried in order; the first successful lookup wins.
var spellings = []spelling{
	{label: "exact", spell: strings.TrimSpace},
	{label: "no spaces", spell: func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}},
	{label: "hyphenated", spell: func(s string) string {
		return strings.Join(strings.Fields(s), "-")
	}},
}

// Resolver resolves tokens against coordinates, solar-system bodies and a
// name catalog.
type Resolver struct {
	catalog     catalog.Resolver
	mags        catalog.MagnitudeLookup
	bodies      ephem.BodyTracker
	concurrency int
	log         *logging.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMagnitudes sets the BP magnitude lookup used after a catalog hit.
func WithMagnitudes(m catalog.MagnitudeLookup) Option {
	return func(r *Resolver) {
		r.mags = m
	}
}

// WithBodyTracker sets the tracker used for solar-system bodies.
func WithBodyTracker(b ephem.BodyTracker) Option {
	return func(r *Resolver) {
		r.bodies = b
	}
}

// WithConcurrency bounds the number of lookups in flight.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a Resolver backed by cat. Without a body tracker, the
// Sun and the Moon are still tracked analytically.
func NewResolver(cat catalog.Resolver, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:     cat,
		bodies:      ephem.Analytic{},
		concurrency: DefaultConcurrency,
		log:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// item is one parsed token group awaiting resolution.
type item struct {
	tokens []string
	fixed  *Fixed
	body   *ephem.Body
}

// Resolve resolves tokens in order. Moving targets get tracks for obs over
// times. names, when given, replace the display names of the first
// len(names) targets.
func (r *Resolver) Resolve(ctx context.Context, tokens, names []string, obs astro.Observer, times []time.Time) ([]Resolved, error) {
	items := parseTokens(tokens)
	if len(items) == 0 {
		return nil, ErrNoTargets
	}
	if len(names) > len(items) {
		return nil, fmt.Errorf("%w: %d names for %d targets", ErrTooManyNames, len(names), len(items))
	}

	results := make([]Resolved, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, it := range items {
		if it.fixed != nil {
			results[i] = Resolved{
				Name:     strings.Join(it.tokens, " "),
				Tokens:   it.tokens,
				Position: *it.fixed,
				Source:   SourceCoordinates,
			}
			continue
		}

		g.Go(func() error {
			var (
				res Resolved
				err error
			)
			if it.body != nil {
				res, err = r.resolveBody(gctx, *it.body, obs, times)
			} else {
				res, err = r.resolveName(gctx, it.tokens[0])
			}
			if err != nil {
				return err
			}
			res.Tokens = it.tokens
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			results[i].Name = name
		}
	}
	return results, nil
}

// parseTokens groups tokens into coordinate pairs, bodies and catalog names.
func parseTokens(tokens []string) []item {
	var items []item
	for i := 0; i < len(tokens); i++ {
		tok := strings.TrimSpace(tokens[i])
		if tok == "" {
			continue
		}
		if i+1 < len(tokens) {
			if f, ok := parseCoordinatePair(tok, strings.TrimSpace(tokens[i+1])); ok {
				items = append(items, item{tokens: []string{tok, strings.TrimSpace(tokens[i+1])}, fixed: &f})
				i++
				continue
			}
		}
		if b, ok := ephem.LookupBody(tok); ok {
			items = append(items, item{tokens: []string{tok}, body: &b})
			continue
		}
		items = append(items, item{tokens: []string{tok}})
	}
	return items
}

func (r *Resolver) resolveBody(ctx context.Context, body ephem.Body, obs astro.Observer, times []time.Time) (Resolved, error) {
	track, err := r.bodies.BodyTrack(ctx, body, obs, times)
	if err != nil {
		return Resolved{}, fmt.Errorf("track %s: %w", body.Name, err)
	}

	source := SourceHorizons
	if body.NAIFID == ephem.NAIFSun || body.NAIFID == ephem.NAIFMoon {
		source = SourceAnalytic
	}
	return Resolved{
		Name:     body.Name,
		Position: Moving{Body: body, Track: track},
		Source:   source,
	}, nil
}

func (r *Resolver) resolveName(ctx context.Context, token string) (Resolved, error) {
	tried := make(map[string]bool, len(spellings))
	for _, sp := range spellings {
		name := sp.spell(token)
		if name == "" || tried[name] {
			continue
		}
		tried[name] = true

		pos, err := r.catalog.Resolve(ctx, name)
		if errors.Is(err, catalog.ErrNotFound) {
			r.log.Debug("%s: %s spelling %q not found", token, sp.label, name)
			continue
		}
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve %q: %w", token, err)
		}

		res := Resolved{
			Name:     token,
			Position: Fixed{RAdeg: pos.RAdeg, DecDeg: pos.DecDeg},
			Source:   pos.Source,
		}
		if r.mags != nil {
			mag, err := r.mags.BPMagnitude(ctx, name)
			if err != nil {
				r.log.Warn("%s: no BP magnitude: %v", token, err)
			} else {
				res.Mag = &mag
			}
		}
		return res, nil
	}
	return Resolved{}, &NotFoundError{Token: token}
}
