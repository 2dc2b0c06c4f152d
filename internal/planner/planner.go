// Package planner runs one observing-plan invocation: site lookup, night
// sampling, target resolution, visibility and flats.
package planner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/logging"
	"github.com/litescript/ls-nightplan/internal/night"
	"github.com/litescript/ls-nightplan/internal/observatory"
	"github.com/litescript/ls-nightplan/internal/schedule"
	"github.com/litescript/ls-nightplan/internal/target"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

// Request names the site, night and targets to plan.
type Request struct {
	Site   string
	Date   string   // YYYY-MM-DD or YYYYMMDD
	Tokens []string // target tokens in command-line order
	Names  []string // optional display-name overrides
}

// Plan is the outcome of one request.
type Plan struct {
	Site     observatory.Observatory
	Night    *night.Context
	Targets  []target.Resolved
	Results  []visibility.Result
	Flats    schedule.Flats
	Warnings []error
}

// Planner wires the engine components together.
type Planner struct {
	registry  *observatory.Registry
	provider  ephem.Provider
	resolver  *target.Resolver
	evaluator *visibility.Evaluator
	log       *logging.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithProvider sets the ephemeris provider. The default is ephem.Analytic.
func WithProvider(p ephem.Provider) Option {
	return func(pl *Planner) {
		pl.provider = p
	}
}

// WithEvaluator sets the visibility evaluator.
func WithEvaluator(e *visibility.Evaluator) Option {
	return func(pl *Planner) {
		pl.evaluator = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(pl *Planner) {
		pl.log = l
	}
}

// New creates a Planner over registry that resolves targets with resolver.
func New(registry *observatory.Registry, resolver *target.Resolver, opts ...Option) *Planner {
	p := &Planner{
		registry: registry,
		provider: ephem.Analytic{},
		resolver: resolver,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.evaluator == nil {
		p.evaluator = visibility.NewEvaluator(p.provider)
	}
	return p
}

// Plan evaluates req. Sun and Moon sampling runs while targets resolve.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	start := time.Now()

	site, err := p.registry.Lookup(req.Site)
	if err != nil {
		return nil, err
	}
	date, err := night.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	grid := night.NewGrid(date, site.LonOffsetHours())

	var (
		nc      *night.Context
		targets []target.Resolved
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nc = night.Sample(grid, site, p.provider)
		return nil
	})
	g.Go(func() error {
		var err error
		targets, err = p.resolver.Resolve(gctx, req.Tokens, req.Names, site.Observer(), grid.Times)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.log.Timed(start, "sampled %s night of %s and resolved %d targets", site.Name, grid.Date.Format("2006-01-02"), len(targets))

	results, err := p.evaluator.EvaluateAll(nc, targets)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Site:    site,
		Night:   nc,
		Targets: targets,
		Results: results,
		Flats:   schedule.PlanFlats(nc),
	}
	plan.Warnings = append(plan.Warnings, nc.Warnings...)
	plan.Warnings = append(plan.Warnings, plan.Flats.Warnings...)
	for _, w := range plan.Warnings {
		p.log.Warn("%v", w)
	}
	for _, r := range results {
		p.log.Debug("%s: %s", r.Target.Name, r.Status)
	}

	return plan, nil
}

// Schedule builds the JSON schedule for plan.
func (p *Planner) Schedule(plan *Plan) (*schedule.Schedule, error) {
	s, err := schedule.Build(plan.Night.Grid.Date, plan.Site, plan.Flats, plan.Results)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}
	for _, w := range s.Warnings {
		p.log.Warn("%v", w)
	}
	return s, nil
}

// WriteSchedule builds the schedule for plan and writes it to dir,
// returning the file path.
func (p *Planner) WriteSchedule(plan *Plan, dir string) (string, error) {
	s, err := p.Schedule(plan)
	if err != nil {
		return "", err
	}
	path, err := schedule.Write(dir, s)
	if err != nil {
		return "", err
	}
	p.log.Info("wrote %d actions to %s", len(s.Actions), path)
	return path, nil
}
