// Command ls-nightplan plans a night of observing: target visibility,
// twilight flats and an optional JSON schedule for robotic sites.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-nightplan/internal/catalog"
	"github.com/litescript/ls-nightplan/internal/config"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/fetch"
	"github.com/litescript/ls-nightplan/internal/logging"
	"github.com/litescript/ls-nightplan/internal/observatory"
	"github.com/litescript/ls-nightplan/internal/planner"
	"github.com/litescript/ls-nightplan/internal/report"
	"github.com/litescript/ls-nightplan/internal/target"
	"github.com/litescript/ls-nightplan/internal/ui"
	"github.com/litescript/ls-nightplan/internal/version"
	"github.com/litescript/ls-nightplan/internal/visibility"
)

// options holds the command-line flags of one invocation.
type options struct {
	configPath    string
	observatories string
	logLevel      string

	site        string
	date        string
	names       []string
	scheduleDir string
	offline     bool
	interactive bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ls-nightplan [flags] TARGET...",
		Short: "Plan a night of observing from a registered site",
		Long: `ls-nightplan reports when each target is observable on a given night,
plans twilight sky flats and can write a JSON schedule for robotic sites.

Targets are catalog names ("WASP-12", "HD 209458"), coordinate pairs
("06:30:32.8 +29:40:20" or "97.64 29.67") or solar-system bodies.

A schedule is only built when --schedule is given or schedule.enabled is
set in the configuration.

Examples:
  ls-nightplan --site w1m --date 2024-01-15 vega capella
  ls-nightplan --site w1m --schedule ./schedules "WASP-12" 06:30:32.8 +29:40:20
  ls-nightplan --site lapalma --interactive moon jupiter`,
		Version:       version.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.observatories, "observatories", "", "YAML file of extra observatories")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.Flags().StringVarP(&opts.site, "site", "s", "", "Observatory name (required)")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Night start date, YYYY-MM-DD (default today)")
	cmd.Flags().StringSliceVarP(&opts.names, "names", "n", nil, "Display names for targets, in order")
	cmd.Flags().StringVar(&opts.scheduleDir, "schedule", "", "Write a JSON schedule into this directory")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Resolve names from the built-in catalog only")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Open the altitude browser after the report")
	_ = cmd.MarkFlagRequired("site")

	cmd.AddCommand(newSitesCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if cmd.Flags().Changed("observatories") {
		cfg.Observatories.File = opts.observatories
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))
	logger.SetOutput(cmd.ErrOrStderr())
	return cfg, logger, nil
}

// loadRegistry returns the built-in sites merged with the configured file.
func loadRegistry(cfg *config.Config) (*observatory.Registry, error) {
	registry, err := observatory.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Observatories.File == "" {
		return registry, nil
	}

	extra, err := observatory.LoadRegistryFile(cfg.Observatories.File)
	if err != nil {
		return nil, err
	}
	return registry.Merge(extra), nil
}

func runPlan(cmd *cobra.Command, opts *options, args []string) error {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("offline") {
		cfg.Catalog.Offline = opts.offline
	}
	// --schedule both enables emission and names the directory
	if cmd.Flags().Changed("schedule") {
		if opts.scheduleDir == "" {
			return fmt.Errorf("--schedule needs a directory")
		}
		cfg.Schedule.Enabled = true
		cfg.Schedule.Dir = opts.scheduleDir
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	p := newPlanner(cfg, registry, logger)

	date := opts.date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	plan, err := p.Plan(ctx, planner.Request{
		Site:   opts.site,
		Date:   date,
		Tokens: args,
		Names:  opts.names,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, plan); err != nil {
		return err
	}

	if cfg.Schedule.Enabled {
		path, err := p.WriteSchedule(plan, cfg.Schedule.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSchedule written to %s\n", path)
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			logger.Warn("Interactive browser needs a terminal; skipping")
			return nil
		}
		return ui.Run(plan)
	}
	return nil
}

// newPlanner wires the catalog, magnitude, ephemeris and evaluation
// components from cfg.
func newPlanner(cfg *config.Config, registry *observatory.Registry, logger *logging.Logger) *planner.Planner {
	fetcher := fetch.New(append(cfg.FetchOptions(), fetch.WithLogger(logger))...)

	var cat catalog.Resolver = catalog.NewBuiltin()
	opts := []target.Option{
		target.WithConcurrency(cfg.Catalog.Concurrency),
		target.WithLogger(logger),
	}

	if cfg.Catalog.Offline {
		logger.Debug("Offline mode: built-in catalog only")
	} else {
		cat = catalog.Chain{
			catalog.NewBuiltin(),
			catalog.NewSesame(fetcher, catalog.WithSesameURL(cfg.Catalog.SesameURL)),
		}
		opts = append(opts,
			target.WithMagnitudes(catalog.NewGaiaBP(fetcher,
				catalog.WithSimbadURL(cfg.Catalog.SimbadURL),
				catalog.WithGaiaURL(cfg.Catalog.GaiaURL))),
			target.WithBodyTracker(ephem.SolarSystem{
				Local: ephem.Analytic{},
				Remote: ephem.NewHorizonsProvider(
					ephem.WithHorizonsURL(cfg.Catalog.HorizonsURL),
					ephem.WithFetcher(fetcher)),
			}),
		)
	}

	resolver := target.NewResolver(cat, opts...)
	evaluator := visibility.NewEvaluator(ephem.Analytic{}, visibility.WithExposure(cfg.Noise.Exposure))

	return planner.New(registry, resolver,
		planner.WithEvaluator(evaluator),
		planner.WithLogger(logger))
}
