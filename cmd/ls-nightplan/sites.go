package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-nightplan/internal/observatory"
)

func newSitesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the known observatories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSites(cmd, opts)
		},
	}
}

func runSites(cmd *cobra.Command, opts *options) error {
	cfg, _, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLAT\tLON\tHEIGHT\tHORIZON\tSCHEDULE")
	for _, o := range registry.All() {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.0fm\t%s\t%s\n",
			o.Name, o.Lat, o.Lon, o.Height, horizonKind(o), yesNo(o.Schedulable))
	}
	return w.Flush()
}

func horizonKind(o observatory.Observatory) string {
	if o.IsProfile() {
		return "profile"
	}
	if s, ok := o.Horizon.(observatory.ScalarLimit); ok {
		return fmt.Sprintf("%.0f°", s.MinAlt)
	}
	return "?"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
