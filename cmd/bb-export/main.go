// One-shot tool: export a Billboard chart week (or every week since a date)
// to the standardized JSON format under public/charts.
//
// Usage:
//
//	go run ./cmd/bb-export --chart hot-100 --date 1958-08-04
//	go run ./cmd/bb-export --chart rock-songs --date 2025-10-11 --out rock-2025-10-11.json
//	go run ./cmd/bb-export --chart hot-100 --since 2025-01-04 --manifest data/exports.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bbcharts/internal/chart"
	"bbcharts/internal/cli"
	"bbcharts/internal/export"
	"bbcharts/internal/store"
	"bbcharts/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], cli.DefaultEnv())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, env cli.Env) int {
	return cli.Execute(ctx, newCommand(env), args, env)
}

type options struct {
	common   cli.CommonFlags
	chart    string
	date     string
	since    string
	out      string
	outRoot  string
	manifest string
	timeout  float64
	sleep    float64
}

func newCommand(env cli.Env) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "bb-export",
		Short: "Export a Billboard chart week to JSON in standardized format.",
		Args:  cli.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("timeout") {
				o.timeout = 0
			}
			if !cmd.Flags().Changed("sleep") {
				o.sleep = -1
			}
			return exportCharts(cmd.Context(), env, o)
		},
	}
	o.common.Register(cmd)
	f := cmd.Flags()
	f.StringVarP(&o.chart, "chart", "c", "", "chart slug (allowed: "+strings.Join(chart.ExportCharts(), ", ")+")")
	f.StringVarP(&o.date, "date", "d", "", "week date YYYY-MM-DD")
	f.StringVar(&o.since, "since", "", "fetch all weeks from this date through latest (YYYY-MM-DD)")
	f.StringVarP(&o.out, "out", "o", "", "output JSON file (defaults to <out-root>/<chart>/<chart>-<date>.json)")
	f.StringVar(&o.outRoot, "out-root", "", "root directory for default output paths (default export.out_root, public/charts)")
	f.StringVar(&o.manifest, "manifest", "", "record written files in this SQLite database")
	f.Float64Var(&o.timeout, "timeout", 25, "HTTP timeout seconds")
	f.Float64Var(&o.sleep, "sleep", 0.2, "delay between weeks in --since mode (seconds)")
	return cmd
}

func exportCharts(ctx context.Context, env cli.Env, o options) error {
	slug := strings.TrimSpace(o.chart)
	if slug == "" {
		return util.Usagef("Error: --chart is required.")
	}
	if !chart.ExportAllowed(slug) {
		return util.Usagef("Chart '%s' is not allowed. Allowed charts: %s.", slug, strings.Join(chart.ExportCharts(), ", "))
	}
	if (o.date == "") == (o.since == "") {
		return util.Usagef("Error: exactly one of --date or --since is required.")
	}
	if o.since != "" && o.out != "" {
		return util.Usagef("Error: --out cannot be combined with --since.")
	}
	week := o.date
	if week == "" {
		week = o.since
	}
	if _, err := util.ParseOptionalDate(week); err != nil {
		return util.Usagef("Invalid date '%s' (expected YYYY-MM-DD)", week)
	}

	rt, err := o.common.Setup(env.Stderr)
	if err != nil {
		return err
	}
	cfg := rt.Config
	provider, err := rt.Provider(env, o.timeout)
	if err != nil {
		return err
	}

	ex := &export.Exporter{
		Provider: provider,
		OutRoot:  firstNonEmpty(o.outRoot, cfg.Export.OutRoot),
		Out:      o.out,
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
		Logger:   rt.Logger,
	}
	if cfg.Storage.ArchiveDir != "" {
		ex.Archive = store.NewParquetStore(cfg.Storage.ArchiveDir)
	}
	if path := firstNonEmpty(o.manifest, cfg.Storage.ManifestPath); path != "" {
		db, err := store.NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("opening export manifest: %w", err)
		}
		defer db.Close()
		ex.Manifest = db
	}

	if o.since == "" {
		_, err := ex.ExportWeek(ctx, slug, week)
		return err
	}

	weeks, err := sinceWeeks(ctx, env, rt, o.timeout, week)
	if err != nil {
		return err
	}
	sleep := o.sleep
	if sleep < 0 {
		sleep = cfg.Export.Sleep
	}
	ex.Pacer = util.NewPacer(util.Seconds(sleep))

	results, err := ex.ExportSince(ctx, slug, weeks)
	if len(results) > 0 {
		fmt.Fprintln(env.Stdout)
		export.WriteSummary(env.Stdout, results)
	}
	return err
}

// sinceWeeks loads the valid-dates list and returns the weeks on or after
// since. since itself must be a listed week.
func sinceWeeks(ctx context.Context, env cli.Env, rt *cli.Runtime, timeout float64, since string) ([]string, error) {
	opts := chart.OptionsFromConfig(rt.Config.Provider, util.Seconds(timeout), rt.Logger)
	opts.BaseURL = ""
	dates, err := chart.LoadValidDates(ctx, chart.NewHTTPClient(opts), rt.Config.Provider.ValidDatesURL)
	if err != nil {
		return nil, cli.Reported(env.Stderr, err, fmt.Sprintf("Failed to load valid dates: %v", err))
	}
	if _, found := slices.BinarySearch(dates, since); !found {
		return nil, util.Usagef("'since' date %s is not in the valid dates list.", since)
	}
	weeks := chart.DatesSince(dates, since)
	if len(weeks) == 0 {
		return nil, cli.Reported(env.Stderr, chart.ErrNoChart, fmt.Sprintf("No weeks found on or after %s.", since))
	}
	return weeks, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
