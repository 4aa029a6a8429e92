// One-shot tool: print every entry of a Billboard chart for one week, and
// optionally save the week as JSON, CSV or Parquet.
//
// Usage:
//
//	go run ./cmd/bb-week-dump --chart rock-songs --date 2025-10-11
//	go run ./cmd/bb-week-dump -c hot-100 -d 2025-10-11 --json out.json --csv out.csv
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

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
	common  cli.CommonFlags
	chart   string
	date    string
	json    string
	csv     string
	parquet string
	timeout float64
}

func newCommand(env cli.Env) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "bb-week-dump",
		Short: "Print all entries for a Billboard chart on a given week.",
		Args:  cli.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("timeout") {
				o.timeout = 0
			}
			return dump(cmd.Context(), env, o)
		},
	}
	o.common.Register(cmd)
	f := cmd.Flags()
	f.StringVarP(&o.chart, "chart", "c", "", "chart slug (e.g. hot-100, rock-songs, billboard-200)")
	f.StringVarP(&o.date, "date", "d", "", "week date in YYYY-MM-DD (e.g. 2025-10-11)")
	f.StringVar(&o.json, "json", "", "write output to a JSON file")
	f.StringVar(&o.csv, "csv", "", "write output to a CSV file")
	f.StringVar(&o.parquet, "parquet", "", "write output to a Parquet file")
	f.Float64Var(&o.timeout, "timeout", 25, "HTTP timeout seconds")
	return cmd
}

func dump(ctx context.Context, env cli.Env, o options) error {
	if o.chart == "" || o.date == "" {
		return util.Usagef("Error: --chart and --date are required.")
	}
	date, err := util.ValidateDate(o.date)
	if err != nil {
		return err
	}

	rt, err := o.common.Setup(env.Stderr)
	if err != nil {
		return err
	}
	provider, err := rt.Provider(env, o.timeout)
	if err != nil {
		return err
	}

	snap, err := provider.Fetch(ctx, o.chart, date)
	if err != nil && !errors.Is(err, chart.ErrNoChart) {
		return cli.Reported(env.Stderr, err, fmt.Sprintf("Failed to fetch chart '%s' for %s: %v", o.chart, date, err))
	}
	if snap == nil || snap.Empty() {
		if err == nil {
			err = chart.ErrNoChart
		}
		return cli.Reported(env.Stderr, err, fmt.Sprintf("No chart returned for %s on %s.", o.chart, date))
	}
	if snap.Date != date {
		fmt.Fprintf(env.Stderr, "Note: requested %s, got %s (nearest available).\n\n", date, snap.Date)
	}

	if err := export.WriteTable(env.Stdout, o.chart, snap.Date, snap.Entries); err != nil {
		return err
	}

	if o.json != "" {
		if err := export.WriteJSONFile(o.json, export.NewDump(o.chart, snap)); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Saved JSON to %s\n", o.json)
	}
	if o.csv != "" {
		if err := export.WriteCSVFile(o.csv, snap.Entries); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Saved CSV to %s\n", o.csv)
	}
	if o.parquet != "" {
		if err := store.WriteSnapshotParquet(o.parquet, snap); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Saved Parquet to %s\n", o.parquet)
	}
	return nil
}
