// One-shot tool: list the weeks (or year-end years) a Billboard chart has
// data for, walking back from the latest week.
//
// Usage:
//
//	go run ./cmd/bb-weeks --chart hot-100
//	go run ./cmd/bb-weeks --chart hot-100 --limit 20
//	go run ./cmd/bb-weeks --chart hot-100 --start 2010-01-01 --end 2011-12-31
//	go run ./cmd/bb-weeks --chart alternative-songs --year-end
//
// Valid hot-100 dates are also published at
// https://raw.githubusercontent.com/mhollingshead/billboard-hot-100/main/valid_dates.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bbcharts/internal/chart"
	"bbcharts/internal/cli"
	"bbcharts/internal/gather"
	"bbcharts/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], cli.DefaultEnv(), time.Now)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, env cli.Env, now func() time.Time) int {
	return cli.Execute(ctx, newCommand(env, now), args, env)
}

type options struct {
	common  cli.CommonFlags
	chart   string
	start   string
	end     string
	limit   int
	sleep   float64
	yearEnd bool
	minYear int
}

func newCommand(env cli.Env, now func() time.Time) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "bb-weeks",
		Short: "Print available Billboard weeks (or year-end years) for a chart.",
		Args:  cli.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("sleep") {
				o.sleep = -1
			}
			return list(cmd.Context(), env, now, o)
		},
	}
	o.common.Register(cmd)
	f := cmd.Flags()
	f.StringVar(&o.chart, "chart", "", "chart slug (e.g. 'hot-100'); prompted for when omitted")
	f.StringVar(&o.start, "start", "", "start date (YYYY-MM-DD), inclusive")
	f.StringVar(&o.end, "end", "", "end date (YYYY-MM-DD), inclusive")
	f.IntVar(&o.limit, "limit", 0, "max number of weeks to walk (from latest backward)")
	f.Float64Var(&o.sleep, "sleep", 0.2, "delay between requests (seconds)")
	f.BoolVar(&o.yearEnd, "year-end", false, "list available year-end YEARS instead of weekly dates")
	f.IntVar(&o.minYear, "min-year", 0, "earliest year to probe in --year-end mode (default walk.min_year, 1958)")
	return cmd
}

func list(ctx context.Context, env cli.Env, now func() time.Time, o options) error {
	dr, err := gather.NewDateRange(o.start, o.end)
	if err != nil {
		return err
	}
	if o.limit < 0 {
		return util.Usagef("Error: --limit must not be negative.")
	}

	rt, err := o.common.Setup(env.Stderr)
	if err != nil {
		return err
	}

	slug := strings.TrimSpace(o.chart)
	if slug == "" {
		if slug, err = promptChart(env); err != nil {
			return err
		}
	}

	provider, err := rt.Provider(env, 0)
	if err != nil {
		return err
	}

	if o.yearEnd {
		return listYears(ctx, env, rt, now, provider, slug, o)
	}
	return listWeeks(ctx, env, rt, provider, slug, dr, o)
}

func promptChart(env cli.Env) (string, error) {
	fmt.Fprint(env.Stdout, "Some common chart IDs:\n\n")
	for _, c := range chart.KnownCharts {
		fmt.Fprintln(env.Stdout, " -", c)
	}
	fmt.Fprintln(env.Stdout)

	slug, err := env.Prompt("Enter a chart slug:")
	if err != nil {
		return "", fmt.Errorf("reading chart slug: %w", err)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", util.Usagef("Error: a chart slug is required.")
	}
	return slug, nil
}

func listWeeks(ctx context.Context, env cli.Env, rt *cli.Runtime, provider chart.Provider, slug string, dr gather.DateRange, o options) error {
	header := fmt.Sprintf("\nListing weekly chart dates for '%s'", slug)
	if dr.Bounded() {
		header += fmt.Sprintf(" between %s and %s", orNone(o.start), orNone(o.end))
	}
	if o.limit > 0 {
		header += fmt.Sprintf(" (limit=%d)", o.limit)
	}
	fmt.Fprint(env.Stdout, header+":\n\n")

	sleep := o.sleep
	if sleep < 0 {
		sleep = rt.Config.Walk.Sleep
	}
	walker := &gather.WeekWalker{
		Provider: provider,
		Pacer:    util.NewPacer(util.Seconds(sleep)),
		Range:    dr,
		Limit:    o.limit,
		Logger:   rt.Logger,
	}
	count, err := walker.Walk(ctx, slug, func(date string) error {
		_, err := fmt.Fprintln(env.Stdout, date)
		return err
	})
	if err != nil {
		return cli.Reported(env.Stderr, err, fmt.Sprintf("Error while fetching weeks for '%s': %v", slug, err))
	}

	fmt.Fprintf(env.Stdout, "\nTotal weeks printed: %d\n", count)
	if count == 0 {
		fmt.Fprintln(env.Stdout, "No weeks matched the bounds (or chart not found). Try removing --start/--end.")
	}
	return nil
}

func listYears(ctx context.Context, env cli.Env, rt *cli.Runtime, now func() time.Time, provider chart.Provider, slug string, o options) error {
	fmt.Fprintf(env.Stdout, "\nProbing available YEAR-END years for '%s' (this may take a moment)...\n\n", slug)

	minYear := o.minYear
	if minYear <= 0 {
		minYear = rt.Config.Walk.MinYear
	}
	probe := &gather.YearEndProbe{
		Provider: provider,
		Pacer:    util.NewPacer(util.Seconds(rt.Config.Walk.ProbeSleep)),
		MinYear:  minYear,
		Now:      now,
		Logger:   rt.Logger,
	}
	years, err := probe.Probe(ctx, slug)
	if err != nil {
		return cli.Reported(env.Stderr, err, fmt.Sprintf("Error while fetching weeks for '%s': %v", slug, err))
	}

	if len(years) == 0 {
		fmt.Fprintln(env.Stdout, "No year-end years found (check chart slug or try a different chart).")
		return nil
	}
	for _, y := range years {
		fmt.Fprintln(env.Stdout, y)
	}
	fmt.Fprintf(env.Stdout, "\nTotal years found: %d\n", len(years))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
