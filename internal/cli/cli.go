// Package cli holds the plumbing shared by the chart command-line tools:
// process I/O, provider construction, config and logger setup, and the
// mapping from command errors to exit codes.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"bbcharts/internal/chart"
	"bbcharts/internal/config"
	"bbcharts/internal/util"
)

// Env is the outside world of a command. Tests replace the provider factory
// and the prompt.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// NewProvider builds the chart provider for a source name.
	NewProvider func(source string, opts chart.Options) (chart.Provider, error)

	// Prompt asks the user for a single line of input.
	Prompt func(title string) (string, error)
}

// DefaultEnv wires the real process streams, providers and terminal prompt.
func DefaultEnv() Env {
	return Env{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewProvider: chart.New,
		Prompt:      NewPrompt(os.Stdin, os.Stdout),
	}
}

// NewPrompt returns a prompt reading from in. A terminal gets an
// interactive huh input; anything else (a pipe, a file) is read one line at
// a time after printing the title to out.
func NewPrompt(in io.Reader, out io.Writer) func(title string) (string, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return huhPrompt
	}
	r := bufio.NewReader(in)
	return func(title string) (string, error) {
		fmt.Fprint(out, title+" ")
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

func huhPrompt(title string) (string, error) {
	var value string
	if err := huh.NewInput().Title(title).Value(&value).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// CommonFlags are the flags every tool accepts.
type CommonFlags struct {
	ConfigPath string
	LogLevel   string
	Source     string
}

// Register adds the common flags to cmd.
func (f *CommonFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "config file (default $BBCHARTS_CONFIG or "+config.DefaultPath+")")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.Source, "source", "", "chart source: billboard or mirror")
}

// Runtime is what a command needs after its flags are parsed.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
}

// Setup loads the configuration, applies the common flag overrides and
// builds a logger writing to stderr.
func (f *CommonFlags) Setup(stderr io.Writer) (*Runtime, error) {
	path := f.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Source != "" {
		cfg.Provider.Source = f.Source
	}

	logger := util.NewLogger(stderr, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)
	return &Runtime{Config: cfg, Logger: logger}, nil
}

// Provider builds the configured chart provider. A positive timeout
// overrides the configured one.
func (rt *Runtime) Provider(env Env, timeout float64) (chart.Provider, error) {
	opts := chart.OptionsFromConfig(rt.Config.Provider, util.Seconds(timeout), rt.Logger)
	return env.NewProvider(rt.Config.Provider.Source, opts)
}

// reportedError wraps an error whose message was already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// Reported prints msg to w and returns err marked as already reported, so
// Execute does not print it again.
func Reported(w io.Writer, err error, msg string) error {
	fmt.Fprintln(w, msg)
	return reportedError{err}
}

// NoArgs rejects positional arguments with a usage error.
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return util.Usagef("%s: unexpected argument %q", cmd.Name(), args[0])
	}
	return nil
}

// Execute runs cmd with args and returns the process exit code. Errors are
// printed to env.Stderr unless already reported.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, env Env) int {
	cmd.SetArgs(args)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return util.Usagef("%v\nRun '%s --help' for usage.", err, c.CommandPath())
	})

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(env.Stderr, err)
		}
	}
	return util.ExitCode(err)
}
