package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peoplestats/internal/adapters/ingest/gz"
	"peoplestats/internal/core/report"
	"peoplestats/internal/core/version"
	"peoplestats/internal/modkit"
	"peoplestats/internal/modkit/module"
	"peoplestats/internal/platform/config"
	perr "peoplestats/internal/platform/errors"
	"peoplestats/internal/platform/logger"
	summarydom "peoplestats/internal/services/summary/domain"
	summarymod "peoplestats/internal/services/summary/module"

	"github.com/spf13/cobra"
)

const (
	msgUsage       = "We currently only expect 1 argument! A path to a JSON or CSV file to read."
	msgUnsupported = "We currently only support csv / json / json.gz / csv.gz file"
	msgNotFound    = "Error: File does not exist, exit application"
)

type flags struct {
	tempDir   string
	inMemory  bool
	logLevel  string
	logFormat string
	timeout   time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the root command and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_, _ = fmt.Fprintln(stdout, message(err))
	return perr.ExitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "peoplestats <path>",
		Short: "Summarize a CSV or JSON file of people (optionally .gz)",
		Long: "peoplestats reads a csv, json, csv.gz or json.gz file of person records and prints the\n" +
			"average number of siblings, the three favourite foods and births per month.",
		Version:       version.Info().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return perr.InvalidArgf("expected 1 argument, got %d", len(args))
			}
			return nil
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			initLogger(f, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args[0], cmd.OutOrStdout())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")

	fs := cmd.Flags()
	fs.StringVar(&f.tempDir, "temp-dir", "", "directory for decompressed artifacts (default: PEOPLESTATS_TEMP_DIR or the system temp dir)")
	fs.BoolVar(&f.inMemory, "in-memory", false, "decompress gzip input into memory instead of a temp file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console|json")
	fs.DurationVar(&f.timeout, "timeout", 0, "overall time budget for the run, 0 for none")
	return cmd
}

// initLogger applies flag overrides on top of the environment
func initLogger(f flags, stderr io.Writer) {
	opt := logger.FromEnv()
	if f.logLevel != "" {
		opt.Level = f.logLevel
	}
	if f.logFormat != "" {
		opt.Format = f.logFormat
	}
	opt.Writer = stderr
	logger.Init(opt)
}

func run(ctx context.Context, f flags, path string, out io.Writer) error {
	deps := modkit.Deps{Log: *logger.Get(), Cfg: config.New()}
	m := summarymod.New(deps, func(o *summarymod.Options) {
		if f.tempDir != "" {
			o.TempDir = f.tempDir
		}
		if f.inMemory {
			o.GzipMode = gz.ModeMemory
		}
		if f.timeout > 0 {
			o.Timeout = f.timeout
		}
	})

	runner := module.MustPortsOf[summarydom.RunnerPort](m)
	if err := runner.Run(ctx, path, out); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, report.Done)
	return err
}

// message maps an error to the fixed line printed before exiting
func message(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidArgument:
		return msgUsage
	case perr.ErrorCodeUnsupported:
		return msgUnsupported
	case perr.ErrorCodeNotFound:
		return msgNotFound
	default:
		return "Error: " + err.Error()
	}
}
