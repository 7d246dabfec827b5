package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/config"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/logging"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics/datadog"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/metrics/prompush"

	// register all backends with the storage factory.
	// -storage-kind picks one at run time, so every driver is linked in.
	_ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/all"
)

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// commands maps each subcommand to its implementation and a one-line help.
var commands = map[string]struct {
	run  func(*app, context.Context) error
	help string
}{
	"load":       {(*app).load, "read and validate the raw export, print its shape"},
	"preprocess": {(*app).preprocess, "clean the raw export; save writes the processed snapshot"},
	"aggregate":  {(*app).aggregate, "run every reducer over the processed snapshot"},
	"visualize":  {(*app).visualize, "build the chart tables; save writes charts.xlsx"},
	"enrich":     {(*app).enrich, "add day-of-event temperatures from Weatherbit"},
	"airports":   {(*app).airports, "print airport names for IATA codes via Airlabs"},
	"export":     {(*app).export, "write the snapshot and result tables to SQL"},
	"watch":      {(*app).watch, "re-run preprocess and aggregate on file change or schedule"},
}

// main loads .env, wires signals and hands off to run.
func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fatalf("%v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, validates the configuration, builds the logger and
// metrics backend, and executes one subcommand. It returns the exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		usage(stderr)
		return exitUsage
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.LoadFromArgs(fs, getenv, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	cfg.Command = name

	issues := config.Validate(*cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(stderr, "error: configuration is invalid")
		return exitUsage
	}
	if cfg.Validate {
		fmt.Fprintln(stderr, "configuration is valid")
		return exitOK
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	log = log.With(zap.String("run_id", uuid.NewString()), zap.String("command", name))
	defer func() { _ = log.Sync() }()
	undo := zap.ReplaceGlobals(log)
	defer undo()

	flush := setupMetrics(*cfg, log)
	defer flush()

	a := &app{cfg: *cfg, log: log, out: stdout}
	if err := cmd.run(a, ctx); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			log.Info("interrupted")
			return exitOK
		}
		log.Error("command failed", zap.Error(err))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRuntime
	}
	return exitOK
}

// setupMetrics installs the configured backend and returns the flush to
// defer. A backend that fails to start leaves the nop backend in place.
func setupMetrics(cfg config.Config, log *zap.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err = prompush.NewBackend("accidents_"+cfg.Command, cfg.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  "accidents.",
			GlobalTags: []string{"command:" + cfg.Command},
		})
	case "", "none":
		log.Debug("metrics disabled")
		return func() {}
	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", cfg.MetricsBackend))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend init failed; using nop", zap.String("backend", cfg.MetricsBackend), zap.Error(err))
		return func() {}
	}
	log.Debug("metrics enabled", zap.String("backend", cfg.MetricsBackend))
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
	}
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("usage: accidents <command> [flags]\n\ncommands:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %-11s %s\n", n, commands[n].help)
	}
	b.WriteString("\nrun 'accidents <command> -help' for flags\n")
	fmt.Fprint(w, b.String())
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(exitRuntime)
}
