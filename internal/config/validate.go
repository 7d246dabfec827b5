package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser/csv"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path names the flag it concerns.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error lets an Issue be returned where an error is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// StorageKinds are the export backends compiled into the binary.
var StorageKinds = []string{"sqlite", "postgres", "mssql", "mysql"}

// Validate lints cfg without modifying it. Checks that only matter for one
// subcommand run only when cfg.Command names it.
func Validate(cfg Config) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	switch cfg.Mode {
	case ModePrint, ModeSave:
	default:
		add(SeverityError, "mode", "mode must be %q or %q, got %q", ModePrint, ModeSave, cfg.Mode)
	}
	if _, err := csv.LookupEncoding(cfg.Encoding); err != nil {
		add(SeverityError, "encoding", "%v", err)
	}
	if strings.TrimSpace(cfg.RawPath) == "" {
		add(SeverityError, "input", "raw input path must not be empty")
	}
	if strings.TrimSpace(cfg.ProcessedPath) == "" {
		add(SeverityError, "processed", "processed snapshot path must not be empty")
	}
	if cfg.Mode == ModeSave && strings.TrimSpace(cfg.ResultsDir) == "" {
		add(SeverityError, "results-dir", "save mode needs a results directory")
	}
	if cfg.Start > cfg.End {
		add(SeverityWarning, "start", "start year %d is after end year %d; the period count will be 0", cfg.Start, cfg.End)
	}
	if cfg.Month < 0 || cfg.Month > 12 {
		add(SeverityError, "month", "month must be 0..12, got %d", cfg.Month)
	}
	if cfg.Year < 0 {
		add(SeverityError, "year", "year must not be negative, got %d", cfg.Year)
	}
	if cfg.Every < 0 {
		add(SeverityError, "every", "interval must not be negative")
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		add(SeverityError, "log-level", "unknown log level %q", cfg.LogLevel)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "", "console", "text", "json":
	default:
		add(SeverityError, "log-format", "log format must be console or json, got %q", cfg.LogFormat)
	}

	if cfg.WeatherConcurrency < 1 {
		add(SeverityError, "weather-concurrency", "must be at least 1, got %d", cfg.WeatherConcurrency)
	}
	if cfg.HTTPTimeout <= 0 {
		add(SeverityError, "http-timeout", "must be positive")
	}
	if cfg.HTTPRetries < 0 {
		add(SeverityError, "http-retries", "must not be negative")
	}
	if cfg.Command == "enrich" && cfg.WeatherKey == "" {
		add(SeverityError, "weather-key", "enrich needs WEATHERBIT_API_KEY")
	}
	if cfg.Command == "airports" {
		if cfg.AirlabsKey == "" {
			add(SeverityError, "airlabs-key", "airports needs AIRLABS_API_KEY")
		}
		if len(cfg.CodeList()) == 0 {
			add(SeverityError, "codes", "no airport codes given")
		}
	}

	switch cfg.MetricsBackend {
	case "", "none":
	case "pushgateway":
		if cfg.PushgatewayURL == "" {
			add(SeverityError, "pushgateway-url", "pushgateway backend needs a URL")
		}
	case "datadog":
		if cfg.DatadogAddr == "" {
			add(SeverityError, "datadog-addr", "datadog backend needs an agent address")
		}
	default:
		add(SeverityWarning, "metrics-backend", "unknown metrics backend %q; metrics disabled", cfg.MetricsBackend)
	}

	known := false
	for _, k := range StorageKinds {
		if cfg.StorageKind == k {
			known = true
		}
	}
	if !known {
		add(SeverityError, "storage-kind", "unknown storage kind %q (want one of %s)", cfg.StorageKind, strings.Join(StorageKinds, ", "))
	}
	if cfg.Command == "export" {
		if strings.TrimSpace(cfg.DSN) == "" {
			add(SeverityError, "dsn", "export needs a DSN")
		}
		if strings.TrimSpace(cfg.Table) == "" {
			add(SeverityError, "table", "export needs a table name")
		}
	}
	if cfg.BatchSize <= 0 {
		add(SeverityError, "batch-size", "must be positive, got %d", cfg.BatchSize)
	}
	return issues
}
