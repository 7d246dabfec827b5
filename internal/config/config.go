// Package config holds the accident CLI configuration.
//
// Every tunable is a flag whose default is seeded from an environment
// variable, so the precedence is: explicit flag, then environment (including
// a .env file loaded first), then the built-in default. Every subcommand
// registers the same flag set, which keeps `-help` complete everywhere.
//
// For tests, use LoadFromArgs with a private FlagSet and a map-backed
// getenv:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	cfg, err := config.LoadFromArgs(fs, func(k string) string { return env[k] }, []string{"-mode=save"})
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully resolved configuration of one CLI run. It holds
// plain values and is safe to copy.
type Config struct {
	// Command is the subcommand being run; set by main, not by flags.
	Command string

	// Paths.
	RawPath       string // raw NTSB export (.csv or .xlsx)
	Sheet         string // xlsx sheet; first sheet when empty
	ProcessedPath string // processed snapshot CSV
	ResultsDir    string // result CSVs and workbooks

	// Input.
	Encoding       string // code page of the raw CSV
	DropDuplicates bool

	// Command options.
	Mode  string // print or save
	Start int    // first year of the aggregate window
	End   int    // last year of the aggregate window
	Year  int    // weather enrichment year, 0 for any
	Month int    // weather enrichment month, 0 for any
	Codes string // comma-separated IATA codes
	Every time.Duration

	// Logging.
	LogLevel  string
	LogFormat string
	LogFile   string

	// External services.
	WeatherKey         string
	WeatherURL         string
	WeatherConcurrency int
	AirlabsKey         string
	AirlabsURL         string
	HTTPTimeout        time.Duration
	HTTPRetries        int

	// Metrics.
	MetricsBackend string // none, pushgateway or datadog
	PushgatewayURL string
	DatadogAddr    string

	// Storage export.
	StorageKind string
	DSN         string
	Table       string
	BatchSize   int

	// Validate only lints the configuration and exits.
	Validate bool
	// Verbose lowers the log level to debug.
	Verbose bool
}

// Modes accepted by -mode.
const (
	ModePrint = "print"
	ModeSave  = "save"
)

// Register defines every flag on fs, seeding defaults through getenv, and
// returns the Config the flags write into once fs is parsed.
func Register(fs *flag.FlagSet, getenv func(string) string) *Config {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		switch strings.ToLower(strings.TrimSpace(getenv(k))) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}
	durationEnvOrDefaultFn := func(k string, d time.Duration) time.Duration {
		if v := getenv(k); v != "" {
			if x, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
				return x
			}
		}
		return d
	}

	// Paths
	fs.StringVar(&cfg.RawPath, "input", envOrDefaultFn("RAW_CSV", "data/AviationData.csv"), "raw accident export (.csv or .xlsx)")
	fs.StringVar(&cfg.Sheet, "sheet", getenv("RAW_SHEET"), "sheet name for .xlsx input (first sheet when empty)")
	fs.StringVar(&cfg.ProcessedPath, "processed", envOrDefaultFn("PROCESSED_CSV", "data/processed/AviationData_processed.csv"), "processed snapshot CSV")
	fs.StringVar(&cfg.ResultsDir, "results-dir", envOrDefaultFn("RESULTS_DIR", "results"), "directory for result files")

	// Input
	fs.StringVar(&cfg.Encoding, "encoding", envOrDefaultFn("INPUT_ENCODING", "cp1252"), "raw CSV code page (utf-8, cp1252, latin1, latin9, cp850)")
	fs.BoolVar(&cfg.DropDuplicates, "drop-duplicates", boolEnvOrDefaultFn("DROP_DUPLICATES", true), "drop repeated raw rows before validation")

	// Command options
	fs.StringVar(&cfg.Mode, "mode", ModePrint, "output mode: print or save")
	fs.IntVar(&cfg.Start, "start", 2020, "first year of the window (inclusive)")
	fs.IntVar(&cfg.End, "end", 2023, "last year of the window (inclusive)")
	fs.IntVar(&cfg.Year, "year", intEnvOrDefaultFn("WEATHER_YEAR", 2022), "weather enrichment year (0 = any)")
	fs.IntVar(&cfg.Month, "month", intEnvOrDefaultFn("WEATHER_MONTH", 12), "weather enrichment month (0 = any)")
	fs.StringVar(&cfg.Codes, "codes", "KUN,JAX,EWR,VNO", "comma-separated IATA airport codes")
	fs.DurationVar(&cfg.Every, "every", durationEnvOrDefaultFn("WATCH_EVERY", 0), "watch: also re-run on this interval (0 = file changes only)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", envOrDefaultFn("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", envOrDefaultFn("LOG_FORMAT", "console"), "log format: console or json")
	fs.StringVar(&cfg.LogFile, "log-file", getenv("LOG_FILE"), "also write logs to this file")

	// External services
	fs.StringVar(&cfg.WeatherKey, "weather-key", getenv("WEATHERBIT_API_KEY"), "Weatherbit API key")
	fs.StringVar(&cfg.WeatherURL, "weather-url", envOrDefaultFn("WEATHERBIT_URL", "https://api.weatherbit.io/v2.0"), "Weatherbit API base URL")
	fs.IntVar(&cfg.WeatherConcurrency, "weather-concurrency", intEnvOrDefaultFn("WEATHER_CONCURRENCY", 1), "parallel weather lookups (1 = sequential)")
	fs.StringVar(&cfg.AirlabsKey, "airlabs-key", getenv("AIRLABS_API_KEY"), "Airlabs API key")
	fs.StringVar(&cfg.AirlabsURL, "airlabs-url", envOrDefaultFn("AIRLABS_URL", "https://airlabs.co/api/v9"), "Airlabs API base URL")
	fs.DurationVar(&cfg.HTTPTimeout, "http-timeout", durationEnvOrDefaultFn("HTTP_TIMEOUT", 10*time.Second), "per-request HTTP timeout")
	fs.IntVar(&cfg.HTTPRetries, "http-retries", intEnvOrDefaultFn("HTTP_RETRIES", 3), "HTTP retries on transport errors, 429 and 5xx")

	// Metrics
	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOrDefaultFn("METRICS_BACKEND", "none"), "metrics backend: none, pushgateway, datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOrDefaultFn("PUSHGATEWAY_URL", "http://localhost:9091"), "Pushgateway base URL")
	fs.StringVar(&cfg.DatadogAddr, "datadog-addr", envOrDefaultFn("DATADOG_ADDR", "127.0.0.1:8125"), "DogStatsD address")

	// Storage
	fs.StringVar(&cfg.StorageKind, "storage-kind", envOrDefaultFn("STORAGE_KIND", "sqlite"), "export backend: sqlite, postgres, mssql, mysql")
	fs.StringVar(&cfg.DSN, "dsn", envOrDefaultFn("DB_DSN", "file:accidents.db"), "export database DSN")
	fs.StringVar(&cfg.Table, "table", envOrDefaultFn("DB_TABLE", "accidents"), "export table (result tables get this as prefix)")
	fs.IntVar(&cfg.BatchSize, "batch-size", intEnvOrDefaultFn("BATCH_SIZE", 5000), "rows per export batch")

	fs.BoolVar(&cfg.Validate, "validate", false, "validate the configuration and exit")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose (debug) logging")

	return cfg
}

// LoadFromArgs registers the flags on fs and parses args. It never reads the
// process environment; getenv is the only source of env values.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := Register(fs, getenv)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped;
// with no paths, ".env" is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// CodeList splits Codes into trimmed, upper-cased, non-empty codes.
func (c Config) CodeList() []string {
	var out []string
	for _, s := range strings.Split(c.Codes, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
