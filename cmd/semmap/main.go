// Package main provides the semmap binary entry point.
// Semmap converts SSSOM mapping sets between tables, JSON, RDF, OWL and
// Alignment API XML.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semmap/config"
	"github.com/c360studio/semmap/convert"
	"github.com/c360studio/semmap/prefix"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semmap"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	configPath  string
	logLevel    string
	metricsFile string

	cfg       *config.Config
	logger    *slog.Logger
	metrics   *convert.Metrics
	converter *convert.Converter
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SSSOM mapping set converter",
		Long: `Semmap reads and writes SSSOM mapping sets.

Inputs: SSSOM TSV/CSV with a YAML metadata header, SSSOM JSON, RDF graphs
(Turtle, N-Triples, N-Quads, JSON-LD, RDF/XML) and Alignment API XML.
Outputs: SSSOM TSV/CSV, SSSOM JSON, reified RDF and an OWL rendering.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	cmd.AddCommand(
		convertCmd(a),
		batchCmd(a),
		splitCmd(a),
		validateCmd(a),
		prefixesCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads configuration, applies the persistent flags and builds the
// logger and converter.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(nil).WithFile(a.configPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if a.metricsFile != "" {
		cfg.Metrics.File = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	slog.SetDefault(a.logger)

	a.metrics = convert.NewMetrics()
	a.converter = convert.NewConverter(convert.Config{
		Metrics: a.metrics,
		Logger:  a.logger,
	})
	return nil
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withMetrics runs fn and then writes the metrics textfile, whatever fn
// returned.
func (a *app) withMetrics(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if werr := a.metrics.WriteTextfile(a.cfg.Metrics.File); werr != nil {
			a.logger.Warn("Failed to write metrics file",
				slog.String("path", a.cfg.Metrics.File),
				slog.String("error", werr.Error()))
		}
		return err
	}
}

// prefixMap builds the caller prefix map from the configuration.
func (a *app) prefixMap() (*prefix.Map, error) {
	m, conflicts, err := a.cfg.PrefixMap()
	if err != nil {
		return nil, err
	}
	for _, c := range conflicts {
		a.logger.Warn("Prefix conflict", slog.String("conflict", c.String()))
	}
	return m, nil
}
