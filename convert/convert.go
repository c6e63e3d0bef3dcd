// Package convert runs conversions between mapping formats: single files,
// globbed batches, per-group splits and watched directories.
package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/parser"
	"github.com/c360studio/semmap/prefix"
)

// Config configures a Converter.
type Config struct {
	// Registry resolves input formats. Defaults to parser.DefaultRegistry.
	Registry *parser.Registry

	// Metrics is optional.
	Metrics *Metrics

	Logger *slog.Logger
}

// Converter reads documents with the parser registry and writes them with
// the export writers.
type Converter struct {
	registry *parser.Registry
	metrics  *Metrics
	logger   *slog.Logger
}

// NewConverter creates a converter.
func NewConverter(cfg Config) *Converter {
	registry := cfg.Registry
	if registry == nil {
		registry = parser.DefaultRegistry
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		registry: registry,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// Request describes one conversion.
type Request struct {
	Input  string
	Output string

	// InputFormat and OutputFormat default to the file extensions.
	InputFormat  string
	OutputFormat string

	// Prefixes is the caller prefix map. It is cloned, never modified.
	Prefixes *prefix.Map

	// Metadata, when non-nil, replaces metadata embedded in the input.
	Metadata model.Metadata

	// FillDefaults mints a mapping_set_id and sets the default license on
	// documents lacking them.
	FillDefaults bool
}

// Result summarises one conversion.
type Result struct {
	Input        string
	Output       string
	InputFormat  string
	OutputFormat string
	Mappings     int
	Warnings     []model.Warning
	Duration     time.Duration
	Err          error
}

// Read parses path into a document, inferring the format from the extension
// when format is empty.
func (c *Converter) Read(path, format string, prefixes *prefix.Map, meta model.Metadata, warnings *model.Warnings) (*model.MappingSetDocument, error) {
	return c.registry.ParseFile(path, format, parser.Options{
		Prefixes: prefixes.Clone(),
		Metadata: meta,
		Logger:   c.logger,
		Warnings: warnings,
	})
}

// Write serialises doc in format to w.
func (c *Converter) Write(w io.Writer, doc *model.MappingSetDocument, format string, warnings *model.Warnings) error {
	wr, err := export.WriterFor(format, export.Options{Logger: c.logger, Warnings: warnings})
	if err != nil {
		return err
	}
	return wr.Write(w, doc)
}

// Convert reads req.Input and writes req.Output. The result is returned
// even on failure so callers can report it.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{Input: req.Input, Output: req.Output}
	err := c.convert(ctx, req, res)
	res.Duration = time.Since(start)
	res.Err = err
	c.metrics.record(res, err)

	if err != nil {
		c.logger.Error("Conversion failed",
			slog.String("input", req.Input),
			slog.String("error", err.Error()))
		return res, err
	}
	c.logger.Info("Conversion complete",
		slog.String("input", req.Input),
		slog.String("output", req.Output),
		slog.Int("mappings", res.Mappings),
		slog.Int("warnings", len(res.Warnings)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

func (c *Converter) convert(ctx context.Context, req Request, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res.InputFormat = req.InputFormat
	if res.InputFormat == "" {
		f, ok := parser.FormatFromExtension(req.Input)
		if !ok {
			return model.ConfigError("convert", "Convert", "cannot infer input format of %s", req.Input)
		}
		res.InputFormat = f
	}
	res.OutputFormat = req.OutputFormat
	if res.OutputFormat == "" {
		f, ok := export.FormatFromExtension(req.Output)
		if !ok {
			return model.ConfigError("convert", "Convert", "cannot infer output format of %s", req.Output)
		}
		res.OutputFormat = f
	}

	warnings := &model.Warnings{}
	defer func() { res.Warnings = warnings.All() }()

	doc, err := c.Read(req.Input, res.InputFormat, req.Prefixes, req.Metadata, warnings)
	if err != nil {
		return err
	}
	res.Mappings = len(doc.MappingSet.Mappings)
	if req.FillDefaults {
		FillDefaults(doc.MappingSet)
	}

	return writeFile(req.Output, func(w io.Writer) error {
		return c.Write(w, doc, res.OutputFormat, warnings)
	})
}

// writeFile replaces path through a temporary file in the same directory.
// An empty path or "-" writes to stdout.
func writeFile(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(os.Stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
