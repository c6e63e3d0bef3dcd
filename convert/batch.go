package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
)

// BatchRequest describes a conversion of every file matching a glob.
type BatchRequest struct {
	// Pattern is a doublestar glob such as "mappings/**/*.sssom.tsv".
	Pattern string

	// OutputDir receives the outputs, mirroring the layout below the
	// pattern's static base directory.
	OutputDir string

	InputFormat  string
	OutputFormat string

	Prefixes *prefix.Map
	Metadata model.Metadata

	FillDefaults bool

	// Workers bounds concurrent conversions. Zero means GOMAXPROCS.
	Workers int
}

// Expand returns the files matching pattern, sorted.
func Expand(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	slices.Sort(matches)
	return matches, nil
}

// OutputPath maps an input below base to OutputDir with the extension of
// format. A trailing ".sssom" infix is kept.
func OutputPath(input, base, outputDir, format string) string {
	rel, err := filepath.Rel(base, input)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(input)
	}
	ext := ".out"
	if info, ok := export.GetFormatInfo(format); ok {
		ext = info.Extension
	}
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outputDir, stem+ext)
}

// Batch converts every match of req.Pattern concurrently. Each conversion
// gets its own prefix map copy and document. A failing file does not stop
// the others; the joined failures are returned with all results.
// Cancelling ctx stops files that have not started yet.
func (c *Converter) Batch(ctx context.Context, req BatchRequest) ([]*Result, error) {
	if req.OutputFormat == "" {
		return nil, model.ConfigError("convert", "Batch", "an output format is required")
	}
	if _, err := export.WriterFor(req.OutputFormat, export.Options{Logger: c.logger}); err != nil {
		return nil, err
	}

	inputs, err := Expand(req.Pattern)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		c.logger.Warn("No files match pattern", slog.String("pattern", req.Pattern))
		return nil, nil
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(req.Pattern))
	base = filepath.FromSlash(base)

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	c.logger.Info("Starting batch conversion",
		slog.String("pattern", req.Pattern),
		slog.Int("files", len(inputs)),
		slog.Int("workers", workers))

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, _ := c.Convert(gctx, Request{
				Input:        input,
				Output:       OutputPath(input, base, req.OutputDir, req.OutputFormat),
				InputFormat:  req.InputFormat,
				OutputFormat: req.OutputFormat,
				Prefixes:     req.Prefixes.Clone(),
				Metadata:     req.Metadata,
				FillDefaults: req.FillDefaults,
			})
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(results), err
	}

	var failed []error
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", res.Input, res.Err))
		}
	}
	return results, errors.Join(failed...)
}

func compact(results []*Result) []*Result {
	return slices.DeleteFunc(results, func(r *Result) bool { return r == nil })
}
