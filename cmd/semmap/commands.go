package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/convert"
	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/validate"
)

func convertCmd(a *app) *cobra.Command {
	var (
		output            string
		inputFormat       string
		outputFormat      string
		contextFile       string
		noDefaultPrefixes bool
		fillDefaults      bool
	)

	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert one mapping file",
		Long: `Convert reads INPUT and writes it in another format.

Formats are inferred from the file extensions unless given explicitly.
Writing to "-" (the default) prints to stdout using the configured output
format.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.withMetrics(func(cmd *cobra.Command, args []string) error {
		if contextFile != "" {
			a.cfg.Prefixes.Context = contextFile
		}
		if noDefaultPrefixes {
			a.cfg.Prefixes.NoDefaults = true
		}
		prefixes, err := a.prefixMap()
		if err != nil {
			return err
		}

		if outputFormat == "" {
			if _, ok := export.FormatFromExtension(output); !ok {
				outputFormat = a.cfg.Output.Format
			}
		}

		_, err = a.converter.Convert(cmd.Context(), convert.Request{
			Input:        args[0],
			Output:       output,
			InputFormat:  inputFormat,
			OutputFormat: outputFormat,
			Prefixes:     prefixes,
			FillDefaults: fillDefaults || a.cfg.Output.FillDefaults,
		})
		return err
	})

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format (tsv, csv, json, rdf, owl, alignment-api-xml)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "Output format (tsv, csv, json, rdf, owl or an RDF serialisation)")
	cmd.Flags().StringVar(&contextFile, "context", "", "JSON-LD context file merged into the prefix map")
	cmd.Flags().BoolVar(&noDefaultPrefixes, "no-default-prefixes", false, "Do not start from the bundled SSSOM prefixes")
	cmd.Flags().BoolVar(&fillDefaults, "fill-defaults", false, "Mint a mapping_set_id and default license when missing")

	return cmd
}

func batchCmd(a *app) *cobra.Command {
	var (
		outputDir    string
		inputFormat  string
		outputFormat string
		workers      int
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "batch GLOB",
		Short: "Convert every file matching a glob",
		Long: `Batch converts every file matching GLOB (doublestar syntax, e.g.
"mappings/**/*.sssom.tsv") into --output-dir, mirroring the directory layout
below the glob's static prefix. With --watch it keeps running and converts
files again whenever they change.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.withMetrics(func(cmd *cobra.Command, args []string) error {
		if outputDir == "" {
			outputDir = a.cfg.Output.Dir
		}
		if outputDir == "" {
			return fmt.Errorf("an output directory is required (--output-dir or output.dir)")
		}
		if outputFormat == "" {
			outputFormat = a.cfg.Output.Format
		}
		if !cmd.Flags().Changed("workers") {
			workers = a.cfg.Batch.Workers
		}
		prefixes, err := a.prefixMap()
		if err != nil {
			return err
		}

		pattern := args[0]
		results, err := a.converter.Batch(cmd.Context(), convert.BatchRequest{
			Pattern:      pattern,
			OutputDir:    outputDir,
			InputFormat:  inputFormat,
			OutputFormat: outputFormat,
			Prefixes:     prefixes,
			FillDefaults: a.cfg.Output.FillDefaults,
			Workers:      workers,
		})
		converted := 0
		for _, res := range results {
			if res.Err == nil {
				converted++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d of %d files\n", converted, len(results))
		if err != nil || !watch {
			return err
		}

		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		if base == "" {
			base = "."
		}
		return a.watch(cmd.Context(), convert.WatchConfig{
			Root:          filepath.FromSlash(base),
			Pattern:       rest,
			OutputDir:     outputDir,
			InputFormat:   inputFormat,
			OutputFormat:  outputFormat,
			Prefixes:      prefixes,
			DebounceDelay: a.cfg.Batch.Debounce,
		})
	})

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format (default: from extension)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "Output format (default: output.format)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent conversions (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep converting files as they change")

	return cmd
}

// watch runs a watcher until interrupted.
func (a *app) watch(ctx context.Context, config convert.WatchConfig) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	w, err := a.converter.NewWatcher(config)
	if err != nil {
		return err
	}
	if err := w.Start(signalCtx); err != nil {
		return err
	}
	defer w.Stop()

	for ev := range w.Events() {
		if ev.Error != nil {
			a.logger.Error("Watch conversion failed",
				slog.String("path", ev.Path),
				slog.String("error", ev.Error.Error()))
			continue
		}
		a.logger.Info("Watch event",
			slog.String("path", ev.Path),
			slog.String("op", string(ev.Operation)))
	}
	a.logger.Info("Watcher stopped")
	return nil
}

func splitCmd(a *app) *cobra.Command {
	var (
		outputDir   string
		inputFormat string
	)

	cmd := &cobra.Command{
		Use:   "split INPUT",
		Short: "Split a mapping set into one TSV per prefix and predicate group",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withMetrics(func(cmd *cobra.Command, args []string) error {
		if outputDir == "" {
			outputDir = a.cfg.Output.Dir
		}
		if outputDir == "" {
			return fmt.Errorf("an output directory is required (--output-dir or output.dir)")
		}
		prefixes, err := a.prefixMap()
		if err != nil {
			return err
		}

		doc, err := a.converter.Read(args[0], inputFormat, prefixes, nil, nil)
		if err != nil {
			return err
		}
		paths, err := a.converter.WriteTables(convert.Split(doc), outputDir)
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return err
	})

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format (default: from extension)")

	return cmd
}

func validateCmd(a *app) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate INPUT",
		Short: "Validate a mapping set against the SSSOM JSON schema",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withMetrics(func(cmd *cobra.Command, args []string) error {
		prefixes, err := a.prefixMap()
		if err != nil {
			return err
		}
		doc, err := a.converter.Read(args[0], inputFormat, prefixes, nil, nil)
		if err != nil {
			return err
		}

		res, err := validate.Document(doc)
		if err != nil {
			return err
		}
		if res.Valid() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d mappings)\n", args[0], len(doc.MappingSet.Mappings))
			return nil
		}
		for _, p := range res.Problems {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], p)
		}
		return res
	})

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format (default: from extension)")

	return cmd
}

func prefixesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prefixes",
		Short: "Print the effective prefix map as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.prefixMap()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(m); err != nil {
				return fmt.Errorf("encode prefix map: %w", err)
			}
			return enc.Close()
		},
	}
}
