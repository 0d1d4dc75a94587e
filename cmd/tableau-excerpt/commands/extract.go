package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/halostatue/tableau-excerpt-extension/internal/logger"
	"github.com/halostatue/tableau-excerpt-extension/internal/output"
	"github.com/halostatue/tableau-excerpt-extension/internal/pipeline"
	"github.com/halostatue/tableau-excerpt-extension/pkg/excerpt"
)

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract excerpts from content files",
	Long: `Extract derives an excerpt for each content file and either reports
the results or writes them back into front matter with --write.

Extraction tiers are tried in order: range markers, the split marker, then
the structural fallback. Documents with an existing excerpt front matter
key are never touched.

Examples:
  # Report as JSON for a whole directory
  tableau-excerpt extract content/

  # Update files in place using range markers
  tableau-excerpt extract --write \
      --range-start '<!-- excerpt -->' --range-end '<!-- /excerpt -->' \
      --range-remove content/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()

	// Extraction configuration
	flags.String("excerpt-config", "", "YAML file with excerpt extraction settings")
	flags.String("range-start", "", "regex opening a range marker pair")
	flags.String("range-end", "", "regex closing a range marker pair")
	flags.Bool("range-remove", false, "strip range markers from the body")
	flags.String("marker-pattern", "", "regex for the split marker")
	flags.Bool("marker-remove", false, "strip the split marker from the body")
	flags.Bool("no-marker", false, "disable split-marker extraction")
	flags.String("strategy", "", "fallback strategy: paragraph, sentence, word")
	flags.Int("count", 0, "fallback unit count (default depends on strategy)")
	flags.String("more", "", "suffix appended to word-truncated excerpts")
	flags.Bool("no-fallback", false, "disable structural fallback extraction")

	// Processing settings
	flags.Bool("write", false, "rewrite files in place instead of reporting")
	flags.IntP("concurrency", "c", 4, "concurrent files")

	// Output settings
	flags.StringP("output", "o", "", "report file (default: stdout)")
	flags.String("format", "json", "report format: json, jsonl, yaml")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	raw, err := loadRawConfig(cmd)
	if err != nil {
		return err
	}

	cfg, err := excerpt.Resolve(raw)
	if err != nil {
		logger.Error("configuration rejected", "error", err)
		return err
	}
	for _, diag := range cfg.Diagnostics {
		logger.Warn(diag)
	}

	files, err := pipeline.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no content files found", "paths", args)
		return nil
	}

	write, _ := cmd.Flags().GetBool("write")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	p := pipeline.New(excerpt.New(cfg), pipeline.Config{
		Concurrency: concurrency,
		Write:       write,
	})

	writer, closeFn, err := openWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counts := map[string]int{}
	for res := range p.Run(ctx, files) {
		counts[res.Outcome]++
		if res.Error != nil {
			logger.Error("processing failed", "path", res.Path, "error", res.Error)
		}
		if err := writer.Write(res); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	logger.Info("extraction complete",
		"files", len(files),
		"excerpts", counts["excerpt"]+counts["excerpt-and-body"],
		"skipped", counts["none"],
		"errors", counts["error"])
	return nil
}

// loadRawConfig reads the excerpt configuration file, when given, and layers
// flag overrides on top of it.
func loadRawConfig(cmd *cobra.Command) (excerpt.RawConfig, error) {
	var raw excerpt.RawConfig

	if path, _ := cmd.Flags().GetString("excerpt-config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return raw, fmt.Errorf("reading excerpt config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return raw, fmt.Errorf("parsing excerpt config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("range-start") || flags.Changed("range-end") || flags.Changed("range-remove") {
		raw.Range.Start, _ = flags.GetString("range-start")
		raw.Range.End, _ = flags.GetString("range-end")
		raw.Range.Remove, _ = flags.GetBool("range-remove")
		raw.Range.Enable()
	}
	if noMarker, _ := flags.GetBool("no-marker"); noMarker {
		raw.Marker.Disable()
	} else if flags.Changed("marker-pattern") || flags.Changed("marker-remove") {
		if flags.Changed("marker-pattern") {
			raw.Marker.Pattern, _ = flags.GetString("marker-pattern")
		}
		if flags.Changed("marker-remove") {
			raw.Marker.Remove, _ = flags.GetBool("marker-remove")
		}
		raw.Marker.Enable()
	}
	if noFallback, _ := flags.GetBool("no-fallback"); noFallback {
		raw.Fallback.Disable()
	} else if flags.Changed("strategy") || flags.Changed("count") || flags.Changed("more") {
		if flags.Changed("strategy") {
			raw.Fallback.Strategy, _ = flags.GetString("strategy")
		}
		if flags.Changed("count") {
			count, _ := flags.GetInt("count")
			raw.Fallback.Count = &count
		}
		if flags.Changed("more") {
			more, _ := flags.GetString("more")
			raw.Fallback.More = &more
		}
		raw.Fallback.Enable()
	}

	return raw, nil
}

// openWriter builds the report writer for the chosen format and target.
func openWriter(cmd *cobra.Command) (output.Writer, func(), error) {
	format, _ := cmd.Flags().GetString("format")
	target, _ := cmd.Flags().GetString("output")

	out := os.Stdout
	closeFn := func() {}
	if target != "" {
		f, err := os.Create(target)
		if err != nil {
			return nil, nil, fmt.Errorf("creating report file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	writer, err := output.NewWriter(out, output.Format(format))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return writer, closeFn, nil
}
