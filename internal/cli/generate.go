package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/config"
	"github.com/runwrap/runwrap/internal/ingest"
	"github.com/runwrap/runwrap/internal/report"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	ConfigPath string
	Snapshot   string
	Export     string
	Year       int
	Output     string
	Exclude    []string
	Salt       string
}

// GenerateSummary is what the command reports after writing the
// document, in both output formats.
type GenerateSummary struct {
	Output          string  `json:"output"`
	Year            int     `json:"year"`
	TotalRuns       int     `json:"total_runs"`
	SuccessRate     float64 `json:"success_rate"`
	UniqueUsers     int     `json:"unique_users"`
	UniquePipelines int     `json:"unique_pipelines"`
	Awards          int     `json:"awards"`
	FunFacts        int     `json:"fun_facts"`
	DroppedRuns     int     `json:"dropped_runs"`
	ExcludedRuns    int     `json:"excluded_runs"`
}

func (s GenerateSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report written to %s\n", s.Output)
	fmt.Fprintf(&b, "  Year:             %d\n", s.Year)
	fmt.Fprintf(&b, "  Total runs:       %d\n", s.TotalRuns)
	fmt.Fprintf(&b, "  Success rate:     %.1f%%\n", s.SuccessRate)
	fmt.Fprintf(&b, "  Unique users:     %d\n", s.UniqueUsers)
	fmt.Fprintf(&b, "  Unique pipelines: %d\n", s.UniquePipelines)
	fmt.Fprintf(&b, "  Awards:           %d\n", s.Awards)
	fmt.Fprintf(&b, "  Fun facts:        %d", s.FunFacts)
	if s.DroppedRuns > 0 || s.ExcludedRuns > 0 {
		fmt.Fprintf(&b, "\n  Dropped records:  %d (excluded: %d)", s.DroppedRuns, s.ExcludedRuns)
	}
	return b.String()
}

// NewGenerateCommand creates the generate subcommand: read a workspace
// export, run the report pipeline, write the versioned document.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the year-in-review report",
		Long: `Generate reads a workspace export (sqlite snapshot or JSON), aggregates
the target year's runs and writes the versioned report document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "sqlite workspace snapshot")
	cmd.Flags().StringVar(&opts.Export, "export", "", "JSON workspace export")
	cmd.Flags().IntVarP(&opts.Year, "year", "y", 0, "target calendar year (required here or in config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "report output path")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "project ids to drop before normalization")
	cmd.Flags().StringVar(&opts.Salt, "salt", "", "anonymization seed salt")

	return cmd
}

func runGenerate(cmd *cobra.Command, rootOpts *RootOptions, opts *GenerateOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	cfg, err := ResolveConfig(opts.ConfigPath, func(cfg *config.Config) {
		if opts.Snapshot != "" {
			cfg.Snapshot = opts.Snapshot
		}
		if opts.Export != "" {
			cfg.Export = opts.Export
		}
		if opts.Year != 0 {
			cfg.Year = opts.Year
		}
		if opts.Output != "" {
			cfg.Output = opts.Output
		}
		if len(opts.Exclude) > 0 {
			cfg.ExcludeProjects = append(cfg.ExcludeProjects, opts.Exclude...)
		}
		if opts.Salt != "" {
			cfg.AnonymizeSalt = opts.Salt
		}
	})
	if err != nil {
		return err
	}

	if cfg.Year < 2000 || cfg.Year > 2100 {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%s: target year %d missing or implausible", ErrCodeYear, cfg.Year))
	}

	raw, err := LoadRawData(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	normalized := ingest.Normalize(raw, cfg.Year, cfg.ExcludeSet())
	slog.Debug("normalized records",
		"runs", len(normalized.Runs),
		"dropped", normalized.DroppedRuns,
		"excluded", normalized.ExcludedRuns)

	doc, err := report.Assemble(normalized, report.Params{
		Year:          cfg.Year,
		GeneratedAt:   time.Now().UTC(),
		AnonymizeSalt: cfg.AnonymizeSalt,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": assemble report", err)
	}

	data, err := doc.Marshal()
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric+": marshal report", err)
	}
	if err := writeReport(cfg.Output, data); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed+": write report", err)
	}

	return formatter.Success(GenerateSummary{
		Output:          cfg.Output,
		Year:            cfg.Year,
		TotalRuns:       doc.CoreStats.TotalRuns,
		SuccessRate:     doc.CoreStats.SuccessRate,
		UniqueUsers:     doc.CoreStats.UniqueUsers,
		UniquePipelines: doc.CoreStats.UniquePipelines,
		Awards:          len(doc.Awards),
		FunFacts:        len(doc.FunFacts.Specific),
		DroppedRuns:     normalized.DroppedRuns,
		ExcludedRuns:    normalized.ExcludedRuns,
	})
}

func writeReport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
