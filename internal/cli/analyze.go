package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-skin-inspector/internal/analyzer"
	"go-skin-inspector/internal/factory"
	"go-skin-inspector/internal/logger"
	"go-skin-inspector/pkg/models"
)

// analyzeOptions holds the flags of the analyze command
type analyzeOptions struct {
	Workers        int
	Pretty         bool
	SpotWeight     float64
	RednessDivisor float64
	TextureDivisor float64
	Sequential     bool
	NoProgress     bool
}

// FileResult is one element of the analyze output
type FileResult struct {
	File     string            `json:"file"`
	Analysis models.SkinReport `json:"analysis"`
	Error    string            `json:"error,omitempty"`
}

func newAnalyzeCommand(stdout, stderr io.Writer) *cobra.Command {
	defaults := analyzer.DefaultOptions()
	opts := analyzeOptions{
		Workers:        runtime.NumCPU(),
		SpotWeight:     defaults.SpotWeight,
		RednessDivisor: defaults.RednessDivisor,
		TextureDivisor: defaults.TextureDivisor,
	}

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze face images and print one JSON report per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), opts, args, stdout, stderr)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", opts.Workers, "Number of files analyzed in parallel")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().Float64Var(&opts.SpotWeight, "spot-weight", opts.SpotWeight, "Severity weight of the spot density")
	cmd.Flags().Float64Var(&opts.RednessDivisor, "redness-divisor", opts.RednessDivisor, "Divisor applied to mean redness in the severity score")
	cmd.Flags().Float64Var(&opts.TextureDivisor, "texture-divisor", opts.TextureDivisor, "Divisor applied to the texture score in the severity score")
	cmd.Flags().BoolVar(&opts.Sequential, "sequential", false, "Disable row parallelism inside a single analysis")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Hide the progress bar")

	return cmd
}

func runAnalyze(ctx context.Context, opts analyzeOptions, files []string, stdout, stderr io.Writer) error {
	options := analyzer.DefaultOptions().
		WithSeverityWeights(opts.SpotWeight, opts.RednessDivisor, opts.TextureDivisor).
		WithWorkers(opts.Workers)

	analyzerType := factory.StandardAnalyzer
	if opts.Sequential {
		analyzerType = factory.SequentialAnalyzer
	}
	skinAnalyzer, err := factory.NewAnalyzerFactory(options).CreateAnalyzer(analyzerType)
	if err != nil {
		return err
	}
	defer skinAnalyzer.Close()

	results := make([]FileResult, len(files))
	inputs := make([][]byte, len(files))
	for i, path := range files {
		results[i].File = path
		data, err := os.ReadFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Warn("Failed to read file")
			results[i].Error = err.Error()
			continue
		}
		inputs[i] = data
	}

	onDone := func(int) {}
	var bar *progressbar.ProgressBar
	if !opts.NoProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionShowCount(),
		)
		onDone = func(int) { bar.Add(1) }
	}

	reports, err := skinAnalyzer.AnalyzeBatch(ctx, inputs, onDone)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	degraded := 0
	for i, report := range reports {
		results[i].Analysis = report
		if report.IsDegraded() {
			degraded++
		}
	}
	logger.WithFields(logrus.Fields{
		"files":    len(files),
		"degraded": degraded,
	}).Info("Analysis finished")

	enc := json.NewEncoder(stdout)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
