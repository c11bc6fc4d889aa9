package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/posterior/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runFormat   string
	runOut      string
	runTimeout  time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Calculate the posterior chances of every hypothesis",
	Long: `Run reads a model file, validates it, and reports the posterior chance of
every hypothesis given the facts.

The input is a file path, "-" for standard input, or an http(s) URL. HTML pages
are supported: records are read from <pre> blocks, or from the page text.

Example:
  posterior run bridge.txt
  posterior run bridge.txt --format markdown --out report.md
  posterior run https://example.com/models/bridge.txt --format json
  posterior run bridge.txt --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "output format (text, json, markdown, html)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "write the report to this file instead of stdout")
	runCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown and HTML reports")

	// Input flags
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall timeout, including remote fetches and LLM calls")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report memoization")

	// LLM flags
	runCmd.Flags().BoolVar(&llmEnabled, "llm", false, "append an LLM narrative to the report")
	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Flags override config
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = runFormat
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if cmd.Flags().Changed("llm-model") || cfg.LLM.Model == "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	errOut := cmd.ErrOrStderr()
	if verbose {
		fmt.Fprintf(errOut, "Input:   %s\n", source)
		fmt.Fprintf(errOut, "Format:  %s\n", cfg.Output.Format)
		fmt.Fprintf(errOut, "Cache:   %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(errOut)
	}

	p := pipeline.NewPipeline(cfg, logger)

	result, err := p.Run(ctx, source, cfg.Output.Format)
	if err != nil {
		logger.Error("Run failed", zap.String("source", source), zap.Error(err))
		return fmt.Errorf("run failed: %w", err)
	}

	if verbose {
		if result.Cached {
			fmt.Fprintf(errOut, "✓ Served from cache\n")
		} else {
			r := result.Report
			fmt.Fprintf(errOut, "✓ Read %d hypotheses and %d facts\n", len(r.Outcomes), len(r.Facts))
			fmt.Fprintf(errOut, "✓ Calculated posterior (percentages add up to %d%%)\n", r.Score.PercentSum)
			if r.LLM != nil && r.LLM.Enabled {
				fmt.Fprintf(errOut, "✓ Generated LLM summary using %s/%s\n", r.LLM.Provider, r.LLM.Model)
			}
		}
		fmt.Fprintln(errOut)
	}

	if runOut == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}

	if err := os.WriteFile(runOut, result.Output, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(errOut, "✓ Wrote %s report: %s\n", cfg.Output.Format, runOut)
	return nil
}
