package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/posterior/internal/pipeline"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Validate a model file without calculating",
	Long: `Check reads and validates a model file and reports the first problem found,
with its line number where one applies.

Example:
  posterior check bridge.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p := pipeline.NewPipeline(cfg, logger)

	in, err := p.Load(ctx, args[0])
	if err != nil {
		return err
	}

	m, err := p.Check(in)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	rows, cols := m.TableShape()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s is consistent\n", in.Source)
	fmt.Fprintf(out, "  Thesis:      %s\n", thesisOrNone(m.ThesisText(), m.HasThesis()))
	fmt.Fprintf(out, "  Hypotheses:  %d\n", len(m.Hypotheses))
	fmt.Fprintf(out, "  Facts:       %d\n", len(m.Facts))
	fmt.Fprintf(out, "  Table:       %dx%d\n", rows, cols)
	return nil
}

func thesisOrNone(text string, ok bool) string {
	if !ok {
		return "(none, required for reports)"
	}
	return fmt.Sprintf("%q", text)
}
