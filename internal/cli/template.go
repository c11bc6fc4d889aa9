package cli

import (
	"fmt"

	"github.com/ppiankov/posterior/internal/model"
	"github.com/spf13/cobra"
)

// exampleModel is a complete, valid input file
const exampleModel = `# Lines with an unknown keyword, like this one, are ignored.
# Every record is keyword;value. The table cell record is prob;hypothesis;fact;probability.

thesis;The old bridge is safe to cross

# Counts are optional. When given, they must match the records below.
hypothesis-count;2
hypothesis;Structurally sound
hypothesis-chance;0.7
hypothesis;Failing
hypothesis-chance;0.3

fact-count;2
fact;Fresh cracks in the main span
fact;Recent inspection passed

# P(fact | hypothesis), in (0, 1]. Indices are 1-based and need the counts above.
prob;1;1;0.2
prob;1;2;0.9
prob;2;1;0.8
prob;2;2;0.4
`

// templateCmd represents the template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print an annotated example input file",
	Long: `Print an annotated example model that can be saved and edited.

Example:
  posterior template > bridge.txt
  posterior run bridge.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), exampleModel)
		return err
	},
}

var templateKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List recognized keywords",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, kw := range model.Keywords() {
			fmt.Fprintf(out, "%-18s %d fields\n", kw, kw.Arity())
		}
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateKeywordsCmd)
}
