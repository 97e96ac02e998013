package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/internal/diff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <version>",
	Short: "Show the exact line changes a version would make",
	Long: `Show the exact line changes applying a version would make to every
package manifest, without writing anything.

Examples:
  versync diff 2.0.0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()

		manifests, err := client.Scan()
		if err != nil {
			exitErr(client, err, "")
		}
		result, err := diff.Compute(manifests, args[0])
		if err != nil {
			exitErr(client, err, "")
		}

		if jsonOutput {
			outputJSON(result)
			return
		}
		result.Render(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
