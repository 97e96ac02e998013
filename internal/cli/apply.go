package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/pkg/color"
)

var applyCmd = &cobra.Command{
	Use:   "apply <version>",
	Short: "Set every manifest to an explicit version",
	Long: `Set every package manifest to an explicit version as one atomic
transaction. The version must be a plain semantic version that
advances the current one.

Examples:
  versync apply 2.0.0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()

		result, err := client.Apply(context.Background(), args[0])
		if err != nil {
			exitErr(client, err, "")
		}

		if jsonOutput {
			outputJSON(result)
			return
		}
		fmt.Printf("Applied %s to %d manifest(s), transaction %s\n",
			color.Success(result.Version), len(result.Files), result.TxID)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
