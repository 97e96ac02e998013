package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/versync"
)

var bumpDryRun bool

var bumpCmd = &cobra.Command{
	Use:   "bump [message]",
	Short: "Resolve a version bump and apply it to every manifest",
	Long: `Resolve a version bump and apply it atomically across every
package manifest.

With a message argument, the bump comes from that single conventional
commit message. Without one, it is resolved from every commit since
the last version tag.

Examples:
  versync bump "fix(core): off-by-one in scanner"
  versync bump                    # resolve from history
  versync bump --dry-run          # preview only`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()
		ctx := context.Background()

		if bumpDryRun {
			var preview *versync.Preview
			var err error
			if len(args) == 1 {
				preview, err = client.ResolveAndPreview(ctx, args[0])
			} else {
				preview, err = client.PreviewFromHistory(ctx)
			}
			if err != nil {
				exitErr(client, err, "")
			}
			if jsonOutput {
				outputJSON(preview)
				return
			}
			printPreview(preview)
			return
		}

		var result *versync.BumpResult
		var err error
		if len(args) == 1 {
			result, err = client.Bump(ctx, args[0])
		} else {
			result, err = client.BumpFromHistory(ctx)
		}
		if err != nil {
			exitErr(client, err, "")
		}

		if jsonOutput {
			outputJSON(result)
			return
		}
		if !result.Applied {
			fmt.Printf("No bump: version stays at %s\n", result.Preview.Current)
			return
		}
		fmt.Printf("Bumped %s -> %s (%s)\n",
			result.Preview.Current, color.Success(result.Apply.Version), result.Preview.Bump)
		fmt.Printf("  %d manifest(s) updated, transaction %s\n",
			len(result.Apply.Files), result.Apply.TxID)
	},
}

func init() {
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "preview the bump without writing")
	rootCmd.AddCommand(bumpCmd)
}
