package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/model"
	"github.com/versync-project/versync/pkg/versync"
)

var (
	previewFile  string
	previewQuiet bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [message]",
	Short: "Show the version bump a commit message would produce",
	Long: `Show the version bump a commit message would produce, without
writing anything.

The message comes from the argument, from --file (as the git
commit-msg hook passes it), or from the commits since the last version
tag when neither is given.

Examples:
  versync preview "feat(core): add batching"
  versync preview --file .git/COMMIT_EDITMSG
  versync preview                  # resolve from history`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()
		ctx := context.Background()

		var preview *versync.Preview
		var err error
		switch {
		case previewFile != "":
			data, readErr := os.ReadFile(previewFile)
			if readErr != nil {
				fmtErr("read %s: %v", previewFile, readErr)
				os.Exit(1)
			}
			preview, err = client.ResolveAndPreview(ctx, string(data))
		case len(args) == 1:
			preview, err = client.ResolveAndPreview(ctx, args[0])
		default:
			preview, err = client.PreviewFromHistory(ctx)
		}
		if err != nil {
			if previewQuiet {
				exitErrQuiet(client, err, "")
			}
			exitErr(client, err, "")
		}
		if previewQuiet {
			return
		}

		if jsonOutput {
			outputJSON(preview)
			return
		}
		printPreview(preview)
	},
}

func printPreview(p *versync.Preview) {
	if p.Commit != nil {
		fmt.Printf("Commit:  %s\n", p.Commit.Header())
	}
	fmt.Printf("Bump:    %s\n", bumpLabel(p.Bump))
	if p.Bump == model.BumpNone {
		fmt.Printf("Version: %s (unchanged)\n", p.Current)
	} else {
		fmt.Printf("Version: %s -> %s\n", p.Current, color.Success(p.Next))
	}
	fmt.Printf("Targets: %d manifest(s)\n", len(p.Targets))
}

func bumpLabel(b model.Bump) string {
	if b == model.BumpNone {
		return color.Dim(b.String())
	}
	return b.String()
}

func init() {
	previewCmd.Flags().StringVar(&previewFile, "file", "", "read the commit message from a file")
	previewCmd.Flags().BoolVar(&previewQuiet, "quiet", false, "suppress output, only set the exit code")
	rootCmd.AddCommand(previewCmd)
}
