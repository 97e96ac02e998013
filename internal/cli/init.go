package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/internal/repo"
	"github.com/versync-project/versync/pkg/color"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a versync repository",
	Long: `Initialize a versync repository in the current directory.

This creates:
  - .versync/ directory with config.yaml and the audit log location
  - packages/ directory if it does not exist`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmtErr("cannot get current directory: %v", err)
			os.Exit(1)
		}

		r, err := repo.Init(cwd)
		if err != nil {
			fmtErr("failed to initialize repository: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]any{
				"repo_root": r.Root,
				"repo_id":   r.RepoID,
			})
			return
		}
		fmt.Printf("Initialized versync repository in %s\n", color.Success(r.Root))
		fmt.Printf("  Packages directory: %s\n", r.PackagesPath())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
