package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/internal/hook"
	"github.com/versync-project/versync/pkg/color"
)

var hookUninstall bool

var installHookCmd = &cobra.Command{
	Use:   "install-hook",
	Short: "Install the git commit-msg hook",
	Long: `Install the git commit-msg hook that validates commit messages
before they enter history.

An existing hook is preserved at commit-msg.pre-versync and restored
on --uninstall.`,
	Run: func(cmd *cobra.Command, args []string) {
		r := requireRepo()

		if hookUninstall {
			if err := hook.Uninstall(r.Root); err != nil {
				fmtErr("uninstall hook: %v", err)
				os.Exit(1)
			}
			fmt.Println("Hook removed.")
			return
		}

		path, err := hook.Install(r.Root)
		if err != nil {
			fmtErr("install hook: %v", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(map[string]any{"hook": path})
			return
		}
		fmt.Printf("Installed commit-msg hook at %s\n", color.Success(path))
	},
}

func init() {
	installHookCmd.Flags().BoolVar(&hookUninstall, "uninstall", false, "remove the hook and restore any previous one")
	rootCmd.AddCommand(installHookCmd)
}
