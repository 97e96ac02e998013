package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/model"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List every manifest a version bump would touch",
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()

		manifests, err := client.Scan()
		if err != nil {
			exitErr(client, err, "")
		}

		if jsonOutput {
			outputJSON(manifests)
			return
		}

		if len(manifests) == 0 {
			fmt.Println("No packages found.")
			return
		}
		for _, m := range manifests {
			rel, err := filepath.Rel(client.RepoRoot(), m.Path)
			if err != nil {
				rel = m.Path
			}
			kind := ""
			if m.Kind == model.ManifestPlugin {
				kind = color.Dim(" (plugin descriptor)")
			}
			fmt.Printf("%-20s %-10s %s%s\n", m.Name, m.Version, rel, kind)
			for _, dep := range m.SiblingDeps {
				fmt.Printf("%-20s %-10s %s\n", "", "", color.Dim("depends on "+dep))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
