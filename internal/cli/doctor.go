package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/internal/doctor"
)

var doctorStrict bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check repository health",
	Long: `Check repository health.

Runs diagnostic checks on the repository and reports any issues.
Use --strict to also verify the audit log hash chain.`,
	Run: func(cmd *cobra.Command, args []string) {
		r := requireRepo()

		doc := doctor.NewDoctor(r.Root, r.Config)
		result, err := doc.Check(doctorStrict)
		if err != nil {
			fmtErr("doctor: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(result)
			if !result.Healthy {
				os.Exit(1)
			}
			return
		}

		if len(result.Findings) == 0 {
			fmt.Println("Repository is healthy.")
			return
		}

		fmt.Printf("Findings (%d):\n", len(result.Findings))
		for _, f := range result.Findings {
			fmt.Printf("  [%s] %s: %s\n", f.Severity, f.Category, f.Description)
		}

		if !result.Healthy {
			os.Exit(1)
		}
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false, "also verify the audit log hash chain")
	rootCmd.AddCommand(doctorCmd)
}
