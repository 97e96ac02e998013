package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/internal/audit"
	"github.com/versync-project/versync/pkg/color"
)

var (
	logLimit  int
	logVerify bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit log",
	Long: `Show the append-only audit log of classified errors.

Use --verify to check the hash chain for truncation or tampering.

Examples:
  versync log
  versync log -n 10
  versync log --verify`,
	Run: func(cmd *cobra.Command, args []string) {
		client := requireClient()
		appender := audit.NewFileAppender(client.Config().AuditLogPath(client.RepoRoot()))

		if logVerify {
			if err := appender.VerifyChain(); err != nil {
				fmtErr("audit chain verification failed: %v", err)
				os.Exit(1)
			}
			fmt.Println(color.Success("Chain verified."))
			if jsonOutput {
				outputJSON(map[string]any{"verified": true})
			}
			return
		}

		records, err := appender.ReadAll()
		if err != nil {
			fmtErr("read audit log: %v", err)
			os.Exit(1)
		}
		if logLimit > 0 && len(records) > logLimit {
			records = records[len(records)-logLimit:]
		}

		if jsonOutput {
			outputJSON(records)
			return
		}

		if len(records) == 0 {
			fmt.Println("Audit log is empty.")
			return
		}
		for _, rec := range records {
			line := fmt.Sprintf("%s  %s  %s",
				rec.Timestamp.Format(time.RFC3339), color.Error(rec.Code), rec.Message)
			if rec.CommitSHA != "" {
				line += color.Dim("  (" + rec.CommitSHA + ")")
			}
			fmt.Println(line)
		}
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show only the last N records")
	logCmd.Flags().BoolVar(&logVerify, "verify", false, "verify the audit log hash chain")
	rootCmd.AddCommand(logCmd)
}
