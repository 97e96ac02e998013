package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/versync-project/versync/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config <command>",
	Short: "Manage versync configuration",
	Long: `Manage versync configuration stored in .versync/config.yaml.

Configuration options:
  packages_dir      - Directory holding the package tree (default: packages)
  concurrency       - Parallel file I/O bound for transactions
  audit_log         - Audit log location, relative to the repo root
  logging.level     - Log level (debug, info, warn, error)
  logging.format    - Log format (text, json)

Available commands:
  show              - Show current configuration
  set <key> <value> - Set a configuration value
  get <key>         - Get a configuration value`,
	DisableFlagsInUseLine: true,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		r := requireRepo()
		cfg := r.Config

		if jsonOutput {
			outputJSON(cfg)
			return
		}

		fmt.Println("# versync configuration")
		fmt.Printf("# Location: %s/.versync/config.yaml\n\n", r.Root)
		fmt.Printf("packages_dir: %s\n", cfg.PackagesDir)
		fmt.Printf("concurrency: %d\n", cfg.Concurrency)
		fmt.Printf("audit_log: %s\n", cfg.AuditLog)
		fmt.Printf("logging:\n  level: %s\n  format: %s\n", cfg.Logging.Level, cfg.Logging.Format)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in .versync/config.yaml.

Examples:
  versync config set packages_dir modules
  versync config set concurrency 4
  versync config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		r := requireRepo()
		cfg := r.Config

		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			fmtErr("set config: %v", err)
			os.Exit(1)
		}
		if err := config.Save(r.Root, cfg); err != nil {
			fmtErr("save config: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Set %s = %s\n", key, value)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := requireRepo()

		value, err := r.Config.Get(args[0])
		if err != nil {
			fmtErr("get config: %v", err)
			os.Exit(1)
		}
		fmt.Println(value)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
