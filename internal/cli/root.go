package cli

import (
	"github.com/spf13/cobra"

	"github.com/eleven-am/keep/internal/logger"
	keep "github.com/eleven-am/keep/pkg/keep"
)

// Global configuration variables
var (
	configFile  string
	keepConfig  *KeepConfig
	databaseURL string
	debug       bool
	verbose     bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keep",
		Short: "Keep - Todo backend service",
		Long: `Keep is a multi-user todo backend: authenticated callers manage
their own todos and category tags over an HTTP/JSON API backed by
PostgreSQL (SQLite for local development).

Keep provides:
- Ownership-scoped CRUD for todos and categories
- Bulk completion and completed-todo cleanup
- Lazy user provisioning from identity-provider tokens
- Schema migration and a single-binary server`,
		Version: keep.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(logger.LevelFromFlags(debug, verbose))

			var err error
			keepConfig, err = LoadKeepConfig(configFile)
			if err != nil {
				logger.CLI().Warn("failed to load config file: " + err.Error())
				keepConfig = DefaultKeepConfig()
			}

			if databaseURL != "" {
				keepConfig.Database.URL = databaseURL
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: keep.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "url", "", "database connection URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
