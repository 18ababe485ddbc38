package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the keep tables and indexes. Every statement is idempotent,
so migrate can run repeatedly against the same database.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if keepConfig.Database.URL == "" {
		return fmt.Errorf("database URL is required (set database.url in keep.yaml or pass --url)")
	}

	db, err := store.NewConfig(keepConfig.Database.Driver, keepConfig.Database.URL).Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	logger.CLI().Info("schema applied")
	cmd.Println("Successfully applied database schema")
	return nil
}
