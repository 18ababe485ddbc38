package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/keep/internal/api"
	"github.com/eleven-am/keep/internal/auth"
	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/service"
	"github.com/eleven-am/keep/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the keep API server. The server authenticates callers with
bearer tokens from the configured identity provider and serves the todo
and category operations under /api/v1.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if keepConfig.Database.URL == "" {
		return fmt.Errorf("database URL is required (set database.url in keep.yaml or pass --url)")
	}

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:   keepConfig.Auth.Secret,
		Issuer:   keepConfig.Auth.Issuer,
		Audience: keepConfig.Auth.Audience,
	})
	if err != nil {
		return err
	}

	dbConfig := store.NewConfig(keepConfig.Database.Driver, keepConfig.Database.URL)
	dbConfig.MaxOpenConns = keepConfig.Database.MaxConnections
	db, err := dbConfig.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := store.New(db)
	identity := service.NewIdentity(repos.Users)
	categories := service.NewCategories(repos.Categories, repos.Todos)
	todos := service.NewTodos(repos.Todos, repos.Categories)

	server := api.NewServer(verifier, identity, categories, todos, debug)

	addr := keepConfig.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.CLI().WithField("addr", addr).Info("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.CLI().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), keepConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
