package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rainsimdb/src/directors"
	"rainsimdb/src/engine"
)

func newBootstrapCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the application user and collections, then exit",
		Long: `Bootstrap runs, in order: authenticate, create-user, select-database,
create-experiments, create-camera. The first failing step stops the run and
nothing already created is removed.

The step results are printed as JSON to stdout; the exit code is non-zero on
failure.`,
		Args: cobra.NoArgs,
		RunE: a.runBootstrap,
	}
}

func (a *app) runBootstrap(cmd *cobra.Command, _ []string) error {
	if err := a.args.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.args.Timeout)
	defer cancel()

	store, err := engine.Connect(ctx, a.args, a.logger)
	if err != nil {
		return err
	}
	defer a.disconnect(store)

	a.logger.Infow("starting bootstrap", "database", a.args.App.Database, "user", a.args.App.Username)

	result, err := directors.NewProvisioner(store, a.args, a.logger).Run(ctx, a.runID)
	printJSON(cmd.OutOrStdout(), result)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	a.logger.Info("bootstrap completed successfully")
	return nil
}

func (a *app) disconnect(store *engine.MongoStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Disconnect(ctx); err != nil {
		a.logger.Warnw("disconnect failed", "error", err)
	}
}
