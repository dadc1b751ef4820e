package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rainsimdb/src/directors"
	"rainsimdb/src/engine"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the database holds the declared collections and validators",
		Long: `Check connects with the root credentials, reports the server version and the
collections present in DB_NAME, and fails if experiments or camera is missing
or carries a different validator. It never writes.`,
		Args: cobra.NoArgs,
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
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

	report, err := directors.NewInspector(store, a.args, a.logger).Check(ctx)
	if report != nil {
		printJSON(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	return nil
}
