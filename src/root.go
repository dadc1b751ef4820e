package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rainsimdb/src/helpers"
	"rainsimdb/src/settings"
)

// app holds what PersistentPreRunE builds for every subcommand.
type app struct {
	cfgFile string
	envFile string
	debug   bool

	args   *settings.Arguments
	logger *zap.SugaredLogger
	runID  string
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "rainsimdb",
		Short: "Provision the rainsim experiment database",
		Long: `rainsimdb authenticates as the root user, creates the application user
with dbOwner on DB_NAME, and creates the experiments and camera collections
with their schema validators.

Run without a subcommand it performs the bootstrap, so it can be used directly
as a container init step.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runBootstrap,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "path to settings file (YAML)")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "development logging at debug level")

	cmd.AddCommand(newBootstrapCommand(a))
	cmd.AddCommand(newCheckCommand(a))
	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newSchemaCommand())

	return cmd, a
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		// existing environment variables win over the file
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", a.envFile, err)
		}
	}

	args, err := settings.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if cmd.Flags().Changed("debug") {
		args.Debug = a.debug
	}

	logger, err := newLogger(args.Debug, args.LogLevel)
	if err != nil {
		return err
	}

	a.args = args
	a.runID = helpers.GenerateUUID()
	a.logger = logger.Sugar().With("run", a.runID)
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "%v\n", v)
	}
}
