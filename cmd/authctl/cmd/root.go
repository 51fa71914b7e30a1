package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/himuexe/Utsavia/config"
	"github.com/himuexe/Utsavia/mongodb"
)

var cfg *config.ServerConfig

var rootCmd = &cobra.Command{
	Use:   "authctl",
	Short: "authctl is an operator CLI for the Utsavia auth service",
	Long:  "A command-line interface for managing user accounts and checking the health of the Utsavia authentication backend.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.WarnLevel)

		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// connectMongo opens the configured database for a single command run.
func connectMongo(ctx context.Context) error {
	return mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
}
