package commands

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/salesapi/accounts/internal/config"
	"github.com/salesapi/accounts/internal/logger"
)

var (
	debug bool
	cfg   *config.Config
	log   zerolog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "salesctl",
		Short:         "Import and query the sales accounts dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			log = logger.Setup(debug || cfg.Log.Dev)
			cmd.SetContext(log.WithContext(cmd.Context()))
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "human readable debug logging")

	root.AddCommand(importCmd(), accountsCmd())

	err := root.ExecuteContext(context.Background())
	if err != nil {
		l := logger.Setup(debug)
		l.Error().Err(err).Msg("salesctl failed")
	}
	return err
}
