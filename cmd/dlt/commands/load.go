package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	l "github.com/KYVENetwork/sumo-dlt/loader"
	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

var (
	connectionName string
	y              bool
)

func init() {
	loadCmd.Flags().StringVarP(&connectionName, "connection", "c", "", "name of the connection to import")
	if err := loadCmd.MarkFlagRequired("connection"); err != nil {
		panic(fmt.Errorf("flag 'connection' should be required: %w", err))
	}

	loadCmd.Flags().BoolVarP(&y, "yes", "y", false, "automatically answer yes for all questions")

	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import a FCD file into the connection's destination",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			os.Exit(1)
		}

		loader, err := l.SetupLoaderFromConfig(config, connectionName)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to set up loader")
			os.Exit(1)
		}

		if !y && !utils.PromptConfirm(fmt.Sprintf("\nThis drops and recreates table %s. Continue? [y/N]: ", loader.Config().TableName)) {
			logger.Info().Msg("aborted")
			return
		}

		if config.Loader.PrometheusPort != "" {
			utils.StartPrometheus(config.Loader.PrometheusPort)
		}

		ctx, cancel := shutdownContext()
		defer cancel()

		status, err := loader.Start(ctx)
		if err != nil {
			os.Exit(1)
		}

		logger.Info().
			Int64("records", status.Imported).
			Int64("timesteps", status.Timesteps).
			Int64("commits", status.Commits).
			Msg(fmt.Sprintf("Finished import! Took %.2f seconds", status.Duration.Seconds()))
	},
}

// shutdownContext is cancelled by the first SIGINT/SIGTERM, the second one exits immediately.
func shutdownContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sigCount := 0
		for {
			<-shutdownChannel
			sigCount++
			if sigCount == 1 {
				cancel()
				logger.Info().Msg("Exiting...")
				logger.Warn().Msg("Uncommitted records are rolled back, please wait until dlt exited!")
			} else if sigCount == 2 {
				logger.Warn().Msg("Received second signal, forcing exit...")
				os.Exit(1)
			}
		}
	}()

	return ctx, cancel
}
