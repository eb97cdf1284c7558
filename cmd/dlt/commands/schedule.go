package commands

import (
	"fmt"
	"os"

	l "github.com/KYVENetwork/sumo-dlt/loader"
	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

func init() {
	scheduleCmd.Flags().StringVarP(&connectionName, "connection", "c", "", "name of the connection to re-import on its cron schedule")
	if err := scheduleCmd.MarkFlagRequired("connection"); err != nil {
		panic(fmt.Errorf("flag 'connection' should be required: %w", err))
	}

	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-run a full import whenever the connection's cron schedule fires",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			os.Exit(1)
		}

		conn, _, _, err := utils.GetConnectionDetails(config, connectionName)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to read connection")
			os.Exit(1)
		}
		if conn.Cron == "" {
			logger.Error().Str("connection", conn.Name).Msg("connection has no cron schedule")
			os.Exit(1)
		}

		if config.Loader.PrometheusPort != "" {
			utils.StartPrometheus(config.Loader.PrometheusPort)
		}

		ctx, cancel := shutdownContext()
		defer cancel()

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to create scheduler")
			os.Exit(1)
		}

		job, err := scheduler.NewJob(
			gocron.CronJob(conn.Cron, false),
			gocron.NewTask(func() {
				// the config is re-read so that edits apply to the next run
				loader, err := l.SetupLoader(configPath, conn.Name)
				if err != nil {
					logger.Error().Str("connection", conn.Name).Str("err", err.Error()).Msg("failed to set up loader")
					return
				}
				status, err := loader.Start(ctx)
				if err != nil {
					return
				}
				logger.Info().Str("connection", conn.Name).Msg(fmt.Sprintf("Finished import of %d records! Took %.2f seconds", status.Imported, status.Duration.Seconds()))
			}),
			gocron.WithName(conn.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Error().Str("cron", conn.Cron).Str("err", err.Error()).Msg("invalid cron schedule")
			os.Exit(1)
		}

		scheduler.Start()
		if next, err := job.NextRun(); err == nil {
			logger.Info().Str("connection", conn.Name).Time("next_run", next).Msg("scheduled import")
		}

		<-ctx.Done()
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to shut down scheduler")
		}
	},
}
