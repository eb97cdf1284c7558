package commands

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

func init() {
	destinationsCmd.AddCommand(destinationsAddCmd)
	destinationsCmd.AddCommand(destinationsListCmd)
	destinationsCmd.AddCommand(destinationsRemoveCmd)

	rootCmd.AddCommand(destinationsCmd)
}

var destinationsCmd = &cobra.Command{
	Use:     "destinations",
	Short:   "Add or remove a destination or list all",
	Aliases: []string{"d"},
}

var destinationsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new PostGIS destination",
	Run: func(cmd *cobra.Command, args []string) {
		if err := addEntry("destinations", utils.CreateDestinationEntry()); err != nil {
			logger.Error().Str("err", err.Error()).Msg("error saving config")
			return
		}
		logger.Info().Msg("Destination added successfully!")
	},
}

var destinationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all specified destinations",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		if len(config.Destinations) == 0 {
			fmt.Println("No destinations defined.")
			return
		}

		rows := make([][]string, 0, len(config.Destinations))
		for _, d := range config.Destinations {
			rows = append(rows, []string{d.Name, d.Type, d.TableName, d.SummaryViewName})
		}
		printTable([]string{"Name", "Type", "Table", "SummaryView"}, rows)
	},
}

var destinationsRemoveCmd = &cobra.Command{
	Use:   "remove [destination name]",
	Short: "Remove a destination by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeEntry("destinations", args[0]); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to remove destination")
			return
		}
		logger.Info().Msg("Destination removed successfully!")
	},
}
