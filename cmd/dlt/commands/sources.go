package commands

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

func init() {
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Short:   "Add or remove a source or list all",
	Aliases: []string{"s"},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new source",
	Run: func(cmd *cobra.Command, args []string) {
		if err := addEntry("sources", utils.CreateSourceEntry()); err != nil {
			logger.Error().Str("err", err.Error()).Msg("error saving config")
			return
		}
		logger.Info().Msg("Source added successfully!")
	},
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all specified sources",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		if len(config.Sources) == 0 {
			fmt.Println("No sources defined.")
			return
		}

		rows := make([][]string, 0, len(config.Sources))
		for _, source := range config.Sources {
			rows = append(rows, []string{source.Name, source.Schema, source.FromTime, source.Path})
		}
		printTable([]string{"Name", "Schema", "FromTime", "Path"}, rows)
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [source name]",
	Short: "Remove a source by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeEntry("sources", args[0]); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to remove source")
			return
		}
		logger.Info().Msg("Source removed successfully!")
	},
}
