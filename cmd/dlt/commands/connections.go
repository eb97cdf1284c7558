package commands

import (
	"fmt"
	"strconv"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

func init() {
	connectionsCmd.AddCommand(connectionsAddCmd)
	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsRemoveCmd)

	rootCmd.AddCommand(connectionsCmd)
}

var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Short:   "Add or remove a connection or list all",
	Aliases: []string{"c"},
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new connection",
	Run: func(cmd *cobra.Command, args []string) {
		configNode, err := utils.LoadConfigWithComments(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		sourceName := utils.PromptInput("\033[36mEnter Source name: \033[0m")
		if !valueExists(configNode, sourceName, "sources") {
			logger.Error().Str("source", sourceName).Msg("source does not exist")
			return
		}

		destName := utils.PromptInput("\033[36mEnter Destination name: \033[0m")
		if !valueExists(configNode, destName, "destinations") {
			logger.Error().Str("destination", destName).Msg("destination does not exist")
			return
		}

		name := utils.PromptInput("\033[36mEnter Connection name: \033[0m")
		strategy := utils.PromptDropdown("\033[36mSelect import strategy: \033[0m", []string{utils.StrategyBulkAtEnd, utils.StrategyIncremental})

		if err := addEntry("connections", utils.CreateConnectionEntry(name, sourceName, destName, strategy)); err != nil {
			logger.Error().Str("err", err.Error()).Msg("error saving config")
			return
		}
		logger.Info().Msg("Connection added successfully!")
	},
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all connections",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		if len(config.Connections) == 0 {
			fmt.Println("No connections defined.")
			return
		}

		rows := make([][]string, 0, len(config.Connections))
		for _, c := range config.Connections {
			rows = append(rows, []string{c.Name, c.Source, c.Destination, c.Strategy, strconv.Itoa(c.BatchSize), strconv.FormatBool(c.SkipIndexCreation), c.Cron})
		}
		printTable([]string{"Name", "Source", "Destination", "Strategy", "BatchSize", "SkipIndexes", "Cron"}, rows)
	},
}

var connectionsRemoveCmd = &cobra.Command{
	Use:   "remove [connection name]",
	Short: "Remove a connection by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeEntry("connections", args[0]); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to remove connection")
			return
		}
		logger.Info().Msg("Connection removed successfully!")
	},
}
