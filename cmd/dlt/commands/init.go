package commands

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dlt",
	Run: func(cmd *cobra.Command, args []string) {
		if err := utils.InitConfig(configPath); err != nil {
			logger.Error().Msg(err.Error())
			return
		}

		if !utils.PromptConfirm("\nDo you want to create a connection now? [y/N]: ") {
			fmt.Printf("\nDefault config written to \033[36m%s\033[0m\n", configPath)
			return
		}

		configNode, err := utils.LoadConfigWithComments(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		sourceName := utils.SelectEntry(configNode, "sources")
		if sourceName == "custom" {
			newSource := utils.CreateSourceEntry()
			utils.AddNodeToConfig(configNode, "sources", &newSource)
			sourceName = utils.GetNodeValue(newSource, "name")
		}

		newDestination := utils.CreateDestinationEntry()
		utils.AddNodeToConfig(configNode, "destinations", &newDestination)

		strategy := utils.PromptDropdown("\033[36mSelect import strategy: \033[0m", []string{utils.StrategyBulkAtEnd, utils.StrategyIncremental})
		newConnection := utils.CreateConnectionEntry("connection_1", sourceName, utils.GetNodeValue(newDestination, "name"), strategy)
		utils.AddNodeToConfig(configNode, "connections", &newConnection)

		if err := utils.SaveConfigWithComments(configPath, configNode); err != nil {
			logger.Error().Str("err", err.Error()).Msg("error saving config")
			return
		}

		// Remove example entries
		if err := utils.ClearConfig(configPath, "destinations", []string{"postgis_example"}); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to clear config template")
			return
		}
		if err := utils.ClearConfig(configPath, "connections", []string{"connection_example", "connection_incremental_example"}); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to clear config template")
			return
		}

		fmt.Println("\nSuccessfully initialized and created first connection \033[36m`connection_1`\033[0m!")

		fmt.Println("\nTo start an import, run one of the following commands: \n" +
			"\033[32m" +
			"dlt load --connection connection_1\n" +
			"dlt schedule --connection connection_1\n" +
			"\033[0m")

		fmt.Println("To manage your config, run one of the following commands: \n" +
			"\033[32m" +
			"dlt sources {add|remove|list}\n" +
			"dlt destinations {add|remove|list}\n" +
			"dlt connections {add|remove|list}" +
			"\033[0m")
	},
}
