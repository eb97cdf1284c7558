package commands

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logger     = utils.DltLogger("cmd")
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")
}

var rootCmd = &cobra.Command{
	Use:           "dlt",
	Short:         "Load SUMO floating car data into PostGIS",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		panic(fmt.Errorf("failed to execute root command: %w", err))
	}
}
