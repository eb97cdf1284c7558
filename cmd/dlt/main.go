package main

import (
	"github.com/KYVENetwork/sumo-dlt/cmd/dlt/commands"
	"github.com/rs/zerolog"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	commands.Execute()
}
