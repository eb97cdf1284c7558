package loader

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/destinations"
	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
)

func SetupLoader(configPath, connection string) (*Loader, error) {
	config, err := utils.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}
	return SetupLoaderFromConfig(config, connection)
}

// SetupLoaderFromConfig resolves and validates a connection. The destination
// is not contacted before Start.
func SetupLoaderFromConfig(config *utils.Config, connection string) (*Loader, error) {
	conn, source, destination, err := utils.GetConnectionDetails(config, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to read connection: %v", err)
	}

	if err := utils.ValidateConnection(conn, source, destination); err != nil {
		return nil, err
	}

	var sourceSchema schema.DataSource
	switch source.Schema {
	case utils.SchemaProjected:
		sourceSchema = schema.Projected{}
	case utils.SchemaGeographic:
		sourceSchema = schema.Geographic{}
	default:
		return nil, fmt.Errorf("source schema not supported: %v", source.Schema)
	}

	fromTime, err := utils.ParseFromTime(source.FromTime)
	if err != nil {
		return nil, err
	}

	dest := destinations.NewPostgres(destinations.PostgresConfig{
		ConnectionUrl: destination.ConnectionURL,
		TableName:     destination.TableName,
		Schema:        sourceSchema,
	})

	summaryView := ""
	if _, ok := sourceSchema.(schema.SummarySource); ok {
		summaryView = destination.SummaryViewName
	}

	loaderConfig := Config{
		ConnectionName:    conn.Name,
		SourcePath:        source.Path,
		TableName:         destination.TableName,
		SummaryViewName:   summaryView,
		Strategy:          conn.Strategy,
		BatchSize:         int64(conn.BatchSize),
		SkipIndexCreation: conn.SkipIndexCreation,
		FromTime:          fromTime,
		EtaInterval:       config.Loader.EtaInterval,
		Bar: utils.BarOptions{
			Decimals: config.Loader.BarDecimals,
			Length:   config.Loader.BarWidth,
		},
		Telemetry: config.Telemetry,
	}

	return NewLoader(loaderConfig, sourceSchema, dest), nil
}

// Config returns the resolved loader configuration.
func (loader *Loader) Config() Config {
	return loader.config
}
