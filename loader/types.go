package loader

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/KYVENetwork/sumo-dlt/destinations"
	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
)

type Config struct {
	ConnectionName    string
	SourcePath        string
	TableName         string
	SummaryViewName   string
	Strategy          string
	BatchSize         int64
	SkipIndexCreation bool
	// zero means the wall clock at run start
	FromTime    time.Time
	EtaInterval int
	Bar         utils.BarOptions
	Telemetry   bool
}

type Loader struct {
	config      Config
	source      schema.DataSource
	destination destinations.Destination

	out io.Writer
	now func() time.Time
}

// opener is implemented by destinations that connect lazily.
type opener interface {
	Open(ctx context.Context) error
}

func NewLoader(config Config, source schema.DataSource, destination destinations.Destination) *Loader {
	if config.EtaInterval <= 0 {
		config.EtaInterval = 60
	}
	return &Loader{
		config:      config,
		source:      source,
		destination: destination,
		out:         os.Stdout,
		now:         time.Now,
	}
}
