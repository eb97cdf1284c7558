package schema

import (
	"database/sql"
	"time"
)

// RawVehicleRecord holds the attributes of one <vehicle> element as found in the source.
type RawVehicleRecord struct {
	Id    string
	Lane  string
	X     string
	Y     string
	Angle string
	Type  string
	Speed string
}

// TimestepGroup holds all vehicle samples of one simulated instant.
type TimestepGroup struct {
	Time     float64
	Vehicles []RawVehicleRecord
}

// TransformedRecord is a vehicle sample ready for a parameterized insert.
type TransformedRecord struct {
	VehicleId      string
	Timestamp      time.Time
	SimulationStep float64
	Type           string
	Speed          float64
	Angle          float64
	Lane           sql.NullInt64
	Longitude      float64
	Latitude       float64
}

type DataSource interface {
	Name() string
	Transform(raw RawVehicleRecord, simTime float64, baseWallClock time.Time) (TransformedRecord, error)
	ConvertToArgs(record TransformedRecord) []interface{}
	GetColumns() []string
	GetPostgresDropTableCommand(table string) string
	GetPostgresCreateTableCommand(table string) string
	GetPostgresIndexCommands(table string) []string
	// GetPostgresValueTemplate returns one VALUES tuple whose placeholders start after offset.
	GetPostgresValueTemplate(offset int) string
}

// SummarySource is implemented by schemas that derive a per-vehicle summary after the load.
type SummarySource interface {
	DataSource
	GetPostgresDropSummaryCommand(view string) string
	GetPostgresCreateSummaryCommand(table, view string) string
	GetPostgresPostLoadIndexCommands(table string) []string
	GetPostgresSummaryIndexCommands(view string) []string
}
