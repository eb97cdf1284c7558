package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Geographic stores positions as EPSG:4326 points and keeps the raw m/s speed.
type Geographic struct{}

func (t Geographic) Name() string {
	return "geographic"
}

func (t Geographic) Transform(raw RawVehicleRecord, simTime float64, baseWallClock time.Time) (TransformedRecord, error) {
	record, speed, err := transformCommon(raw, simTime, baseWallClock)
	if err != nil {
		return TransformedRecord{}, err
	}
	record.Speed = speed
	return record, nil
}

func (t Geographic) ConvertToArgs(r TransformedRecord) []interface{} {
	return []interface{}{
		r.VehicleId,
		r.Timestamp,
		r.Type,
		r.Speed,
		r.Angle,
		r.Lane,
		r.Longitude,
		r.Latitude,
	}
}

func (t Geographic) GetColumns() []string {
	return []string{
		"vehicle_id",
		"timestamp",
		"type",
		"speed",
		"angle",
		"lane",
		"geom",
	}
}

func (t Geographic) GetPostgresValueTemplate(offset int) string {
	p := placeholders(offset, 8)
	return fmt.Sprintf("(%s, ST_SetSRID(ST_MakePoint(%s, %s), 4326))",
		strings.Join(p[:6], ", "), p[6], p[7])
}

func (t Geographic) GetPostgresDropTableCommand(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", pq.QuoteIdentifier(table))
}

func (t Geographic) GetPostgresCreateTableCommand(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id SERIAL PRIMARY KEY,
    vehicle_id VARCHAR(20),
    "timestamp" TIMESTAMP,
    "type" VARCHAR(50),
    speed FLOAT,
    angle FLOAT,
    lane BIGINT,
    geom GEOMETRY(Point, 4326)
    )
    `, pq.QuoteIdentifier(table))
}

func (t Geographic) GetPostgresIndexCommands(table string) []string {
	return []string{
		createIndex(table, "vehicle_id"),
		createSpatialIndex(table, "geom"),
		createIndex(table, "lane"),
		createIndex(table, "timestamp"),
	}
}
