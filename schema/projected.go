package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Projected stores positions as EPSG:3857 points and speeds in km/h. It is
// the only schema with a per-vehicle summary view.
type Projected struct{}

func (t Projected) Name() string {
	return "projected"
}

func (t Projected) Transform(raw RawVehicleRecord, simTime float64, baseWallClock time.Time) (TransformedRecord, error) {
	record, speed, err := transformCommon(raw, simTime, baseWallClock)
	if err != nil {
		return TransformedRecord{}, err
	}
	record.Speed = roundTo(speed*3.6, 2)
	return record, nil
}

func (t Projected) ConvertToArgs(r TransformedRecord) []interface{} {
	return []interface{}{
		r.VehicleId,
		r.Timestamp,
		r.SimulationStep,
		r.Type,
		r.Speed,
		r.Angle,
		r.Lane,
		r.Longitude,
		r.Latitude,
	}
}

func (t Projected) GetColumns() []string {
	return []string{
		"vehicle_id",
		"timestamp",
		"simulation_step",
		"type",
		"speed",
		"angle",
		"lane",
		"position",
	}
}

func (t Projected) GetPostgresValueTemplate(offset int) string {
	p := placeholders(offset, 9)
	return fmt.Sprintf("(%s, ST_Transform(ST_SetSRID(ST_MakePoint(%s, %s), 4326), 3857))",
		strings.Join(p[:7], ", "), p[7], p[8])
}

func (t Projected) GetPostgresDropTableCommand(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", pq.QuoteIdentifier(table))
}

func (t Projected) GetPostgresCreateTableCommand(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id SERIAL PRIMARY KEY,
    vehicle_id VARCHAR(20),
    "timestamp" TIMESTAMP,
    simulation_step DOUBLE PRECISION,
    "type" VARCHAR(50),
    speed DECIMAL(5, 2),
    angle FLOAT,
    lane BIGINT,
    position GEOMETRY(Point, 3857)
    )
    `, pq.QuoteIdentifier(table))
}

func (t Projected) GetPostgresIndexCommands(table string) []string {
	return []string{
		createIndex(table, "vehicle_id"),
		createSpatialIndex(table, "position"),
		createIndex(table, "lane"),
		createIndex(table, "timestamp"),
	}
}

func (t Projected) GetPostgresPostLoadIndexCommands(table string) []string {
	return []string{createIndex(table, "simulation_step")}
}

func (t Projected) GetPostgresDropSummaryCommand(view string) string {
	return fmt.Sprintf("DROP MATERIALIZED VIEW IF EXISTS %s;", pq.QuoteIdentifier(view))
}

// GetPostgresCreateSummaryCommand aggregates trip statistics per vehicle. Both
// route expressions order the points by timestamp, an unordered ST_MakeLine
// would scramble the route shape.
func (t Projected) GetPostgresCreateSummaryCommand(table, view string) string {
	return fmt.Sprintf(`
CREATE MATERIALIZED VIEW %s AS
SELECT
    vehicle_id,
    "type" AS vehicle_type,
    ROUND(AVG(speed)::numeric, 2) AS avg_speed,
    MAX(speed) AS max_speed,
    MIN("timestamp") AS departure_timestamp,
    MAX("timestamp") AS arrival_timestamp,
    MIN(simulation_step) AS departure_simulation_step,
    MAX(simulation_step) AS arrival_simulation_step,
    EXTRACT(EPOCH FROM age(MAX("timestamp"), MIN("timestamp"))) AS travel_duration,
    ROUND((ST_Length(ST_Transform(ST_MakeLine(ST_SetSRID(position, 3857) ORDER BY "timestamp"), 3857))::numeric) / 1000.0, 3) AS route_length,
    ST_SetSRID(ST_MakeLine(ST_SetSRID(position, 3857) ORDER BY "timestamp"), 3857) AS route
FROM
    %s
GROUP BY
    vehicle_id,
    "type";
`, pq.QuoteIdentifier(view), pq.QuoteIdentifier(table))
}

func (t Projected) GetPostgresSummaryIndexCommands(view string) []string {
	return []string{
		createIndex(view, "vehicle_id"),
		createIndex(view, "departure_simulation_step"),
	}
}

func createIndex(relation, column string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s);",
		pq.QuoteIdentifier(relation+"_"+column+"_idx"),
		pq.QuoteIdentifier(relation),
		pq.QuoteIdentifier(column))
}

func createSpatialIndex(relation, column string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s USING GIST (%s);",
		pq.QuoteIdentifier(relation+"_"+column+"_idx"),
		pq.QuoteIdentifier(relation),
		pq.QuoteIdentifier(column))
}
