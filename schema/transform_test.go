package schema

import (
	"testing"
	"time"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func TestParseLane(t *testing.T) {
	tests := []struct {
		code  string
		lane  int64
		valid bool
	}{
		{"-3merge", 3, true},
		{"2", 2, true},
		{"17_0", 17, true},
		{"-0", 0, true},
		{"no-number", 0, false},
		{"", 0, false},
		{":junction_4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			lane, err := ParseLane(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, lane.Valid)
			assert.Equal(t, tt.lane, lane.Int64)
		})
	}
}

func TestParseLaneOverflow(t *testing.T) {
	_, err := ParseLane("99999999999999999999999lane")
	assert.ErrorIs(t, err, utils.ErrInvalidRecord)
}

func TestSimulationTimestampFloorsSubSecondTicks(t *testing.T) {
	assert.Equal(t, base.Add(12*time.Second), SimulationTimestamp(base, 12.9))
	assert.Equal(t, base, SimulationTimestamp(base, 0))
	assert.Equal(t, SimulationTimestamp(base, 5.0), SimulationTimestamp(base, 5.5))
}

func TestProjectedTransform(t *testing.T) {
	raw := RawVehicleRecord{Id: "veh0", Lane: "-3merge", X: "13.40", Y: "45.33", Angle: "90.5", Type: "car", Speed: "10.0"}

	record, err := Projected{}.Transform(raw, 7.5, base)
	require.NoError(t, err)

	assert.Equal(t, "veh0", record.VehicleId)
	assert.Equal(t, base.Add(7*time.Second), record.Timestamp)
	assert.Equal(t, 7.5, record.SimulationStep)
	assert.Equal(t, "car", record.Type)
	assert.Equal(t, 36.0, record.Speed)
	assert.Equal(t, 90.5, record.Angle)
	assert.True(t, record.Lane.Valid)
	assert.Equal(t, int64(3), record.Lane.Int64)
	assert.Equal(t, 13.40, record.Longitude)
	assert.Equal(t, 45.33, record.Latitude)
}

func TestProjectedSpeedIsRounded(t *testing.T) {
	tests := map[string]float64{
		"13.8889": 50.0,
		"13.8875": 49.99,
		"0.3125":  1.12,
		"10":      36.0,
		"0":       0,
	}

	for speed, kmh := range tests {
		t.Run(speed, func(t *testing.T) {
			raw := RawVehicleRecord{Id: "v", Lane: "1", X: "0", Y: "0", Angle: "0", Type: "bus", Speed: speed}

			record, err := Projected{}.Transform(raw, 0, base)
			require.NoError(t, err)
			assert.Equal(t, kmh, record.Speed)
		})
	}
}

func TestTransformRejectsSimulationTimeOutOfRange(t *testing.T) {
	raw := RawVehicleRecord{Id: "v", Lane: "1", X: "0", Y: "0", Angle: "0", Type: "bus", Speed: "1"}

	_, err := Projected{}.Transform(raw, 1e10, base)
	assert.ErrorIs(t, err, utils.ErrInvalidRecord)

	_, err = Geographic{}.Transform(raw, -1e10, base)
	assert.ErrorIs(t, err, utils.ErrInvalidRecord)

	record, err := Geographic{}.Transform(raw, 9e9, base)
	require.NoError(t, err)
	assert.Equal(t, base.Add(9e9*time.Second), record.Timestamp)
}

func TestGeographicKeepsRawSpeed(t *testing.T) {
	raw := RawVehicleRecord{Id: "v", Lane: "lane", X: "1", Y: "2", Angle: "3", Type: "bus", Speed: "13.8889"}

	record, err := Geographic{}.Transform(raw, 1, base)
	require.NoError(t, err)
	assert.Equal(t, 13.8889, record.Speed)
	assert.False(t, record.Lane.Valid)
}

func TestTransformRejectsInvalidRecords(t *testing.T) {
	valid := RawVehicleRecord{Id: "v", Lane: "1", X: "1", Y: "2", Angle: "3", Type: "car", Speed: "4"}

	tests := map[string]func(r *RawVehicleRecord){
		"missing x":     func(r *RawVehicleRecord) { r.X = "" },
		"garbage speed": func(r *RawVehicleRecord) { r.Speed = "fast" },
		"nan angle":     func(r *RawVehicleRecord) { r.Angle = "NaN" },
		"infinite y":    func(r *RawVehicleRecord) { r.Y = "+Inf" },
		"long id":       func(r *RawVehicleRecord) { r.Id = "vehicle_with_a_very_long_id" },
		"long type":     func(r *RawVehicleRecord) { r.Type = string(make([]byte, 51)) },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			raw := valid
			mutate(&raw)

			_, err := Projected{}.Transform(raw, 0, base)
			assert.ErrorIs(t, err, utils.ErrInvalidRecord)

			_, err = Geographic{}.Transform(raw, 0, base)
			assert.ErrorIs(t, err, utils.ErrInvalidRecord)
		})
	}
}

func TestArgsMatchValueTemplate(t *testing.T) {
	record := TransformedRecord{VehicleId: "v"}

	assert.Len(t, Projected{}.ConvertToArgs(record), 9)
	assert.Equal(t,
		"($10, $11, $12, $13, $14, $15, $16, ST_Transform(ST_SetSRID(ST_MakePoint($17, $18), 4326), 3857))",
		Projected{}.GetPostgresValueTemplate(9))

	assert.Len(t, Geographic{}.ConvertToArgs(record), 8)
	assert.Equal(t,
		"($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326))",
		Geographic{}.GetPostgresValueTemplate(0))
}

func TestDDLQuotesIdentifiers(t *testing.T) {
	assert.Equal(t, `DROP TABLE IF EXISTS "fcd data";`, Projected{}.GetPostgresDropTableCommand("fcd data"))
	assert.Equal(t, `DROP TABLE IF EXISTS "fcd";`, Geographic{}.GetPostgresDropTableCommand("fcd"))
	assert.Equal(t, `DROP MATERIALIZED VIEW IF EXISTS "trips";`, Projected{}.GetPostgresDropSummaryCommand("trips"))

	assert.Contains(t, Projected{}.GetPostgresCreateTableCommand("fcd"), "position GEOMETRY(Point, 3857)")
	assert.Contains(t, Geographic{}.GetPostgresCreateTableCommand("fcd"), "geom GEOMETRY(Point, 4326)")

	assert.Contains(t, Projected{}.GetPostgresIndexCommands("fcd"),
		`CREATE INDEX "fcd_position_idx" ON "fcd" USING GIST ("position");`)
	assert.Equal(t, []string{`CREATE INDEX "fcd_simulation_step_idx" ON "fcd" ("simulation_step");`},
		Projected{}.GetPostgresPostLoadIndexCommands("fcd"))
}

func TestSummaryOrdersRouteByTimestamp(t *testing.T) {
	stmt := Projected{}.GetPostgresCreateSummaryCommand("fcd", "trips")
	assert.Contains(t, stmt, `CREATE MATERIALIZED VIEW "trips" AS`)
	assert.Contains(t, stmt, `FROM
    "fcd"`)
	assert.Contains(t, stmt, `ST_MakeLine(ST_SetSRID(position, 3857) ORDER BY "timestamp")`)
}

func TestOnlyProjectedHasSummary(t *testing.T) {
	var projected DataSource = Projected{}
	var geographic DataSource = Geographic{}

	_, ok := projected.(SummarySource)
	assert.True(t, ok)
	_, ok = geographic.(SummarySource)
	assert.False(t, ok)
}
