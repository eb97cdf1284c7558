package schema

import (
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/KYVENetwork/sumo-dlt/utils"
)

const (
	maxVehicleIdLength = 20
	maxTypeLength      = 50

	// largest simulation time in seconds that still fits into a time.Duration
	maxSimulationTime = float64(math.MaxInt64 / int64(time.Second))
)

var lanePattern = regexp.MustCompile(`^-?\d+`)

// ParseLane extracts the absolute lane index from a SUMO lane code such as
// "-3merge" or "2". Codes without a leading integer yield an invalid NullInt64.
func ParseLane(code string) (sql.NullInt64, error) {
	match := lanePattern.FindString(code)
	if match == "" {
		return sql.NullInt64{}, nil
	}

	lane, err := strconv.ParseInt(strings.TrimPrefix(match, "-"), 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("%w: lane %q: %v", utils.ErrInvalidRecord, code, err)
	}
	return sql.NullInt64{Int64: lane, Valid: true}, nil
}

// SimulationTimestamp maps a simulation time onto the wall clock. Sub-second
// ticks are truncated so that all samples of one second share a timestamp.
func SimulationTimestamp(baseWallClock time.Time, simTime float64) time.Time {
	return baseWallClock.Add(time.Duration(math.Floor(simTime)) * time.Second)
}

// ParseSimulationTime parses the time attribute of a timestep.
func ParseSimulationTime(value string) (float64, error) {
	return parseFloat("time", value)
}

func parseFloat(field, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", utils.ErrInvalidRecord, field, value)
	}
	return f, nil
}

// transformCommon derives every field except the unit dependent speed.
func transformCommon(raw RawVehicleRecord, simTime float64, baseWallClock time.Time) (TransformedRecord, float64, error) {
	if utf8.RuneCountInString(raw.Id) > maxVehicleIdLength {
		return TransformedRecord{}, 0, fmt.Errorf("%w: vehicle id %q exceeds %d characters", utils.ErrInvalidRecord, raw.Id, maxVehicleIdLength)
	}
	if utf8.RuneCountInString(raw.Type) > maxTypeLength {
		return TransformedRecord{}, 0, fmt.Errorf("%w: vehicle %s: type %q exceeds %d characters", utils.ErrInvalidRecord, raw.Id, raw.Type, maxTypeLength)
	}

	if math.IsNaN(simTime) || math.Abs(simTime) > maxSimulationTime {
		return TransformedRecord{}, 0, fmt.Errorf("%w: vehicle %s: simulation time %v out of range", utils.ErrInvalidRecord, raw.Id, simTime)
	}

	lane, err := ParseLane(raw.Lane)
	if err != nil {
		return TransformedRecord{}, 0, fmt.Errorf("vehicle %s: %w", raw.Id, err)
	}

	fields := [4]struct {
		name  string
		value string
	}{{"x", raw.X}, {"y", raw.Y}, {"angle", raw.Angle}, {"speed", raw.Speed}}
	var parsed [4]float64
	for i, f := range fields {
		if parsed[i], err = parseFloat(f.name, f.value); err != nil {
			return TransformedRecord{}, 0, fmt.Errorf("vehicle %s: %w", raw.Id, err)
		}
	}

	return TransformedRecord{
		VehicleId:      raw.Id,
		Timestamp:      SimulationTimestamp(baseWallClock, simTime),
		SimulationStep: simTime,
		Type:           raw.Type,
		Angle:          parsed[2],
		Lane:           lane,
		Longitude:      parsed[0],
		Latitude:       parsed[1],
	}, parsed[3], nil
}

// roundTo rounds the exact binary value of f, a product like 49.99499...
// must not be pushed to 50 by an intermediate scaling.
func roundTo(f float64, decimals int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', decimals, 64), 64)
	if err != nil {
		return f
	}
	return rounded
}

// placeholders renders n numbered bind parameters starting after offset.
func placeholders(offset, n int) []string {
	p := make([]string, n)
	for i := range p {
		p[i] = "$" + strconv.Itoa(offset+i+1)
	}
	return p
}
