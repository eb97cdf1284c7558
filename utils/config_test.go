package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigTemplate(t *testing.T) {
	config, err := ParseConfig(defaultConfig)
	require.NoError(t, err)

	assert.NotEmpty(t, config.Sources)
	assert.NotEmpty(t, config.Destinations)
	assert.NotEmpty(t, config.Connections)
	assert.Equal(t, 60, config.Loader.EtaInterval)
	assert.Equal(t, 50, config.Loader.BarWidth)
	assert.Equal(t, 2, config.Loader.BarDecimals)

	for _, c := range config.Connections {
		conn, src, dst, err := GetConnectionDetails(config, c.Name)
		require.NoError(t, err, c.Name)
		assert.NoError(t, ValidateConnection(conn, src, dst), c.Name)
	}
}

func TestParseConfigFillsLoaderDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("loader:\n  bar_width: 20\n"))
	require.NoError(t, err)

	assert.Equal(t, 20, config.Loader.BarWidth)
	assert.Equal(t, defaultEtaInterval, config.Loader.EtaInterval)
	assert.Equal(t, defaultBarDecimals, config.Loader.BarDecimals)
}

func TestParseConfigRejectsInvalidYaml(t *testing.T) {
	_, err := ParseConfig([]byte("sources: [unterminated"))
	assert.Error(t, err)
}

func TestGetConnectionDetails(t *testing.T) {
	config := &Config{
		Sources:      []Source{{Name: "src"}},
		Destinations: []Destination{{Name: "dst"}},
		Connections: []Connection{
			{Name: "ok", Source: "src", Destination: "dst"},
			{Name: "no_source", Source: "missing", Destination: "dst"},
			{Name: "no_destination", Source: "src", Destination: "missing"},
		},
	}

	conn, src, dst, err := GetConnectionDetails(config, "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", conn.Name)
	assert.Equal(t, "src", src.Name)
	assert.Equal(t, "dst", dst.Name)

	_, _, _, err = GetConnectionDetails(config, "unknown")
	assert.ErrorContains(t, err, "connection unknown not found")
	_, _, _, err = GetConnectionDetails(config, "no_source")
	assert.ErrorContains(t, err, "source missing not found")
	_, _, _, err = GetConnectionDetails(config, "no_destination")
	assert.ErrorContains(t, err, "destination missing not found")
}

func TestValidateConnection(t *testing.T) {
	conn := Connection{Name: "c", Strategy: StrategyIncremental, BatchSize: 100}
	source := Source{Name: "s", Path: "fcd.xml", Schema: SchemaProjected, FromTime: "2024-03-01 08:00:00"}
	destination := Destination{Name: "d", Type: "postgres", TableName: "fcd", SummaryViewName: "trips"}

	require.NoError(t, ValidateConnection(conn, source, destination))

	tests := map[string]func(c *Connection, s *Source, d *Destination){
		"unknown strategy":   func(c *Connection, s *Source, d *Destination) { c.Strategy = "streaming" },
		"zero batch size":    func(c *Connection, s *Source, d *Destination) { c.BatchSize = 0 },
		"unknown schema":     func(c *Connection, s *Source, d *Destination) { s.Schema = "mercator" },
		"missing from_time":  func(c *Connection, s *Source, d *Destination) { s.FromTime = "" },
		"bad from_time":      func(c *Connection, s *Source, d *Destination) { s.FromTime = "01.03.2024" },
		"missing summary":    func(c *Connection, s *Source, d *Destination) { d.SummaryViewName = "" },
		"empty path":         func(c *Connection, s *Source, d *Destination) { s.Path = "" },
		"unsupported type":   func(c *Connection, s *Source, d *Destination) { d.Type = "big_query" },
		"missing table name": func(c *Connection, s *Source, d *Destination) { d.TableName = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c, s, d := conn, source, destination
			mutate(&c, &s, &d)
			assert.Error(t, ValidateConnection(c, s, d))
		})
	}
}

func TestValidateConnectionBulkIgnoresBatchSize(t *testing.T) {
	conn := Connection{Name: "c", Strategy: StrategyBulkAtEnd}
	source := Source{Name: "s", Path: "fcd.xml.gz", Schema: SchemaGeographic}
	destination := Destination{Name: "d", Type: "postgres", TableName: "fcd"}

	assert.NoError(t, ValidateConnection(conn, source, destination))
}

func TestParseFromTime(t *testing.T) {
	zero, err := ParseFromTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	parsed, err := ParseFromTime("2024-03-01 08:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T08:00:00Z", parsed.Format("2006-01-02T15:04:05Z07:00"))
}
