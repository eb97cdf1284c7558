package utils

type Config struct {
	Sources      []Source      `yaml:"sources"`
	Destinations []Destination `yaml:"destinations"`
	Connections  []Connection  `yaml:"connections"`
	Loader       Loader        `yaml:"loader"`
	LogLevel     string        `yaml:"log_level"`
	Telemetry    bool          `yaml:"telemetry"`
}

type Source struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Schema string `yaml:"schema"`
	// simulation start as wall clock (2006-01-02 15:04:05), run start if empty
	FromTime string `yaml:"from_time,omitempty"`
}

type Destination struct {
	Name            string `yaml:"name"`
	Type            string `yaml:"type"`
	ConnectionURL   string `yaml:"connection_url"`
	TableName       string `yaml:"table_name"`
	SummaryViewName string `yaml:"summary_view_name,omitempty"`
}

type Connection struct {
	Name              string `yaml:"name"`
	Source            string `yaml:"source"`
	Destination       string `yaml:"destination"`
	Strategy          string `yaml:"strategy"`
	BatchSize         int    `yaml:"batch_size,omitempty"`
	SkipIndexCreation bool   `yaml:"skip_index_creation"`
	Cron              string `yaml:"cron,omitempty"`
}

type Loader struct {
	EtaInterval    int    `yaml:"eta_interval"`
	BarWidth       int    `yaml:"bar_width"`
	BarDecimals    int    `yaml:"bar_decimals"`
	PrometheusPort string `yaml:"prometheus_port,omitempty"`
}
