package utils

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	StrategyBulkAtEnd   = "bulk-at-end"
	StrategyIncremental = "incremental"

	SchemaProjected  = "projected"
	SchemaGeographic = "geographic"

	FromTimeLayout = "2006-01-02 15:04:05"

	defaultEtaInterval = 60
	defaultBarWidth    = 50
	defaultBarDecimals = 2
)

var (
	logger = DltLogger("config")

	DefaultHomePath = filepath.Join(homeDir(), ".sumo-dlt", "config.yml")
)

//go:embed config_template.yml
var defaultConfig []byte

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func AddNodeToConfig(configNode *yaml.Node, key string, newNode *yaml.Node) {
	var targetNode *yaml.Node
	for i, node := range configNode.Content[0].Content {
		if node.Value == key {
			targetNode = configNode.Content[0].Content[i+1]
			break
		}
	}

	if targetNode != nil {
		targetNode.Content = append(targetNode.Content, newNode)
	} else {
		configNode.Content[0].Content = append(configNode.Content[0].Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{newNode}},
		)
	}
}

func ClearConfig(configPath, section string, namesToRemove []string) error {
	configNode, err := LoadConfigWithComments(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var targetNode *yaml.Node
	for i, node := range configNode.Content[0].Content {
		if node.Value == section {
			targetNode = configNode.Content[0].Content[i+1]
			break
		}
	}

	if targetNode == nil {
		return fmt.Errorf("section %s not found in the config", section)
	}

	var filteredContent []*yaml.Node
	for _, entryNode := range targetNode.Content {
		name := GetNodeValue(*entryNode, "name")
		if !Contains(namesToRemove, name) {
			filteredContent = append(filteredContent, entryNode)
		}
	}
	targetNode.Content = filteredContent

	if err := SaveConfigWithComments(configPath, configNode); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func Contains(slice []string, item string) bool {
	for _, elem := range slice {
		if elem == item {
			return true
		}
	}
	return false
}

func CreateConnectionEntry(connectionName, sourceName, destName, strategy string) yaml.Node {
	content := []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "name"},
		{Kind: yaml.ScalarNode, Value: connectionName},
		{Kind: yaml.ScalarNode, Value: "source"},
		{Kind: yaml.ScalarNode, Value: sourceName},
		{Kind: yaml.ScalarNode, Value: "destination"},
		{Kind: yaml.ScalarNode, Value: destName},
		{Kind: yaml.ScalarNode, Value: "strategy"},
		{Kind: yaml.ScalarNode, Value: strategy},
	}
	if strategy == StrategyIncremental {
		content = append(content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "batch_size"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: PromptBatchSize("\033[36mEnter commit batch size [default 10000]: \033[0m", "10000")},
		)
	}
	content = append(content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "skip_index_creation"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: "false"},
	)
	return yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func CreateDestinationEntry() yaml.Node {
	return yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "name"},
			{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Destination name: \033[0m")},
			{Kind: yaml.ScalarNode, Value: "type"},
			{Kind: yaml.ScalarNode, Value: "postgres"},
			{Kind: yaml.ScalarNode, Value: "connection_url"},
			{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Connection URL: \033[0m")},
			{Kind: yaml.ScalarNode, Value: "table_name"},
			{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Table name: \033[0m")},
			{Kind: yaml.ScalarNode, Value: "summary_view_name"},
			{Kind: yaml.ScalarNode, Value: PromptInputWithDefault("\033[36mEnter Summary view name (default vehicle_summary): \033[0m", "vehicle_summary")},
		},
	}
}

func CreateSourceEntry() yaml.Node {
	schemaName := PromptDropdown("\033[36mSelect schema: \033[0m", []string{SchemaProjected, SchemaGeographic})

	content := []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "name"},
		{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Source name: \033[0m")},
		{Kind: yaml.ScalarNode, Value: "path"},
		{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter path of the FCD output file: \033[0m")},
		{Kind: yaml.ScalarNode, Value: "schema"},
		{Kind: yaml.ScalarNode, Value: schemaName},
	}
	if schemaName == SchemaProjected {
		content = append(content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "from_time"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: PromptFromTime("\033[36mEnter simulation start (YYYY-MM-DD HH:MM:SS): \033[0m")},
		)
	}
	return yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func GetConnectionDetails(config *Config, connectionName string) (Connection, Source, Destination, error) {
	var conn Connection
	var source Source
	var destination Destination
	var connectionFound, sourceFound, destinationFound bool

	for _, c := range config.Connections {
		if c.Name == connectionName {
			conn = c
			connectionFound = true
			break
		}
	}
	if !connectionFound {
		return Connection{}, Source{}, Destination{}, fmt.Errorf("connection %s not found", connectionName)
	}

	for _, src := range config.Sources {
		if src.Name == conn.Source {
			source = src
			sourceFound = true
			break
		}
	}
	for _, dst := range config.Destinations {
		if dst.Name == conn.Destination {
			destination = dst
			destinationFound = true
			break
		}
	}

	if !sourceFound {
		return Connection{}, Source{}, Destination{}, fmt.Errorf("source %s not found for connection %s", conn.Source, connectionName)
	}

	if !destinationFound {
		return Connection{}, Source{}, Destination{}, fmt.Errorf("destination %s not found for connection %s", conn.Destination, connectionName)
	}

	return conn, source, destination, nil
}

// ValidateConnection checks a resolved connection before any pipeline work starts.
func ValidateConnection(conn Connection, source Source, destination Destination) error {
	switch conn.Strategy {
	case StrategyBulkAtEnd:
	case StrategyIncremental:
		if conn.BatchSize <= 0 {
			return fmt.Errorf("connection %s: batch_size must be positive for the %s strategy", conn.Name, conn.Strategy)
		}
	default:
		return fmt.Errorf("connection %s: unknown strategy %q", conn.Name, conn.Strategy)
	}

	switch source.Schema {
	case SchemaProjected:
		if source.FromTime == "" {
			return fmt.Errorf("source %s: from_time is required for the %s schema", source.Name, source.Schema)
		}
		if destination.SummaryViewName == "" {
			return fmt.Errorf("destination %s: summary_view_name is required for the %s schema", destination.Name, source.Schema)
		}
	case SchemaGeographic:
	default:
		return fmt.Errorf("source %s: unknown schema %q", source.Name, source.Schema)
	}

	if source.Path == "" {
		return fmt.Errorf("source %s: path is empty", source.Name)
	}
	if _, err := ParseFromTime(source.FromTime); err != nil {
		return fmt.Errorf("source %s: %w", source.Name, err)
	}

	if destination.Type != "postgres" {
		return fmt.Errorf("destination type not supported: %v", destination.Type)
	}
	if destination.TableName == "" {
		return fmt.Errorf("destination %s: table_name is empty", destination.Name)
	}

	return nil
}

// ParseFromTime returns the zero time for an empty value.
func ParseFromTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(FromTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid from_time %q: expected format YYYY-MM-DD HH:MM:SS", value)
	}
	return t, nil
}

func GetNodeValue(node yaml.Node, key string) string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].Value
		}
	}
	return ""
}

func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized")
	}

	logger.Info().Str("path", configPath).Msg("creating default config")
	return writeDefaultConfig(configPath)
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		logger.Info().Str("path", configPath).Msg("could not find config; creating with default values")
		if err := writeDefaultConfig(configPath); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("created default config at %s, edit it and restart", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig unmarshals raw yaml and fills loader defaults.
func ParseConfig(data []byte) (*Config, error) {
	config := Config{
		Loader: Loader{
			EtaInterval: defaultEtaInterval,
			BarWidth:    defaultBarWidth,
			BarDecimals: defaultBarDecimals,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Loader.EtaInterval <= 0 {
		config.Loader.EtaInterval = defaultEtaInterval
	}
	if config.Loader.BarWidth <= 0 {
		config.Loader.BarWidth = defaultBarWidth
	}
	if config.Loader.BarDecimals < 0 {
		config.Loader.BarDecimals = defaultBarDecimals
	}
	setLogLevel(config.LogLevel)

	return &config, nil
}

func LoadConfigWithComments(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	return &node, nil
}

func SaveConfigWithComments(path string, node *yaml.Node) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()

	return encoder.Encode(node)
}

func writeDefaultConfig(configPath string) error {
	dirPath := filepath.Dir(configPath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories %s: %w", dirPath, err)
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "none":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
