package commands

import (
	"fmt"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"gopkg.in/yaml.v3"
)

func addEntry(section string, entry yaml.Node) error {
	configNode, err := utils.LoadConfigWithComments(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	utils.AddNodeToConfig(configNode, section, &entry)
	return utils.SaveConfigWithComments(configPath, configNode)
}

func removeEntry(section, name string) error {
	configNode, err := utils.LoadConfigWithComments(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !valueExists(configNode, name, section) {
		return fmt.Errorf("%s not found in %s", name, section)
	}
	return utils.ClearConfig(configPath, section, []string{name})
}

func valueExists(configNode *yaml.Node, name, section string) bool {
	for i, node := range configNode.Content[0].Content {
		if node.Value == section && i+1 < len(configNode.Content[0].Content) {
			for _, entry := range configNode.Content[0].Content[i+1].Content {
				if utils.GetNodeValue(*entry, "name") == name {
					return true
				}
			}
		}
	}
	return false
}

// printTable prints left aligned columns sized to their widest value.
func printTable(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, v := range row {
			widths[i] = max(widths[i], len(v))
		}
	}

	line := func(values []string) string {
		s := ""
		for i, v := range values {
			s += fmt.Sprintf("%-*s", widths[i]+2, v)
		}
		return s
	}

	fmt.Printf("\033[36m%s\033[0m\n", line(header))
	for _, row := range rows {
		fmt.Println(line(row))
	}
}
