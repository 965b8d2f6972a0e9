package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings, so files read "5s"
// rather than nanosecond integers.
type fileConfig struct {
	Version int `yaml:"version"`
	API     struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Dashboard struct {
		PollInterval   string `yaml:"poll_interval"`
		AlertWindow    string `yaml:"alert_window"`
		HistogramHours int    `yaml:"histogram_hours"`
		RecentLogs     int    `yaml:"recent_logs"`
	} `yaml:"dashboard"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

func toFile(cfg *Config) fileConfig {
	var f fileConfig
	f.Version = cfg.Version
	f.API.BaseURL = cfg.API.BaseURL
	f.API.Timeout = cfg.API.Timeout.String()
	f.Dashboard.PollInterval = cfg.Dashboard.PollInterval.String()
	f.Dashboard.AlertWindow = cfg.Dashboard.AlertWindow.String()
	f.Dashboard.HistogramHours = cfg.Dashboard.HistogramHours
	f.Dashboard.RecentLogs = cfg.Dashboard.RecentLogs
	f.Logging = cfg.Logging
	f.Output = cfg.Output
	f.Bridge = cfg.Bridge
	return f
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(toFile(cfg)); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(buf.String()), nil
}

// Write saves cfg to path with a short header comment.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	header := "# camai console configuration\n# Environment variables override these keys, e.g. CAMAI_API_BASE_URL.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetValue updates a single dotted key (e.g. "api.base_url") in an existing
// config file. Comments and key order are preserved; missing sections are
// created.
func SetValue(configPath, key, value string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		last := i == len(parts)-1
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode}
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part}
			node.Content = append(node.Content, keyNode, child)
		}
		if last {
			if child.Kind != yaml.ScalarNode {
				return fmt.Errorf("'%s' is a section, not a value", key)
			}
			child.Value = value
			child.Tag = ""
			child.Style = 0
			break
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		node = child
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
