package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a single config file, providing defaults for the
// connection flags. Explicitly set flags always win over the file values.
type Config struct {
	Site         string `yaml:"site"`
	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`
}

// readConf reads and parses the config file at the given location.
func readConf(loc string) (Config, error) {
	bts, err := os.ReadFile(loc)
	if err != nil {
		return Config{}, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(bts, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	return cfg, nil
}
