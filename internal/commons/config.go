package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"restaurant/internal/config"
)

// LoadConfig reads a YAML config file on top of the environment defaults, so
// a file only needs the keys it changes.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
