package config

import (
	"fmt"
	"os"

	"github.com/openock/contexture/internal/core"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a configuration loader. A nil logger defaults to a
// no-op logger.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFromFile loads configuration from a YAML file. A missing file is not
// an error: defaults are returned.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	l.logger.Debug("loaded configuration", zap.String("path", path))
	return cfg, nil
}

// LoadDefaultPath loads configuration from ~/.contexture.yaml.
func (l *Loader) LoadDefaultPath() (*Config, error) {
	return l.LoadFromFile(core.ConfigFile())
}
