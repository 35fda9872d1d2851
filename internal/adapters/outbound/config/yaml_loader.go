package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/addonhub/devhub/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".devhub.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .devhub.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .devhub.yaml from projectPath. Keys missing from the file keep
// their default values; a missing file yields DefaultConfig. A relative
// store_path is resolved against projectPath.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

// StorePath returns cfg.StorePath resolved against projectPath.
func StorePath(projectPath string, cfg domain.Config) string {
	if filepath.IsAbs(cfg.StorePath) {
		return cfg.StorePath
	}
	return filepath.Join(projectPath, cfg.StorePath)
}
