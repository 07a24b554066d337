package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProcessConfig represents the configuration of one external program.
type ProcessConfig struct {
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
}

// ConfigFile represents the structure of tools.yaml.
type ConfigFile struct {
	Renderer ProcessConfig `yaml:"renderer" json:"renderer"`
	Animator ProcessConfig `yaml:"animator" json:"animator"`
}

// DefaultConfig uses Graphviz dot and ImageMagick magick from PATH.
func DefaultConfig() ConfigFile {
	return ConfigFile{
		Renderer: ProcessConfig{Command: "dot"},
		Animator: ProcessConfig{Command: "magick"},
	}
}

// LoadConfig reads a configuration file (YAML or JSON). A missing file yields
// the defaults; empty commands fall back to them as well.
func LoadConfig(path string) (ConfigFile, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read tools config: %w", err)
	}

	var loaded ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &loaded); err != nil {
			return cfg, fmt.Errorf("failed to parse tools.json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return cfg, fmt.Errorf("failed to parse tools.yaml: %w", err)
		}
	}

	if loaded.Renderer.Command != "" {
		cfg.Renderer = loaded.Renderer
	}
	if loaded.Animator.Command != "" {
		cfg.Animator = loaded.Animator
	}
	return cfg, nil
}
