package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ConfigPath is the variable which stores the config path command line parameter
	ConfigPath string = DefaultConfigPath
)

// DefaultConfigPath is used when no config flag is passed. A missing file at
// this path is not an error.
const DefaultConfigPath = "config.json"

// Config stores the config for the tool
type Config struct {
	// APIServerAddr address of the inspection server
	APIServerAddr string `json:"server_addr" yaml:"server_addr"`
	// Exploration strategy used by offline planners, one of PREPROCESS|RECURSIVE|NONE
	Exploration string `json:"exploration" yaml:"exploration"`
	// ReportDir directory where run reports are stored. Empty disables reports
	ReportDir string `json:"report_dir" yaml:"report_dir"`
	// Seed for the randomized solvers. 0 seeds from the clock
	Seed uint64 `json:"seed" yaml:"seed"`
	// EnvConfig configuration of the environment
	EnvConfig EnvConfig `json:"env" yaml:"env"`
	// LogConfig configuration for logging
	LogConfig LogConfig `json:"log" yaml:"log"`
}

// EnvConfig selects and parameterizes the environment the agents learn on
type EnvConfig struct {
	// Kind of environment, one of tictactoe|graph
	Kind string `json:"kind" yaml:"kind"`
	// GraphPath of the graph file when Kind is graph
	GraphPath string `json:"graph_path" yaml:"graph_path"`
	// Reward strategy for tictactoe, one of ONTHEFLY|ONCEANDFORALL
	Reward string `json:"reward" yaml:"reward"`
	// MaxDepth bounds recursive exploration, -1 for unbounded
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// MaxBreadth bounds the children visited per state during recursive exploration, -1 for unbounded
	MaxBreadth int `json:"max_breadth" yaml:"max_breadth"`
}

// LogConfig stores the config for logging purpose
type LogConfig struct {
	// Path of the log file
	Path string `json:"path" yaml:"path"`
	// Format to log. Only `json` is currently supported
	Format string `json:"format" yaml:"format"`
	// Level log level, one of panic|fatal|error|warn|warning|info|debug|trace
	Level string `json:"level" yaml:"level"`
}

// Default returns the configuration used when no file is provided
func Default() *Config {
	return &Config{
		APIServerAddr: "0.0.0.0:7074",
		Exploration:   "PREPROCESS",
		ReportDir:     "",
		Seed:          0,
		EnvConfig: EnvConfig{
			Kind:       "tictactoe",
			Reward:     "ONTHEFLY",
			MaxDepth:   -1,
			MaxBreadth: -1,
		},
		LogConfig: LogConfig{
			Path:   "",
			Format: "json",
			Level:  "info",
		},
	}
}

// ParseConfig parses config from the specified file. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func ParseConfig(path string) (*Config, error) {
	defaultConfig := Default()
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
			return defaultConfig, nil
		}
		return nil, fmt.Errorf("error reading config file: %s", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, defaultConfig)
	default:
		err = json.Unmarshal(bytes, defaultConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %s", err)
	}
	return defaultConfig, nil
}
