// Package config loads the mp3strip YAML configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/ghetzel/go-stockutil/pathutil"
	"github.com/ghodss/yaml"
	"github.com/mcuadros/go-defaults"
)

// DefaultPath is where the configuration is looked for when no path is given.
const DefaultPath = `~/.config/mp3strip/mp3strip.yml`

// Config holds the settings for a batch run. Command line flags override
// whatever is loaded here.
type Config struct {
	Directory       string `json:"directory"         default:"../audio/"`
	Debug           bool   `json:"debug"`
	Backend         string `json:"backend"           default:"native"`
	Verify          bool   `json:"verify"`
	PreserveModTime bool   `json:"preserve_mod_time"`
	LogLevel        string `json:"log_level"         default:"info"`
}

// New returns a Config with every default applied.
func New() *Config {
	var config Config
	defaults.SetDefaults(&config)
	return &config
}

// Load reads the configuration at path. A missing file is not an error,
// defaults are returned instead.
func Load(path string) (*Config, error) {
	filename, err := pathutil.ExpandUser(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return New(), nil
	} else if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and fills unset fields with defaults.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	defaults.SetDefaults(&config)

	if expanded, err := pathutil.ExpandUser(config.Directory); err == nil {
		config.Directory = expanded
	} else {
		return nil, err
	}

	return &config, nil
}
