// Package config reads the optional dsconv config file, which supplies
// defaults for flags not given on the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mcncl/dsconv/internal/errors"
)

// Config holds the settings recognized in the config file.
type Config struct {
	// Pretty is the default for the -p/--pretty flag. Nil means the key
	// was not set.
	Pretty *bool `toml:"pretty"`
}

// Path returns the expected config file location, or "" when the
// platform has no user config directory.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dsconv", "config.toml")
}

// Load reads the config file at path. A missing file (or an empty path)
// yields the zero config without error; an unreadable or invalid file is
// an error.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return cfg, nil
}
