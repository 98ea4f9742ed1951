// Package config holds the settings of an export run.
package config

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/collmesh/engine/collector"
	"github.com/spaghettifunk/collmesh/engine/core"
)

// Config is read from a TOML file and overridden by command-line flags.
type Config struct {
	// Scene file to export from (.toml, .yaml, .gltf, .glb).
	Input string `toml:"input"`
	// Group to start from. Empty means the master group of the scene.
	Group string `toml:"group"`
	// Pattern selects mesh names; it is matched from the first character.
	Pattern string `toml:"pattern"`
	// Output collmesh file.
	Output string `toml:"output"`

	LogLevel string `toml:"log_level"`
	// Watch re-exports every time Input changes.
	Watch bool `toml:"watch"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input    string
	Group    string
	Pattern  string
	Output   string
	LogLevel string
	Watch    bool
}

// Load reads a TOML config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &core.IOError{Op: "read config", Path: path, Err: err}
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, core.Configurationf("config: parse %s: %v", path, err)
	}
	return cfg, nil
}

// Resolve applies non-empty flags over c and fills in defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.Group != "" {
		c.Group = flags.Group
	}
	if flags.Pattern != "" {
		c.Pattern = flags.Pattern
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Watch {
		c.Watch = true
	}

	// A group given as "file:group" applies unless -group was passed.
	input, group := SplitSceneGroup(c.Input)
	c.Input = input
	if group != "" && flags.Group == "" {
		c.Group = group
	}
	if c.Pattern == "" {
		c.Pattern = collector.DefaultPattern
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that the settings describe a runnable export.
func (c Config) Validate() error {
	if c.Input == "" {
		return core.Configurationf("no input scene given")
	}
	if c.Output == "" {
		return core.Configurationf("no output file given")
	}
	if _, err := collector.CompilePattern(c.Pattern); err != nil {
		return err
	}
	return nil
}

// SplitSceneGroup splits "file[:group]" into its parts. A single letter
// before the colon is kept as a Windows drive, not taken as a file name.
func SplitSceneGroup(arg string) (string, string) {
	i := strings.LastIndex(arg, ":")
	if i <= 1 || i == len(arg)-1 {
		return arg, ""
	}
	return arg[:i], arg[i+1:]
}
