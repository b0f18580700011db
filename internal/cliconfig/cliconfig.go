// Package cliconfig loads dbcctl's TOML configuration file with a
// default overlay, the same `toml.DecodeFile` + `meta.IsDefined`
// pattern danmuck-edgectl's miragectl cmd/miragectl/config.go uses:
// start from defaults, then apply only the keys the file actually
// set, so an absent or partial config file is never an error.
package cliconfig

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/candbc/dbc/dbc"
)

// Config is dbcctl's on-disk configuration.
type Config struct {
	// LogLevel is a logrus level name (panic, fatal, error, warn,
	// info, debug, trace). Defaults to "info".
	LogLevel string
	// LogFormat is "json" or "text". Defaults to "text".
	LogFormat string
	// CachePath overrides the default decode cache location under
	// os.UserCacheDir()/dbcctl/last.dbc.
	CachePath string
	// AllowUnknownSender mirrors dbc.Options.AllowUnknownSender.
	AllowUnknownSender bool
	// StrictBoundaries mirrors dbc.Options.StrictBoundaries.
	StrictBoundaries bool
}

// Default returns dbcctl's baked-in defaults.
func Default() Config {
	return Config{
		LogLevel:           "info",
		LogFormat:          "text",
		AllowUnknownSender: true,
		StrictBoundaries:   false,
	}
}

// fileConfig mirrors Config's fields for TOML decoding; absent keys
// are left at their zero value and ignored by Load's meta.IsDefined
// checks rather than overwriting Default()'s values.
type fileConfig struct {
	LogLevel           string `toml:"log_level"`
	LogFormat          string `toml:"log_format"`
	CachePath          string `toml:"cache_path"`
	AllowUnknownSender bool   `toml:"allow_unknown_sender"`
	StrictBoundaries   bool   `toml:"strict_boundaries"`
}

// Load reads path as a TOML document and overlays any keys it defines
// onto Default(). A missing file is not an error: Load returns
// Default() unchanged (matching dbcctl's "works with zero config"
// design goal).
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("cache_path") {
		cfg.CachePath = strings.TrimSpace(raw.CachePath)
	}
	if meta.IsDefined("allow_unknown_sender") {
		cfg.AllowUnknownSender = raw.AllowUnknownSender
	}
	if meta.IsDefined("strict_boundaries") {
		cfg.StrictBoundaries = raw.StrictBoundaries
	}
	return cfg, nil
}

// Options builds a dbc.Options from the parsed config.
func (c Config) Options() dbc.Options {
	opts := dbc.DefaultOptions()
	opts.AllowUnknownSender = c.AllowUnknownSender
	opts.StrictBoundaries = c.StrictBoundaries
	return opts
}
