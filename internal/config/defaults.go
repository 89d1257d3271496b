// Package config provides configuration loading and defaults for hoshin.
package config

import "github.com/blackwell-systems/hoshin/internal/kano"

// DefaultConfigDir is the default location for hoshin configuration.
const DefaultConfigDir = "~/.config/hoshin"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "hoshin.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix for environment variable overrides, e.g.
// HOSHIN_SERVER_ADDR.
const EnvPrefix = "HOSHIN"

// DefaultThresholds holds the default Kano analysis thresholds.
var DefaultThresholds = kano.DefaultThresholds()

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultServer holds the default HTTP server settings.
var DefaultServer = Server{
	Addr:            "127.0.0.1:8340",
	ShutdownTimeout: 10,
}

// DefaultLogLevel is the default zerolog level name.
const DefaultLogLevel = "info"
