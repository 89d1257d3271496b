package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/spf13/viper"
)

// Config is the top-level hoshin configuration.
type Config struct {
	DBPath     string     `mapstructure:"db_path"`
	Thresholds Thresholds `mapstructure:"thresholds"`
	Output     Output     `mapstructure:"output"`
	Server     Server     `mapstructure:"server"`
	Log        Log        `mapstructure:"log"`
}

// Thresholds tune Kano aggregation and insight generation.
type Thresholds struct {
	StrengthImportance int     `mapstructure:"strength_importance"`
	WeaknessImpact     float64 `mapstructure:"weakness_impact"`
	OpportunityGap     float64 `mapstructure:"opportunity_gap"`
	ThreatPresence     int     `mapstructure:"threat_presence"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Server defines HTTP API settings.
type Server struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// Log defines logging preferences.
type Log struct {
	Level string `mapstructure:"level"`
}

// Kano converts the configured thresholds for the analysis engine.
func (t Thresholds) Kano() kano.Thresholds {
	return kano.Thresholds{
		StrengthImportance: t.StrengthImportance,
		WeaknessImpact:     t.WeaknessImpact,
		OpportunityGap:     t.OpportunityGap,
		ThreatPresence:     t.ThreatPresence,
	}
}

// ShutdownGrace returns the server shutdown timeout as a duration.
func (s Server) ShutdownGrace() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with HOSHIN_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("thresholds.strength_importance", DefaultThresholds.StrengthImportance)
	v.SetDefault("thresholds.weakness_impact", DefaultThresholds.WeaknessImpact)
	v.SetDefault("thresholds.opportunity_gap", DefaultThresholds.OpportunityGap)
	v.SetDefault("thresholds.threat_presence", DefaultThresholds.ThreatPresence)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("server.shutdown_timeout", DefaultServer.ShutdownTimeout)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.SetConfigFile(filepath.Join(ConfigDir(), DefaultConfigFile))
	}

	// A missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	return &cfg, nil
}

// Validate rejects thresholds the engine cannot work with.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.StrengthImportance < 1 || t.StrengthImportance > 5 {
		return fmt.Errorf("thresholds.strength_importance must be in [1, 5], got %d", t.StrengthImportance)
	}
	if t.WeaknessImpact < -1 || t.WeaknessImpact > 1 {
		return fmt.Errorf("thresholds.weakness_impact must be in [-1, 1], got %g", t.WeaknessImpact)
	}
	if t.OpportunityGap <= 0 {
		return fmt.Errorf("thresholds.opportunity_gap must be positive, got %g", t.OpportunityGap)
	}
	if t.ThreatPresence < 1 {
		return fmt.Errorf("thresholds.threat_presence must be at least 1, got %d", t.ThreatPresence)
	}
	return nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
