package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the analyzer
type Config struct {
	Attribution AttributionConfig
	Archive     ArchiveConfig
	Log         LogConfig
	Families    []FamilyConfig
	Platforms   []PlatformConfig
}

// AttributionConfig holds the attribution policy knobs
type AttributionConfig struct {
	HitRate          float64
	TrustParentLinks bool
}

// ArchiveConfig holds the optional sqlite logbook settings
type ArchiveConfig struct {
	Enabled bool
	Path    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// FamilyConfig replaces the built-in munition family table when present.
// Side may be empty only when an explicit platform list is given.
type FamilyConfig struct {
	Label       string   `mapstructure:"label"`
	Side        string   `mapstructure:"side"`
	Designators []string `mapstructure:"designators"`
	Platforms   []string `mapstructure:"platforms"`
}

// PlatformConfig replaces the built-in platform table when present
type PlatformConfig struct {
	Designator string `mapstructure:"designator"`
	Side       string `mapstructure:"side"`
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("attribution.hit_rate", 0.30)
	v.SetDefault("attribution.trust_parent_links", true)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", "combat_logbook.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Set config file name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Set config file search paths
	v.AddConfigPath("/etc/acmi_stats")
	v.AddConfigPath(".")

	// Check for config file path from environment variable
	if configPath := os.Getenv("ACMI_STATS_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read config file (if it exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults + env vars
	}

	// Set environment variable prefix
	v.SetEnvPrefix("ACMI_STATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		Attribution: AttributionConfig{
			HitRate:          v.GetFloat64("attribution.hit_rate"),
			TrustParentLinks: v.GetBool("attribution.trust_parent_links"),
		},
		Archive: ArchiveConfig{
			Enabled: v.GetBool("archive.enabled"),
			Path:    v.GetString("archive.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	// Classification tables are structured lists, so they only come from the
	// config file, not from environment variables
	if err := v.UnmarshalKey("families", &cfg.Families); err != nil {
		return nil, fmt.Errorf("error parsing families: %w", err)
	}
	if err := v.UnmarshalKey("platforms", &cfg.Platforms); err != nil {
		return nil, fmt.Errorf("error parsing platforms: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.Attribution.HitRate <= 0 || cfg.Attribution.HitRate > 1 {
		return fmt.Errorf("attribution.hit_rate must be in (0, 1], got %v", cfg.Attribution.HitRate)
	}

	if cfg.Archive.Enabled && cfg.Archive.Path == "" {
		return fmt.Errorf("archive.path is required when archive.enabled is set")
	}

	validSides := map[string]bool{
		"western": true,
		"eastern": true,
	}

	for i, fam := range cfg.Families {
		if fam.Label == "" {
			return fmt.Errorf("families[%d]: label is required", i)
		}
		if len(fam.Designators) == 0 {
			return fmt.Errorf("families[%d] (%s): designators are required", i, fam.Label)
		}
		if fam.Side == "" {
			if len(fam.Platforms) == 0 {
				return fmt.Errorf("families[%d] (%s): side or platforms is required", i, fam.Label)
			}
		} else if !validSides[strings.ToLower(fam.Side)] {
			return fmt.Errorf("families[%d] (%s): invalid side: %s (must be western or eastern)", i, fam.Label, fam.Side)
		}
	}

	for i, p := range cfg.Platforms {
		if p.Designator == "" {
			return fmt.Errorf("platforms[%d]: designator is required", i)
		}
		if !validSides[strings.ToLower(p.Side)] {
			return fmt.Errorf("platforms[%d] (%s): invalid side: %s (must be western or eastern)", i, p.Designator, p.Side)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
