package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

/*
Config precedence, highest to lowest:

 1. Environment variables (RALPH_* — secrets and crucial overrides)
 2. Local project config (./.ralph.yaml)
 3. Global user config ($XDG_CONFIG_HOME/ralph/ralph.yaml)
 4. Default values

A .env file in the working directory (or ~/.ralph.env) is loaded before the
environment is read, so the API token can live outside the shell profile.
*/

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key      string // key in the config
	envVar   string // environment variable name
	isSecret bool   // whether to redact in logs
}

var envVars = []envVarConfig{
	{key: "api.token", envVar: "RALPH_API_TOKEN", isSecret: true},
	{key: "api.baseUrl", envVar: "RALPH_API_BASE_URL"},
}

// RuntimeOverrides holds configuration values that can be overridden at
// runtime via CLI flags.
type RuntimeOverrides struct {
	LogLevel *string
	LogFile  *string
	BaseURL  *string
}

// New loads, merges and validates the configuration.
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	loadEnv()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RALPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env.envVar, err)
		}
	}

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	var cfg ConfigSchema
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if overrides != nil {
		if overrides.LogLevel != nil {
			cfg.Log.LogLevel = *overrides.LogLevel
		}
		if overrides.LogFile != nil {
			cfg.Log.LogFile = *overrides.LogFile
		}
		if overrides.BaseURL != nil {
			cfg.API.BaseURL = *overrides.BaseURL
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseUrl", "https://api.meridianesg.io")
	v.SetDefault("api.token", "")
	v.SetDefault("log.logLevel", "INFO")
	v.SetDefault("log.logFile", "")
	v.SetDefault("dbPath", defaultDBPath())
}

func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "ralph.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "ralph", "ralph.db")
}

func globalConfigPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "ralph", "ralph.yaml")
}

// mergeConfigFiles layers the global config then the local one on top of the
// defaults. Missing files are fine; unreadable ones are not.
func mergeConfigFiles(v *viper.Viper) error {
	paths := []string{globalConfigPath(), ".ralph.yaml"}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	return nil
}

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		// No project .env; fall back to the user-level one.
		if home, err := os.UserHomeDir(); err == nil {
			_ = godotenv.Load(filepath.Join(home, ".ralph.env"))
		}
	}
}

// Redacted returns a copy safe for printing: secret values are masked.
func (c ConfigSchema) Redacted() ConfigSchema {
	out := c
	if out.API.Token != "" {
		out.API.Token = "[REDACTED]"
	}
	return out
}
