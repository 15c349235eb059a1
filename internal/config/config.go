package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the unified application configuration
type Config struct {
	DataDir     string `json:"data_dir" validate:"required"`
	DBFile      string `json:"db_file" validate:"required"`
	DefaultView string `json:"default_view" validate:"oneof=notes trash"`
	WatchDB     bool   `json:"watch_db"`
}

// Settings represents the config file structure
type Settings struct {
	DataDir     string `json:"data_dir,omitempty"`
	DBFile      string `json:"db_file,omitempty"`
	DefaultView string `json:"default_view,omitempty"`
	WatchDB     *bool  `json:"watch_db,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	DataDir     string
	DBFile      string
	DefaultView string
	EnvFile     string
}

var validate = validator.New()

// Load loads configuration with priority: CLI flags > env vars > .env file > config file > default
func Load(flags CLIFlags) (*Config, error) {
	defaultDir, err := GetDefaultDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     defaultDir,
		DBFile:      "notes.db",
		DefaultView: "notes",
		WatchDB:     true,
	}

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			if fileConfig.DataDir != "" {
				cfg.DataDir = expandPath(fileConfig.DataDir)
			}
			if fileConfig.DBFile != "" {
				cfg.DBFile = fileConfig.DBFile
			}
			if fileConfig.DefaultView != "" {
				cfg.DefaultView = fileConfig.DefaultView
			}
			if fileConfig.WatchDB != nil {
				cfg.WatchDB = *fileConfig.WatchDB
			}
		}
	}

	// A .env file only fills variables that are not already set
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && flags.EnvFile != "" {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	// Priority 2: Environment variables override config file
	if v := os.Getenv("JETNOTES_DATA_DIR"); v != "" {
		cfg.DataDir = expandPath(v)
	}
	if v := os.Getenv("JETNOTES_DB"); v != "" {
		cfg.DBFile = v
	}
	if v := os.Getenv("JETNOTES_VIEW"); v != "" {
		cfg.DefaultView = v
	}
	if v := os.Getenv("JETNOTES_WATCH"); v != "" {
		cfg.WatchDB = parseBool(v, cfg.WatchDB)
	}

	// Priority 1: CLI flags override everything
	if flags.DataDir != "" {
		cfg.DataDir = expandPath(flags.DataDir)
	}
	if flags.DBFile != "" {
		cfg.DBFile = flags.DBFile
	}
	if flags.DefaultView != "" {
		cfg.DefaultView = flags.DefaultView
	}

	cfg.DefaultView = strings.ToLower(strings.TrimSpace(cfg.DefaultView))
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetDefaultDir returns the default data directory path
func GetDefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "jetnotes"), nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "jetnotes", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureDataDir creates the data directory if missing
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// DBPath returns the database location. An absolute DBFile is used as-is.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, expandPath(c.DBFile))
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	defaultDir, err := GetDefaultDir()
	if err != nil {
		return err
	}

	watch := true
	settings := Settings{
		DataDir:     defaultDir,
		DBFile:      "notes.db",
		DefaultView: "notes",
		WatchDB:     &watch,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
