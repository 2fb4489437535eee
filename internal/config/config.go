package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds recommendation backend configuration
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DebounceMillis int    `mapstructure:"debounce_ms"`
	PageSize       int    `mapstructure:"page_size"`
	DefaultSort    string `mapstructure:"default_sort"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000/api",
			TimeoutSeconds: 15,
		},
		UI: UIConfig{
			DebounceMillis: 300,
			PageSize:       20,
			DefaultSort:    "score",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "aniterm", "aniterm.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "aniterm", "aniterm.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "aniterm")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "aniterm")
	}
}

// DefaultDataPath returns the default data directory for the current OS.
// The bbolt store (session + cached lists) lives here.
func DefaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "aniterm")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "aniterm")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("ANITERM")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// First run: write the defaults so the user has a file to edit.
		// Failure here is not fatal; the in-memory defaults still apply.
		_ = SaveConfig(cfg)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("api.base_url", cfg.API.BaseURL)
	viper.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)
	viper.Set("ui.debounce_ms", cfg.UI.DebounceMillis)
	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("ui.default_sort", cfg.UI.DefaultSort)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
