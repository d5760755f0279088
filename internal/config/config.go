// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// appName names the config and data directories.
const appName = "todolist"

// Gateway modes.
const (
	GatewayLocal  = "local"
	GatewayRemote = "remote"
)

// DefaultUserID is the single user the application runs as unless
// configured otherwise.
const DefaultUserID = "112"

// Config represents the application configuration.
type Config struct {
	User    UserConfig    `yaml:"user"`
	Gateway GatewayConfig `yaml:"gateway"`
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
}

// UserConfig identifies whose tasks are shown.
type UserConfig struct {
	ID string `yaml:"id"`
}

// GatewayConfig selects where tasks and projects live.
type GatewayConfig struct {
	// Mode is "local" (document store on disk) or "remote" (document server).
	Mode    string `yaml:"mode"`
	DataDir string `yaml:"data_dir,omitempty"` // local mode; defaults under DataDir()
	URL     string `yaml:"url,omitempty"`      // remote mode
}

// ServerConfig holds `todolist serve` settings.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	VimMode       bool   `yaml:"vim_mode"`
	StartView     string `yaml:"start_view,omitempty"` // inbox, today, next_7 or a projectId
	Notifications bool   `yaml:"notifications"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path  string `yaml:"path,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		User:    UserConfig{ID: DefaultUserID},
		Gateway: GatewayConfig{Mode: GatewayLocal},
		Server:  ServerConfig{Addr: "127.0.0.1:7766", Metrics: true},
		UI: UIConfig{
			VimMode:       true,
			StartView:     "inbox",
			Notifications: true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the default config file.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path.
// If the file doesn't exist, returns a default configuration.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to path.
func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks field combinations that would fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User.ID) == "" {
		return errors.New("user.id must not be empty")
	}
	switch c.Gateway.Mode {
	case GatewayLocal:
	case GatewayRemote:
		if c.Gateway.URL == "" {
			return errors.New("gateway.url is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown gateway.mode %q (want %q or %q)", c.Gateway.Mode, GatewayLocal, GatewayRemote)
	}
	return nil
}

// StoreDir returns the local document store directory, falling back to
// <data dir>/store.
func (c *Config) StoreDir() (string, error) {
	if c.Gateway.DataDir != "" {
		return expandHome(c.Gateway.DataDir)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "store"), nil
}

// LogPath returns the debug log path, or "" when logging is off.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path == "" {
		return "", nil
	}
	return expandHome(c.Log.Path)
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
