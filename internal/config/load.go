package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// appName names the config and data directories.
const appName = "stageremote"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/stageremote/config.toml
//  2. ~/.config/stageremote/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Service: ServiceConfig{
			APIURL:         "https://api.stagetimer.io/v1",
			SocketURL:      "https://api.stagetimer.io",
			SocketPath:     "/v1/socket.io",
			ViewerURL:      "https://stagetimer.io",
			RequestTimeout: Duration{15 * time.Second},
		},
		Reconnect: ReconnectConfig{
			MinDelay:   Duration{1 * time.Second},
			MaxDelay:   Duration{30 * time.Second},
			Multiplier: 2,
			Jitter:     0.2,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(xdgConfigHome(home), appName),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STAGEREMOTE_API_URL"); v != "" {
		cfg.Service.APIURL = v
	}
	if v := os.Getenv("STAGEREMOTE_SOCKET_URL"); v != "" {
		cfg.Service.SocketURL = v
	}
	if v := os.Getenv("STAGEREMOTE_VIEWER_URL"); v != "" {
		cfg.Service.ViewerURL = v
	}
	if v := os.Getenv("STAGEREMOTE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STAGEREMOTE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
