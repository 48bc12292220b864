package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// Config is the full stageremote configuration.
type Config struct {
	Service   ServiceConfig   `toml:"service"`
	Reconnect ReconnectConfig `toml:"reconnect"`
	Storage   StorageConfig   `toml:"storage"`
	Log       LogConfig       `toml:"log"`
	Presets   []domain.Preset `toml:"presets"`
}

// ServiceConfig locates the stagetimer REST API, push channel and viewer.
type ServiceConfig struct {
	APIURL         string   `toml:"api_url"`
	SocketURL      string   `toml:"socket_url"`
	SocketPath     string   `toml:"socket_path"`
	ViewerURL      string   `toml:"viewer_url"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// ReconnectConfig is the event channel's backoff policy.
type ReconnectConfig struct {
	MinDelay   Duration `toml:"min_delay"`
	MaxDelay   Duration `toml:"max_delay"`
	Multiplier float64  `toml:"multiplier"`
	Jitter     float64  `toml:"jitter"` // fraction of the delay, 0..1
}

// StorageConfig locates the credential file and the widget's shared prefs.
type StorageConfig struct {
	Dir         string `toml:"dir"`
	Credentials string `toml:"credentials"`
	SharedPrefs string `toml:"shared_prefs"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// CredentialsPath returns the credential file, defaulting into Storage.Dir.
func (c *Config) CredentialsPath() string {
	if c.Storage.Credentials != "" {
		return c.Storage.Credentials
	}
	return filepath.Join(c.Storage.Dir, "credentials.yaml")
}

// SharedPrefsPath returns the widget prefs file, defaulting into Storage.Dir.
func (c *Config) SharedPrefsPath() string {
	if c.Storage.SharedPrefs != "" {
		return c.Storage.SharedPrefs
	}
	return filepath.Join(c.Storage.Dir, "StageTimerPrefs.toml")
}

// LogPath returns the log file, defaulting into Storage.Dir.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.Dir, "stageremote.log")
}

// LogLevel maps Log.Level to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PresetList returns the configured presets, or the defaults.
func (c *Config) PresetList() []domain.Preset {
	if len(c.Presets) == 0 {
		return domain.DefaultPresets
	}
	return c.Presets
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"service.api_url":    c.Service.APIURL,
		"service.socket_url": c.Service.SocketURL,
		"service.viewer_url": c.Service.ViewerURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("%s: invalid url %q", name, raw))
		}
	}
	if !strings.HasPrefix(c.Service.SocketPath, "/") {
		errs = append(errs, fmt.Errorf("service.socket_path: must start with /, got %q", c.Service.SocketPath))
	}
	if c.Reconnect.MinDelay.Duration <= 0 {
		errs = append(errs, errors.New("reconnect.min_delay: must be positive"))
	}
	if c.Reconnect.MaxDelay.Duration < c.Reconnect.MinDelay.Duration {
		errs = append(errs, errors.New("reconnect.max_delay: must not be below min_delay"))
	}
	if c.Reconnect.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("reconnect.multiplier: must be >= 1, got %v", c.Reconnect.Multiplier))
	}
	if c.Reconnect.Jitter < 0 || c.Reconnect.Jitter > 1 {
		errs = append(errs, fmt.Errorf("reconnect.jitter: must be within [0,1], got %v", c.Reconnect.Jitter))
	}
	if c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir: must be set"))
	}
	for i, p := range c.Presets {
		if strings.TrimSpace(p.Label) == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: label is required", i))
		}
		if p.Hours < 0 || p.Minutes < 0 || p.Seconds < 0 || p.Hours+p.Minutes+p.Seconds == 0 {
			errs = append(errs, fmt.Errorf("presets[%d] %q: duration must be positive", i, p.Label))
		}
	}
	return errors.Join(errs...)
}
