package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"recipegrip/internal/paging"
	"recipegrip/internal/source"
)

const (
	appDirName     = "recipegrip"
	configFileName = "config.toml"

	EnvAppID  = "EDAMAM_APP_ID"
	EnvAppKey = "EDAMAM_APP_KEY"
)

// Config represents the application configuration
type Config struct {
	Version     int           `toml:"version"`
	MetricsAddr string        `toml:"metrics_addr" comment:"serve prometheus metrics here when set, e.g. 127.0.0.1:9464"`
	API         APIConfig     `toml:"api"`
	Paging      PagingConfig  `toml:"paging"`
	Breaker     BreakerConfig `toml:"breaker"`
	Log         LogConfig     `toml:"log"`
	UISettings  UISettings    `toml:"ui"`
}

// APIConfig configures the Edamam client
type APIConfig struct {
	BaseURL           string   `toml:"base_url"`
	AppID             string   `toml:"app_id"`
	AppKey            string   `toml:"app_key"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
}

// PagingConfig sizes search sessions
type PagingConfig struct {
	PageSize   int `toml:"page_size"`
	ResultCap  int `toml:"result_cap"`
	WindowSize int `toml:"window_size"`
}

// BreakerConfig configures the circuit breaker in front of the API
type BreakerConfig struct {
	MaxRequests      uint32   `toml:"max_requests"`
	Interval         Duration `toml:"interval"`
	Timeout          Duration `toml:"timeout"`
	FailureThreshold float64  `toml:"failure_threshold"`
	MinRequests      uint32   `toml:"min_requests"`
}

// LogConfig configures the log file
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowCalories bool `toml:"show_calories"`
	ShowSource   bool `toml:"show_source"`
}

// Duration is a time.Duration written as "10s" in TOML
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	*d = Duration(parsed)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service reading and writing path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// DefaultPath returns $XDG_CONFIG_HOME/recipegrip/config.toml or the
// platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appDirName, configFileName)
}

// Load loads the configuration file, falling back to defaults when it does
// not exist yet. Environment credentials override the file.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save invalid config")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// The file may hold API credentials
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// ApplyEnv overrides the API credentials from EDAMAM_APP_ID and EDAMAM_APP_KEY
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAppID)); v != "" {
		c.API.AppID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAppKey)); v != "" {
		c.API.AppKey = v
	}
}

// Validate rejects sizes and limits the application cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Paging.PageSize < 1:
		return errors.Errorf("paging.page_size must be positive, got %d", c.Paging.PageSize)
	case c.Paging.ResultCap < 1:
		return errors.Errorf("paging.result_cap must be positive, got %d", c.Paging.ResultCap)
	case c.Paging.WindowSize < 1:
		return errors.Errorf("paging.window_size must be positive, got %d", c.Paging.WindowSize)
	case c.API.Timeout <= 0:
		return errors.Errorf("api.timeout must be positive, got %s", time.Duration(c.API.Timeout))
	case c.API.RequestsPerMinute < 0:
		return errors.Errorf("api.requests_per_minute must not be negative, got %d", c.API.RequestsPerMinute)
	case c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1:
		return errors.Errorf("breaker.failure_threshold must be in (0, 1], got %g", c.Breaker.FailureThreshold)
	}
	return nil
}

// HasCredentials reports whether the API can be called
func (c *Config) HasCredentials() bool {
	return c.API.AppID != "" && c.API.AppKey != ""
}

// PagingSettings converts the paging section for the controller
func (c *Config) PagingSettings() paging.Settings {
	return paging.Settings{
		PageSize:   c.Paging.PageSize,
		ResultCap:  c.Paging.ResultCap,
		WindowSize: c.Paging.WindowSize,
	}
}

// EdamamConfig converts the api section for the Edamam client
func (c *Config) EdamamConfig() source.EdamamConfig {
	return source.EdamamConfig{
		BaseURL:           c.API.BaseURL,
		AppID:             c.API.AppID,
		AppKey:            c.API.AppKey,
		Timeout:           time.Duration(c.API.Timeout),
		RequestsPerMinute: c.API.RequestsPerMinute,
	}
}

// BreakerSettings converts the breaker section
func (c *Config) BreakerSettings() source.BreakerConfig {
	return source.BreakerConfig{
		Name:             "edamam",
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         time.Duration(c.Breaker.Interval),
		Timeout:          time.Duration(c.Breaker.Timeout),
		FailureThreshold: c.Breaker.FailureThreshold,
		MinRequests:      c.Breaker.MinRequests,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	breaker := source.DefaultBreakerConfig()
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:           source.DefaultBaseURL,
			Timeout:           Duration(10 * time.Second),
			RequestsPerMinute: 10,
		},
		Paging: PagingConfig{
			PageSize:   paging.DefaultPageSize,
			ResultCap:  paging.DefaultResultCap,
			WindowSize: paging.DefaultWindowSize,
		},
		Breaker: BreakerConfig{
			MaxRequests:      breaker.MaxRequests,
			Interval:         Duration(breaker.Interval),
			Timeout:          Duration(breaker.Timeout),
			FailureThreshold: breaker.FailureThreshold,
			MinRequests:      breaker.MinRequests,
		},
		Log: LogConfig{
			File:  "recipegrip.log",
			Level: "info",
		},
		UISettings: UISettings{
			ShowCalories: true,
			ShowSource:   true,
		},
	}
}
