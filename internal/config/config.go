package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	API      APIConfig
	Server   ServerConfig
	Storage  StorageConfig
	Log      LogConfig
	Search   SearchConfig
	Pager    PagerConfig
	Services ServicesConfig
	Home     HomeConfig
}

type APIConfig struct {
	BaseURL string
	Timeout string
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type SearchConfig struct {
	Debounce string
}

type PagerConfig struct {
	PageSize int
	Window   int
}

type ServicesConfig struct {
	FetchLimit int
}

type HomeConfig struct {
	ServicesLimit int
	GroupCap      int
}

const (
	defaultTimeout  = 15 * time.Second
	defaultDebounce = 300 * time.Millisecond
)

func defaults() Config {
	return Config{
		API: APIConfig{
			Timeout: defaultTimeout.String(),
		},
		Server: ServerConfig{
			Port: 4300,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Search: SearchConfig{
			Debounce: defaultDebounce.String(),
		},
		Pager: PagerConfig{
			PageSize: 6,
			Window:   5,
		},
		Services: ServicesConfig{
			FetchLimit: 1000,
		},
		Home: HomeConfig{
			ServicesLimit: 12,
			GroupCap:      2,
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.firmsfinder.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/firmsfinder/config.json.
//
// Environment variables (FIRMSFINDER_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("missing required config: API base URL. " +
			"Set it via environment variable FIRMSFINDER_API_BASE_URL " +
			"or `firmsfinder config set api.base_url <url>`")
	}
	if cfg.Pager.PageSize <= 0 {
		return Config{}, fmt.Errorf("pager.page_size must be positive, got %d", cfg.Pager.PageSize)
	}

	return cfg, nil
}

// APITimeout returns the parsed HTTP timeout, falling back to the default on
// malformed values.
func (c Config) APITimeout() time.Duration {
	return parseDurationOr(c.API.Timeout, defaultTimeout)
}

// DebounceDelay returns the settling window of the search box.
func (c Config) DebounceDelay() time.Duration {
	return parseDurationOr(c.Search.Debounce, defaultDebounce)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
