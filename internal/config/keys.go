package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "api.base_url", typ: kString, env: "FIRMSFINDER_API_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.API.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.API.BaseURL },
	},
	{
		key: "api.timeout", typ: kString, env: "FIRMSFINDER_API_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.API.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.API.Timeout },
	},
	{
		key: "server.port", typ: kInt, env: "FIRMSFINDER_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.data_dir", typ: kString, env: "FIRMSFINDER_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "FIRMSFINDER_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "search.debounce", typ: kString, env: "FIRMSFINDER_SEARCH_DEBOUNCE",
		apply:   func(cfg *Config, v any) { cfg.Search.Debounce = v.(string) },
		extract: func(cfg Config) any { return cfg.Search.Debounce },
	},
	{
		key: "pager.page_size", typ: kInt, env: "FIRMSFINDER_PAGER_PAGE_SIZE",
		apply:   func(cfg *Config, v any) { cfg.Pager.PageSize = v.(int) },
		extract: func(cfg Config) any { return cfg.Pager.PageSize },
	},
	{
		key: "pager.window", typ: kInt, env: "FIRMSFINDER_PAGER_WINDOW",
		apply:   func(cfg *Config, v any) { cfg.Pager.Window = v.(int) },
		extract: func(cfg Config) any { return cfg.Pager.Window },
	},
	{
		key: "services.fetch_limit", typ: kInt, env: "FIRMSFINDER_SERVICES_FETCH_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Services.FetchLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Services.FetchLimit },
	},
	{
		key: "home.services_limit", typ: kInt, env: "FIRMSFINDER_HOME_SERVICES_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Home.ServicesLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Home.ServicesLimit },
	},
	{
		key: "home.group_cap", typ: kInt, env: "FIRMSFINDER_HOME_GROUP_CAP",
		apply:   func(cfg *Config, v any) { cfg.Home.GroupCap = v.(int) },
		extract: func(cfg Config) any { return cfg.Home.GroupCap },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
