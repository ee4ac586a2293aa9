package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the typed application configuration, loaded from the process
// environment under the TRIP_ prefix (TRIP_PORT, TRIP_DATABASE_URL, ...).
type Config struct {
	Port        string `koanf:"port"`
	DatabaseURL string `koanf:"database_url"`
	RedisAddr   string `koanf:"redis_addr"`

	ORSAPIKey string `koanf:"ors_api_key"`

	TextGenAPIKey  string `koanf:"textgen_api_key"`
	TextGenBaseURL string `koanf:"textgen_base_url"`
	TextGenModel   string `koanf:"textgen_model"`

	CollaboratorTimeout time.Duration `koanf:"collaborator_timeout"`
	AnalysisCacheTTL    time.Duration `koanf:"analysis_cache_ttl"`

	SeedPath string `koanf:"seed_path"`
}

const envPrefix = "TRIP_"

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load config: read environment: %w", err)
	}

	cfg := Config{
		Port:                "8080",
		TextGenModel:        "gpt-4o-mini",
		CollaboratorTimeout: 10 * time.Second,
		AnalysisCacheTTL:    15 * time.Minute,
		SeedPath:            "data/seeds/trips.json",
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: unmarshal: %w", err)
	}

	return cfg, nil
}
