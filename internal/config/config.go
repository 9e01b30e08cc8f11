package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"-"`
	// Persistence: Redis when RedisURL is set, the state file otherwise.
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
	StateFile   string `yaml:"state_file"`
	// Search - Meilisearch is optional; empty MeiliURL searches through the API only.
	MeiliURL       string `yaml:"meili_url"`
	MeiliSearchKey string `yaml:"meili_search_key"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`

	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func defaults() Config {
	return Config{
		APIURL:         "http://localhost:8080",
		TimeoutSeconds: 30,
		RedisPrefix:    "mentordoc:",
		StateFile:      defaultStateFile(),
		LogLevel:       "warn",
		LogFormat:      "console",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// MENTORDOC_CONFIG (if any), then the environment.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("MENTORDOC_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.APIURL = getenv("MENTORDOC_API_URL", cfg.APIURL)
	cfg.TimeoutSeconds = getenvInt("MENTORDOC_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.RedisPrefix = getenv("MENTORDOC_REDIS_PREFIX", cfg.RedisPrefix)
	cfg.StateFile = getenv("MENTORDOC_STATE_FILE", cfg.StateFile)
	cfg.MeiliURL = getenv("MEILI_URL", cfg.MeiliURL)
	cfg.MeiliSearchKey = getenv("MEILI_SEARCH_KEY", cfg.MeiliSearchKey)
	cfg.LogLevel = getenv("MENTORDOC_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("MENTORDOC_LOG_FORMAT", cfg.LogFormat)

	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".mentordoc", "state.json")
	}
	return filepath.Join(dir, "mentordoc", "state.json")
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
