// Package config loads application configuration from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AccountKey   string
	ClientID     string
	ClientSecret string
	SecretKey    []byte // 32-byte AES-256 key; nil when credential encryption is disabled.

	DBPath     string
	ListenAddr string
	LockPath   string

	PostInterval time.Duration
	InitialDelay time.Duration
	Cooldown     time.Duration
	Workers      int

	OpenAIAPIKey   string
	OpenAIModel    string
	GeneratePrompt string
}

// defaultPrompt seeds on-demand content generation when the repository has
// nothing eligible to publish.
const defaultPrompt = "Generate a LinkedIn post about Elastic Observability for Site Reliability Engineers. " +
	"Focus on how it helps prevent downtime, consolidates tool stacks, and reduces toil."

// HasProviderCredentials returns true when both the OAuth client id and
// secret are configured. The composition root uses this to decide whether
// grant exchange is possible at all.
func (c *Config) HasProviderCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Provider credentials (SOCIALPILOT_CLIENT_ID, SOCIALPILOT_CLIENT_SECRET) and the
// account key are optional at load time; commands that need them validate on use.
// Optional variables with defaults: SOCIALPILOT_POST_INTERVAL (24h),
// SOCIALPILOT_INITIAL_DELAY (1m), SOCIALPILOT_COOLDOWN (720h),
// SOCIALPILOT_WORKERS (4), SOCIALPILOT_LISTEN_ADDR (127.0.0.1:8080),
// SOCIALPILOT_DB_PATH (socialpilot.db), SOCIALPILOT_LOCK_PATH (socialpilot.lock).
func Load() (*Config, error) {
	cfg := &Config{
		AccountKey:     os.Getenv("SOCIALPILOT_ACCOUNT"),
		ClientID:       os.Getenv("SOCIALPILOT_CLIENT_ID"),
		ClientSecret:   os.Getenv("SOCIALPILOT_CLIENT_SECRET"),
		DBPath:         "socialpilot.db",
		ListenAddr:     "127.0.0.1:8080",
		LockPath:       "socialpilot.lock",
		PostInterval:   24 * time.Hour,
		InitialDelay:   time.Minute,
		Cooldown:       720 * time.Hour,
		Workers:        4,
		OpenAIAPIKey:   os.Getenv("SOCIALPILOT_OPENAI_API_KEY"),
		OpenAIModel:    "gpt-4",
		GeneratePrompt: defaultPrompt,
	}

	if v, ok := os.LookupEnv("SOCIALPILOT_SECRET_KEY"); ok && v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("SOCIALPILOT_SECRET_KEY is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("SOCIALPILOT_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SecretKey = key
	}

	for _, d := range []struct {
		env  string
		dest *time.Duration
	}{
		{"SOCIALPILOT_POST_INTERVAL", &cfg.PostInterval},
		{"SOCIALPILOT_INITIAL_DELAY", &cfg.InitialDelay},
		{"SOCIALPILOT_COOLDOWN", &cfg.Cooldown},
	} {
		if v, ok := os.LookupEnv(d.env); ok {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("%s has invalid duration %q: %w", d.env, v, err)
			}
			if parsed <= 0 {
				return nil, fmt.Errorf("%s must be positive, got %q", d.env, v)
			}
			*d.dest = parsed
		}
	}

	if v, ok := os.LookupEnv("SOCIALPILOT_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("SOCIALPILOT_WORKERS must be a positive integer, got %q", v)
		}
		cfg.Workers = n
	}

	if v, ok := os.LookupEnv("SOCIALPILOT_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("SOCIALPILOT_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("SOCIALPILOT_LOCK_PATH"); ok {
		cfg.LockPath = v
	}
	if v, ok := os.LookupEnv("SOCIALPILOT_OPENAI_MODEL"); ok && v != "" {
		cfg.OpenAIModel = v
	}
	if v, ok := os.LookupEnv("SOCIALPILOT_GENERATE_PROMPT"); ok && v != "" {
		cfg.GeneratePrompt = v
	}

	return cfg, nil
}
