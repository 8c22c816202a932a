package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StoreMemory = "memory"
	StoreBolt   = "bolt"
)

type Config struct {
	Provider       string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	OpenAIEndpoint string
	Model          string
	Temperature    float32
	MaxTokens      int
	RelayTimeout   time.Duration
	SystemPrompt   string

	CatalogFile string

	OfferStore string
	OfferTTL   time.Duration

	LogLevel  string
	LogFormat string

	Port    string
	DataDir string
}

// Load reads configuration from the environment. envFiles are loaded first
// when present; a missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	} else {
		// .env is optional — env vars may already be set (e.g. in production)
		_ = godotenv.Load()
	}

	cfg := &Config{
		Provider:       envOr("RELAY_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIEndpoint: envOr("OPENAI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		Model:          os.Getenv("MODEL"),
		SystemPrompt:   os.Getenv("SYSTEM_PROMPT"),
		CatalogFile:    os.Getenv("CATALOG_FILE"),
		OfferStore:     envOr("OFFER_STORE", StoreMemory),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "json"),
		Port:           envOr("PORT", "8080"),
		DataDir:        envOr("DATA_DIR", "."),
	}

	if cfg.Model == "" {
		switch cfg.Provider {
		case ProviderGemini:
			cfg.Model = "gemini-2.0-flash"
		default:
			cfg.Model = "gpt-3.5-turbo"
		}
	}

	var err error
	if cfg.Temperature, err = parseFloatEnv("TEMPERATURE", 0.6); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = parseIntEnv("MAX_TOKENS", 400); err != nil {
		return nil, err
	}
	if cfg.RelayTimeout, err = parseDurationEnv("RELAY_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.OfferTTL, err = parseDurationEnv("OFFER_TTL", time.Hour); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("RELAY_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, cfg.Provider)
	}
	switch cfg.OfferStore {
	case StoreMemory, StoreBolt:
	default:
		return nil, fmt.Errorf("OFFER_STORE must be %q or %q, got %q", StoreMemory, StoreBolt, cfg.OfferStore)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("MAX_TOKENS must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.OfferTTL <= 0 {
		return nil, fmt.Errorf("OFFER_TTL must be positive, got %s", cfg.OfferTTL)
	}

	return cfg, nil
}

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// APIKeyVar names the environment variable that holds the selected provider's key.
func (c *Config) APIKeyVar() string {
	if c.Provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, def float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return float32(f), nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
