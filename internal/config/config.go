package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string

	// Summary provider settings
	SummaryProvider     string // "gemini", "openai" or "none"
	GeminiAPIKey        string
	GeminiModel         string
	OpenAIAPIKey        string
	OpenAIModel         string
	MaxSummaryRequests  int // per run, 0 = unlimited
	SummaryMinInterval  time.Duration
	SummarizeTopArticle int // how many top articles get an AI summary

	// Input files
	FeedsConfigPath string
	PresetsPath     string
	RulesDir        string
	Preset          string

	// Scraper settings
	ScrapeConcurrency int
	ImageCacheTTL     time.Duration

	// Storage settings
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseURL    string
	StatePath      string
	OutputDir      string
	RetentionDays  int // stored articles older than this are pruned, 0 keeps all

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	Schedule       string
	Timezone       string
	MonitorPort    string
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SummaryProvider:     getEnvOrDefault("SUMMARY_PROVIDER", "gemini"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		MaxSummaryRequests:  getEnvIntOrDefault("MAX_SUMMARY_REQUESTS", 10),
		SummaryMinInterval:  getEnvDurationOrDefault("SUMMARY_MIN_INTERVAL", 2*time.Second),
		SummarizeTopArticle: getEnvIntOrDefault("SUMMARIZE_TOP", 5),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		FeedsConfigPath: getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		PresetsPath:     getEnvOrDefault("PRESETS_PATH", "configs/presets.yaml"),
		RulesDir:        getEnvOrDefault("RULES_DIR", "configs/rules"),
		Preset:          getEnvOrDefault("PRESET", "default"),

		ScrapeConcurrency: getEnvIntOrDefault("SCRAPE_CONCURRENCY", 8),
		ImageCacheTTL:     time.Duration(getEnvIntOrDefault("CACHE_TTL_HOURS", 48)) * time.Hour,

		DatabaseDriver: getEnvOrDefault("DB_DRIVER", "sqlite"),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", "ainews.db"),
		StatePath:      getEnvOrDefault("STATE_PATH", "last_run.json"),
		OutputDir:      getEnvOrDefault("OUTPUT_DIR", "out"),
		RetentionDays:  getEnvIntOrDefault("RETENTION_DAYS", 90),

		Debug:          os.Getenv("DEBUG") == "true",
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		RetryAttempts:  getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:     getEnvDurationOrDefault("RETRY_DELAY", 5*time.Second),
		Schedule:       getEnvOrDefault("SCHEDULE", "0 8 * * *"),
		Timezone:       getEnvOrDefault("TIMEZONE", "UTC"),
		MonitorPort:    getEnvOrDefault("MONITOR_PORT", "8080"),
	}
	cfg.SummaryProvider = strings.ToLower(cfg.SummaryProvider)

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// TelegramEnabled reports whether both Telegram settings are present.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

func (c *Config) Validate() error {
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	switch c.SummaryProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for SUMMARY_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for SUMMARY_PROVIDER=openai")
		}
	case "none":
	default:
		return fmt.Errorf("SUMMARY_PROVIDER must be 'gemini', 'openai' or 'none'")
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be 'sqlite' or 'postgres'")
	}
	if c.MaxSummaryRequests < 0 {
		return fmt.Errorf("MAX_SUMMARY_REQUESTS must not be negative")
	}
	if c.Schedule == "" {
		return fmt.Errorf("SCHEDULE must not be empty")
	}
	return nil
}
