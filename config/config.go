package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"animeplan/pkg/logging"
)

type AppConfig struct {
	Port   string `validate:"required,numeric"`
	DBPath string `validate:"required"`

	ShikimoriBaseURL string        `validate:"required,url"`
	UserAgent        string        `validate:"required"`
	HTTPTimeout      time.Duration `validate:"gt=0"`
	UpstreamRPS      float64       `validate:"gt=0"`

	NewsSource  string `validate:"oneof=html rss"`
	NewsURL     string `validate:"required,url"`
	NewsFeedURL string `validate:"required,url"`
	NewsLimit   int    `validate:"gt=0,lte=100"`

	SeasonalLimit int    `validate:"gt=0,lte=50"`
	SeasonalOrder string `validate:"required"`
	Season        string // "<season>_<year>"; empty derives it from the clock

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string `validate:"required"`

	SessionIdleTTL time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// Load reads .env (if present) and the environment. A config that fails
// validation is returned together with the error.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Err(err).Msg("[cfg] no .env file loaded")
	}

	cfg := AppConfig{
		Port:   get("PORT", "8550"),
		DBPath: get("DB_PATH", "anime_plan.db"),

		ShikimoriBaseURL: get("SHIKIMORI_BASE_URL", "https://shikimori.one"),
		UserAgent:        get("USER_AGENT", "AnimeViewerApp/1.0"),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 15*time.Second),
		UpstreamRPS:      getFloat("UPSTREAM_RPS", 5),

		NewsSource:  get("NEWS_SOURCE", "html"),
		NewsURL:     get("NEWS_URL", "https://shikimori.one/forum/news"),
		NewsFeedURL: get("NEWS_FEED_URL", "https://shikimori.one/forum/news.rss"),
		NewsLimit:   getInt("NEWS_LIMIT", 10),

		SeasonalLimit: getInt("SEASONAL_LIMIT", 10),
		SeasonalOrder: get("SEASONAL_ORDER", "ranked"),
		Season:        get("SEASON", ""),

		LLMEndpoint: get("LLM_ENDPOINT", ""),
		LLMAPIKey:   get("LLM_API_KEY", ""),
		LLMModel:    get("LLM_MODEL", "gpt-3.5-turbo"),

		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute),

		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "console"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LLMEnabled reports whether a real generation provider is configured.
func (c AppConfig) LLMEnabled() bool {
	return c.LLMEndpoint != "" && c.LLMAPIKey != ""
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logging.Warn().Str("key", k).Str("value", v).Msg("[cfg] not an integer, using default")
		return def
	}
	return n
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logging.Warn().Str("key", k).Str("value", v).Msg("[cfg] not a number, using default")
		return def
	}
	return f
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logging.Warn().Str("key", k).Str("value", v).Msg("[cfg] not a duration, using default")
		return def
	}
	return d
}
