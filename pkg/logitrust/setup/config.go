package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
)

type Config struct {
	GeminiApiKey          string        `env:"GEMINI_API_KEY" required:"true"`
	GeminiModel           string        `env:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiBaseUrl         string        `env:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	ApiIpPort             string        `env:"API_IP_PORT" default:":8501"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" default:"60s"`
	MaxRetries            int           `env:"MAX_RETRIES" default:"2"`
	MaxPlaceLength        int           `env:"MAX_PLACE_LENGTH" default:"200"`
	MaxConcurrentAnalyses int           `env:"MAX_CONCURRENT_ANALYSES" default:"16"`
	SessionTtl            time.Duration `env:"SESSION_TTL" default:"30m"`
	SessionCacheSize      int           `env:"SESSION_CACHE_SIZE" default:"10000"`
	RateLimitPerMinute    int           `env:"RATE_LIMIT_PER_MINUTE" default:"10"`
	RateLimitBurst        int           `env:"RATE_LIMIT_BURST" default:"3"`

	ClientRateLimitPerMinute int `env:"CLIENT_RATE_LIMIT_PER_MINUTE" default:"30"`
	ClientRateLimitBurst     int `env:"CLIENT_RATE_LIMIT_BURST" default:"10"`
}

func NewConfigFromEnv() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	config := &Config{}
	if err := env.Set(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.GeminiApiKey == "" {
		return fmt.Errorf("%s is required", EnvGeminiApiKey)
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("%s is required", EnvGeminiModel)
	}
	if c.ApiIpPort == "" {
		return fmt.Errorf("%s is required", EnvApiIpPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvRequestTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%s must not be negative", EnvMaxRetries)
	}
	if c.MaxPlaceLength <= 0 {
		return fmt.Errorf("%s must be positive", EnvMaxPlaceLength)
	}
	if c.MaxConcurrentAnalyses <= 0 {
		return fmt.Errorf("%s must be positive", EnvMaxConcurrentAnalyses)
	}
	if c.SessionTtl <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTtl)
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionCacheSize)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("%s must not be negative", EnvRateLimitPerMinute)
	}
	if c.RateLimitPerMinute > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("%s must be positive when rate limiting is enabled", EnvRateLimitBurst)
	}
	if c.ClientRateLimitPerMinute < 0 {
		return fmt.Errorf("%s must not be negative", EnvClientRateLimitPerMinute)
	}
	if c.ClientRateLimitPerMinute > 0 && c.ClientRateLimitBurst <= 0 {
		return fmt.Errorf("%s must be positive when rate limiting is enabled", EnvClientRateLimitBurst)
	}

	return nil
}
