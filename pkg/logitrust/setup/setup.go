package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NethermindEth/logitrust/pkg/logitrust/debug"
)

type SetupResult struct {
	GeminiApiKey          string
	GeminiModel           string
	GeminiBaseUrl         string
	ApiIpPort             string
	RequestTimeout        time.Duration
	MaxRetries            uint64
	MaxPlaceLength        int
	MaxConcurrentAnalyses int
	SessionTtl            time.Duration
	SessionCacheSize      int
	RateLimitPerMinute    int
	RateLimitBurst        int

	ClientRateLimitPerMinute int
	ClientRateLimitBurst     int
}

func Setup() (*SetupResult, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to get config from env: %w", err)
	}

	setupResult := NewSetupResult(config)

	if debug.IsDebugShowSetup() {
		slog.Info("setup output", "setupOutput", setupResult)
	}

	return setupResult, nil
}

func NewSetupResult(config *Config) *SetupResult {
	return &SetupResult{
		GeminiApiKey:          config.GeminiApiKey,
		GeminiModel:           config.GeminiModel,
		GeminiBaseUrl:         config.GeminiBaseUrl,
		ApiIpPort:             config.ApiIpPort,
		RequestTimeout:        config.RequestTimeout,
		MaxRetries:            uint64(config.MaxRetries),
		MaxPlaceLength:        config.MaxPlaceLength,
		MaxConcurrentAnalyses: config.MaxConcurrentAnalyses,
		SessionTtl:            config.SessionTtl,
		SessionCacheSize:      config.SessionCacheSize,
		RateLimitPerMinute:    config.RateLimitPerMinute,
		RateLimitBurst:        config.RateLimitBurst,

		ClientRateLimitPerMinute: config.ClientRateLimitPerMinute,
		ClientRateLimitBurst:     config.ClientRateLimitBurst,
	}
}

// LogValue keeps the credential out of logs.
func (s *SetupResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("geminiApiKey", redact(s.GeminiApiKey)),
		slog.String("geminiModel", s.GeminiModel),
		slog.String("geminiBaseUrl", s.GeminiBaseUrl),
		slog.String("apiIpPort", s.ApiIpPort),
		slog.Duration("requestTimeout", s.RequestTimeout),
		slog.Uint64("maxRetries", s.MaxRetries),
		slog.Int("maxPlaceLength", s.MaxPlaceLength),
		slog.Int("maxConcurrentAnalyses", s.MaxConcurrentAnalyses),
		slog.Duration("sessionTtl", s.SessionTtl),
		slog.Int("sessionCacheSize", s.SessionCacheSize),
		slog.Int("rateLimitPerMinute", s.RateLimitPerMinute),
		slog.Int("rateLimitBurst", s.RateLimitBurst),
		slog.Int("clientRateLimitPerMinute", s.ClientRateLimitPerMinute),
		slog.Int("clientRateLimitBurst", s.ClientRateLimitBurst),
	)
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}
