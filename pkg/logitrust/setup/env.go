package setup

const (
	EnvGeminiApiKey          = "GEMINI_API_KEY"
	EnvGeminiModel           = "GEMINI_MODEL"
	EnvGeminiBaseUrl         = "GEMINI_BASE_URL"
	EnvApiIpPort             = "API_IP_PORT"
	EnvRequestTimeout        = "REQUEST_TIMEOUT"
	EnvMaxRetries            = "MAX_RETRIES"
	EnvMaxPlaceLength        = "MAX_PLACE_LENGTH"
	EnvMaxConcurrentAnalyses = "MAX_CONCURRENT_ANALYSES"
	EnvSessionTtl            = "SESSION_TTL"
	EnvSessionCacheSize      = "SESSION_CACHE_SIZE"
	EnvRateLimitPerMinute    = "RATE_LIMIT_PER_MINUTE"
	EnvRateLimitBurst        = "RATE_LIMIT_BURST"

	EnvClientRateLimitPerMinute = "CLIENT_RATE_LIMIT_PER_MINUTE"
	EnvClientRateLimitBurst     = "CLIENT_RATE_LIMIT_BURST"

	// DotEnvFile is loaded when present; variables already set win.
	DotEnvFile = ".env"
)
