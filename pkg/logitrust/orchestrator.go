package logitrust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/gin-gonic/gin"

	"github.com/NethermindEth/logitrust/pkg/logitrust/analysis"
	"github.com/NethermindEth/logitrust/pkg/logitrust/setup"
)

type Orchestrator struct {
	analyzer  analysis.Analyzer
	pool      pond.ResultPool[string]
	sessions  *sessionGuard
	apiRouter *gin.Engine

	maxPlaceLength int
	apiIpPort      string
}

type OrchestratorConfig struct {
	Analyzer analysis.Analyzer

	MaxPlaceLength        int
	MaxConcurrentAnalyses int
	SessionTtl            time.Duration
	SessionCacheSize      int
	// RateLimitPerMinute of zero disables rate limiting.
	RateLimitPerMinute int
	RateLimitBurst     int
	// ClientRateLimitPerMinute caps requests per client address across all of
	// its sessions. Zero disables it.
	ClientRateLimitPerMinute int
	ClientRateLimitBurst     int
	ApiIpPort                string
}

// Analysis is the rendered outcome of one successful submit. It is never
// stored.
type Analysis struct {
	Place string
	Text  string
}

const (
	defaultMaxPlaceLength        = 200
	defaultMaxConcurrentAnalyses = 16
	defaultSessionTtl            = 30 * time.Minute
	defaultSessionCacheSize      = 10000
	defaultRateLimitBurst        = 1

	shutdownTimeout = 10 * time.Second
)

func NewOrchestrator(config *OrchestratorConfig) (*Orchestrator, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Analyzer == nil {
		return nil, errors.New("analyzer is nil")
	}

	maxPlaceLength := config.MaxPlaceLength
	if maxPlaceLength <= 0 {
		maxPlaceLength = defaultMaxPlaceLength
	}
	maxConcurrentAnalyses := config.MaxConcurrentAnalyses
	if maxConcurrentAnalyses <= 0 {
		maxConcurrentAnalyses = defaultMaxConcurrentAnalyses
	}
	sessionTtl := config.SessionTtl
	if sessionTtl <= 0 {
		sessionTtl = defaultSessionTtl
	}
	sessionCacheSize := config.SessionCacheSize
	if sessionCacheSize <= 0 {
		sessionCacheSize = defaultSessionCacheSize
	}
	rateLimitBurst := config.RateLimitBurst
	if rateLimitBurst <= 0 {
		rateLimitBurst = defaultRateLimitBurst
	}
	clientRateLimitBurst := config.ClientRateLimitBurst
	if clientRateLimitBurst <= 0 {
		clientRateLimitBurst = defaultRateLimitBurst
	}

	sessions := newSessionGuard(sessionCacheSize, sessionTtl,
		limit{perMinute: config.RateLimitPerMinute, burst: rateLimitBurst},
		limit{perMinute: config.ClientRateLimitPerMinute, burst: clientRateLimitBurst},
	)

	orchestrator := &Orchestrator{
		analyzer:  config.Analyzer,
		pool:      pond.NewResultPool[string](maxConcurrentAnalyses),
		sessions:  sessions,
		apiRouter: nil,

		maxPlaceLength: maxPlaceLength,
		apiIpPort:      config.ApiIpPort,
	}

	apiRouter, err := orchestrator.generateRouter()
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	orchestrator.apiRouter = apiRouter

	return orchestrator, nil
}

func NewOrchestratorConfigFromSetupResult(setupResult *setup.SetupResult) (*OrchestratorConfig, error) {
	if setupResult == nil {
		return nil, errors.New("setup result is nil")
	}

	var analyzer analysis.Analyzer = analysis.NewOpenAiAnalyzer(analysis.OpenAiAnalyzerOptions{
		ApiKey:     setupResult.GeminiApiKey,
		BaseUrl:    setupResult.GeminiBaseUrl,
		Model:      setupResult.GeminiModel,
		Timeout:    setupResult.RequestTimeout,
		HttpClient: http.DefaultClient,
	})
	if setupResult.MaxRetries > 0 {
		analyzer = analysis.NewRetryingAnalyzer(analyzer, analysis.RetryOptions{
			MaxRetries: setupResult.MaxRetries,
		})
	}

	return &OrchestratorConfig{
		Analyzer: analyzer,

		MaxPlaceLength:        setupResult.MaxPlaceLength,
		MaxConcurrentAnalyses: setupResult.MaxConcurrentAnalyses,
		SessionTtl:            setupResult.SessionTtl,
		SessionCacheSize:      setupResult.SessionCacheSize,
		RateLimitPerMinute:    setupResult.RateLimitPerMinute,
		RateLimitBurst:        setupResult.RateLimitBurst,

		ClientRateLimitPerMinute: setupResult.ClientRateLimitPerMinute,
		ClientRateLimitBurst:     setupResult.ClientRateLimitBurst,
		ApiIpPort:                setupResult.ApiIpPort,
	}, nil
}

// Start serves the UI until ctx is done or the server fails, then shuts the
// server down and drains in-flight analyses.
func (o *Orchestrator) Start(ctx context.Context) error {
	server, serveErrs, err := o.StartServer()
	if err != nil {
		o.pool.StopAndWait()
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-serveErrs:
		o.pool.StopAndWait()
		return fmt.Errorf("server stopped: %w", err)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}

	o.pool.StopAndWait()

	return ctx.Err()
}

// Analyze validates rawPlace and, when it is usable, asks the analyzer about
// it. Validation failures return *ValidationError without a remote call;
// remote failures return *analysis.Fault.
func (o *Orchestrator) Analyze(ctx context.Context, sessionID string, rawPlace string) (*Analysis, error) {
	place, err := normalizePlace(rawPlace, o.maxPlaceLength)
	if err != nil {
		return nil, err
	}

	release, err := o.sessions.Acquire(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			slog.Warn("analysis rate limited", "session", sessionID)
			return nil, err
		}
		return nil, analysis.Classify(err)
	}
	defer release()

	text, err := o.runAnalysis(ctx, analysis.BuildPrompt(place))
	if err != nil {
		fault := analysis.Classify(err)
		slog.Error("failed to analyze place", "place", place, "kind", fault.Kind, "error", fault.Err)
		return nil, fault
	}

	return &Analysis{
		Place: place,
		Text:  text,
	}, nil
}

func (o *Orchestrator) runAnalysis(ctx context.Context, prompt string) (string, error) {
	result := o.pool.SubmitErr(func() (string, error) {
		return o.analyzer.Analyze(ctx, prompt)
	})

	select {
	case <-result.Done():
		return result.Wait()
	case <-ctx.Done():
		// the session slot is released on return, so the task must be gone
		<-result.Done()
		return "", ctx.Err()
	}
}
