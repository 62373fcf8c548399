package analysis

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultGeminiBaseUrl is Gemini's OpenAI-compatible endpoint.
const DefaultGeminiBaseUrl = "https://generativelanguage.googleapis.com/v1beta/openai"

type OpenAiAnalyzer struct {
	model   string
	timeout time.Duration
	client  *openai.Client
}

var _ Analyzer = (*OpenAiAnalyzer)(nil)

type OpenAiAnalyzerOptions struct {
	ApiKey  string
	BaseUrl string
	Model   string
	// Timeout bounds a single request. Zero means no per-request deadline.
	Timeout    time.Duration
	HttpClient *http.Client
}

func NewOpenAiAnalyzer(opts OpenAiAnalyzerOptions) *OpenAiAnalyzer {
	config := openai.DefaultConfig(opts.ApiKey)
	config.BaseURL = DefaultGeminiBaseUrl
	if opts.BaseUrl != "" {
		config.BaseURL = strings.TrimSuffix(opts.BaseUrl, "/")
	}
	if opts.HttpClient != nil {
		config.HTTPClient = opts.HttpClient
	}

	return &OpenAiAnalyzer{
		model:   opts.Model,
		timeout: opts.Timeout,
		client:  openai.NewClientWithConfig(config),
	}
}

func (a *OpenAiAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", Classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &Fault{Kind: FaultPermanent, Err: ErrEmptyResponse}
	}

	return resp.Choices[0].Message.Content, nil
}
