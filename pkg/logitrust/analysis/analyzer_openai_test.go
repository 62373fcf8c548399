package analysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/logitrust/pkg/logitrust/analysis"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stream bool `json:"stream"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gemini-test",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	return string(body)
}

func TestOpenAiAnalyzer_Analyze(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got chatRequest
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(chatCompletionBody("주의: 혼잡")))
		})

		analyzer := analysis.NewOpenAiAnalyzer(analysis.OpenAiAnalyzerOptions{
			ApiKey:  "test-key",
			BaseUrl: server.URL + "/",
			Model:   "gemini-test",
			Timeout: 5 * time.Second,
		})

		prompt := analysis.BuildPrompt("서울역")
		text, err := analyzer.Analyze(context.Background(), prompt)
		require.NoError(t, err)
		assert.Equal(t, "주의: 혼잡", text)

		assert.Equal(t, "gemini-test", got.Model)
		assert.False(t, got.Stream)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "user", got.Messages[0].Role)
		assert.Equal(t, prompt, got.Messages[0].Content)
	})

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind analysis.FaultKind
	}{
		{
			name:     "quota exceeded",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"quota exceeded","type":"rate_limit"}}`,
			wantKind: analysis.FaultTransient,
		},
		{
			name:     "server error",
			status:   http.StatusServiceUnavailable,
			body:     `{"error":{"message":"overloaded"}}`,
			wantKind: analysis.FaultTransient,
		},
		{
			name:     "invalid credential",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"API key not valid"}}`,
			wantKind: analysis.FaultPermanent,
		},
		{
			name:     "unknown model",
			status:   http.StatusNotFound,
			body:     `not json`,
			wantKind: analysis.FaultPermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			analyzer := analysis.NewOpenAiAnalyzer(analysis.OpenAiAnalyzerOptions{
				ApiKey:  "test-key",
				BaseUrl: server.URL,
				Model:   "gemini-test",
			})

			text, err := analyzer.Analyze(context.Background(), "prompt")
			assert.Empty(t, text)

			var fault *analysis.Fault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, tt.wantKind, fault.Kind)
		})
	}

	t.Run("empty choices", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
		})

		analyzer := analysis.NewOpenAiAnalyzer(analysis.OpenAiAnalyzerOptions{
			ApiKey:  "test-key",
			BaseUrl: server.URL,
			Model:   "gemini-test",
		})

		_, err := analyzer.Analyze(context.Background(), "prompt")
		require.ErrorIs(t, err, analysis.ErrEmptyResponse)

		var fault *analysis.Fault
		require.ErrorAs(t, err, &fault)
		assert.False(t, fault.Transient())
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		analyzer := analysis.NewOpenAiAnalyzer(analysis.OpenAiAnalyzerOptions{
			ApiKey:  "test-key",
			BaseUrl: server.URL,
			Model:   "gemini-test",
			Timeout: 50 * time.Millisecond,
		})

		_, err := analyzer.Analyze(context.Background(), "prompt")

		var fault *analysis.Fault
		require.ErrorAs(t, err, &fault)
		assert.True(t, fault.Transient())
	})
}
