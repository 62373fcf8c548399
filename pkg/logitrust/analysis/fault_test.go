package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/logitrust/pkg/logitrust/analysis"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want analysis.FaultKind
	}{
		{"deadline", context.DeadlineExceeded, analysis.FaultTransient},
		{"wrapped deadline", fmt.Errorf("calling model: %w", context.DeadlineExceeded), analysis.FaultTransient},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429, Message: "quota"}, analysis.FaultTransient},
		{"bad gateway", &openai.APIError{HTTPStatusCode: 502}, analysis.FaultTransient},
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, analysis.FaultPermanent},
		{"bad request", &openai.APIError{HTTPStatusCode: 400}, analysis.FaultPermanent},
		{"request error with status", &openai.RequestError{HTTPStatusCode: 403, Err: errors.New("forbidden")}, analysis.FaultPermanent},
		{"request error without status", &openai.RequestError{Err: errors.New("eof")}, analysis.FaultTransient},
		{"network", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")}, analysis.FaultTransient},
		{"malformed", errors.New("invalid character '<' looking for beginning of value"), analysis.FaultPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault := analysis.Classify(tt.err)
			require.NotNil(t, fault)
			assert.Equal(t, tt.want, fault.Kind)
			assert.ErrorIs(t, fault, tt.err)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, analysis.Classify(nil))
	})

	t.Run("existing fault", func(t *testing.T) {
		fault := &analysis.Fault{Kind: analysis.FaultPermanent, Err: analysis.ErrEmptyResponse}
		assert.Same(t, fault, analysis.Classify(fmt.Errorf("wrapped: %w", fault)))
	})
}

func TestFaultKind_String(t *testing.T) {
	assert.Equal(t, "transient", analysis.FaultTransient.String())
	assert.Equal(t, "permanent", analysis.FaultPermanent.String())
	assert.Equal(t, "unknown", analysis.FaultKind(0).String())
}
