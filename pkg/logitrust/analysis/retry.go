package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 5 * time.Second
)

type RetryOptions struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// RetryingAnalyzer retries transient faults of the wrapped analyzer with
// exponential backoff. Permanent faults are returned after the first attempt.
type RetryingAnalyzer struct {
	analyzer Analyzer
	opts     RetryOptions
}

var _ Analyzer = (*RetryingAnalyzer)(nil)

func NewRetryingAnalyzer(analyzer Analyzer, opts RetryOptions) *RetryingAnalyzer {
	if opts.InitialInterval == 0 {
		opts.InitialInterval = defaultRetryInitialInterval
	}
	if opts.MaxInterval == 0 {
		opts.MaxInterval = defaultRetryMaxInterval
	}

	return &RetryingAnalyzer{
		analyzer: analyzer,
		opts:     opts,
	}
}

func (r *RetryingAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	var text string

	operation := func() error {
		var err error
		text, err = r.analyzer.Analyze(ctx, prompt)
		if err == nil {
			return nil
		}

		fault := Classify(err)
		if !fault.Transient() {
			return backoff.Permanent(fault)
		}
		return fault
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.opts.InitialInterval
	expBackoff.MaxInterval = r.opts.MaxInterval
	expBackoff.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, r.opts.MaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		slog.Warn("transient analysis fault, retrying", "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", Classify(err)
	}

	return text, nil
}
