package analysis

import "context"

// Analyzer sends a single prompt to a text-generation model and returns the
// full reply. Implementations return failures as *Fault.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}
