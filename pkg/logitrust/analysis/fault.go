package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyResponse = errors.New("model returned no text")

type FaultKind int

const (
	// FaultTransient failures are worth retrying later.
	FaultTransient FaultKind = iota + 1
	// FaultPermanent failures need a configuration change (credential, model, endpoint).
	FaultPermanent
)

func (k FaultKind) String() string {
	switch k {
	case FaultTransient:
		return "transient"
	case FaultPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Fault is a failed remote text-generation call.
type Fault struct {
	Kind FaultKind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s analysis fault: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func (f *Fault) Transient() bool {
	return f.Kind == FaultTransient
}

// Classify wraps err into a Fault. Errors that are already faults are
// returned unchanged; nil stays nil.
func Classify(err error) *Fault {
	if err == nil {
		return nil
	}

	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}

	return &Fault{Kind: classifyKind(err), Err: err}
}

func classifyKind(err error) FaultKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FaultTransient
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.HTTPStatusCode)
	}

	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		if requestErr.HTTPStatusCode == 0 {
			return FaultTransient
		}
		return kindForStatus(requestErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FaultTransient
	}

	return FaultPermanent
}

func kindForStatus(status int) FaultKind {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return FaultTransient
	case status >= http.StatusInternalServerError:
		return FaultTransient
	default:
		return FaultPermanent
	}
}
