// Package llm provides the completion-service boundary: vendor
// clients, response parsing, and the caching retry policy every
// analysis task goes through.
package llm

import (
	"context"
	"sync/atomic"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-5"

// CompletionClient sends one request to an external text-generation
// service and returns the raw response text. Implementations classify
// their own transport failures into the ErrorKind set.
type CompletionClient interface {
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)
}

// StubClient returns a pre-seeded response without touching the
// network. It backs the configured offline/test response and counts
// invocations so tests can assert memoization.
type StubClient struct {
	// Response is returned verbatim for every call.
	Response string
	// Err, when set, is returned instead of Response.
	Err error

	calls atomic.Int64
}

// Complete returns the pre-seeded response and bumps the call counter.
func (s *StubClient) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Calls reports how many times Complete was invoked.
func (s *StubClient) Calls() int64 {
	return s.calls.Load()
}
