package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/usharma123/ShellHacks2025/internal/cache"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

const (
	// DefaultTimeout bounds one completion call.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxRetries is the general retry budget (attempts = retries+1).
	DefaultMaxRetries = 2
)

// OfflineNotice is the analysis text of the sentinel payload returned
// when no service credential is configured.
const OfflineNotice = "LLM offline: configure an API key or a test response to enable full outputs."

// CallerConfig tunes the retry policy.
type CallerConfig struct {
	// Model is the completion model identifier.
	Model string
	// Temperature is included in requests only when non-nil.
	Temperature *float64
	// Timeout bounds each individual call; DefaultTimeout when zero.
	Timeout time.Duration
	// MaxRetries is the general retry budget. Zero means no retries;
	// a negative value selects DefaultMaxRetries.
	MaxRetries int
}

// Caller is the retry policy wrapping a CompletionClient, the shared
// RequestCache, and the response parser. It is the single path every
// analysis task uses to reach the completion service.
type Caller struct {
	client CompletionClient // nil means offline: no credential configured
	cache  *cache.Cache
	cfg    CallerConfig
}

// NewCaller wires a client, cache, and config into a Caller. A nil
// client puts the caller in offline mode: every Call returns the
// sentinel payload instead of erroring, preserving downstream shape.
func NewCaller(client CompletionClient, c *cache.Cache, cfg CallerConfig) *Caller {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Caller{client: client, cache: c, cfg: cfg}
}

// Model returns the configured model identifier.
func (c *Caller) Model() string {
	return c.cfg.Model
}

// Offline reports whether the caller has no completion client.
func (c *Caller) Offline() bool {
	return c.client == nil
}

// Call resolves one logical request. On a cache hit the payload is
// returned with no external call. On a miss the completion service is
// invoked under the configured timeout: a model that rejects the
// temperature parameter gets exactly one temperature-stripped retry
// outside the general budget, and all other failures are retried
// immediately (no backoff) up to the budget. A successful response is
// parsed and cached. Exhausted retries propagate the last error; this
// layer never fabricates a result for a failed call.
func (c *Caller) Call(ctx context.Context, system, user string) (models.StructuredResult, error) {
	if c.client == nil {
		return models.StructuredResult{
			"analysis": OfflineNotice,
			"model":    c.cfg.Model,
		}, nil
	}

	key := cache.Key(c.cfg.Model, c.cfg.Temperature, system, user)
	if payload, ok := c.cache.Get(key); ok {
		return payload, nil
	}

	raw, err := c.complete(ctx, models.NewPromptRequest(c.cfg.Model, system, user, c.cfg.Temperature, c.cfg.Timeout))
	if err != nil {
		return nil, err
	}

	payload := Parse(raw)
	c.cache.Put(key, payload)
	return payload, nil
}

// complete runs the attempt loop. The downgrade retry rewrites the
// request in place and does not consume the general budget.
func (c *Caller) complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	attempts := c.cfg.MaxRetries + 1
	downgraded := false

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := c.client.Complete(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if req.Temperature != nil && !downgraded && KindOf(err) == KindUnsupportedParameter {
			log.Printf("[caller] model %s rejected temperature, retrying without it", req.Model)
			req.Temperature = nil
			downgraded = true
			attempt-- // free retry
			continue
		}

		if attempt < attempts {
			log.Printf("[caller] attempt %d/%d failed (%s): %v", attempt, attempts, KindOf(err), err)
		}
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", attempts, lastErr)
}
