package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

const anthropicMaxTokens = 8192

// AnthropicClient calls the Anthropic messages API. The domain prompts
// already demand JSON output, so no response-format knob is needed.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a client with the given API key.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	return &AnthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}, nil
}

// Complete sends one messages request and returns the concatenated text
// blocks. Failures are classified into the ErrorKind set.
func (c *AnthropicClient) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserText())),
		},
	}
	if system := req.SystemText(); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &Error{Kind: classifyAnthropicError(err), Provider: "anthropic", Err: err}
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(variant.Text)
		}
	}
	return out.String(), nil
}

func classifyAnthropicError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var apierr *anthropic.Error
	if !errors.As(err, &apierr) {
		return KindOther
	}
	switch {
	// 529 is Anthropic's overloaded status; treat like a rate limit.
	case apierr.StatusCode == 429 || apierr.StatusCode == 529:
		return KindRateLimited
	case apierr.StatusCode == 400 && strings.Contains(strings.ToLower(apierr.Error()), "temperature"):
		return KindUnsupportedParameter
	default:
		return KindOther
	}
}
