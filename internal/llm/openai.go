package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// OpenAIClient calls the OpenAI chat completions API with JSON response
// format, matching the shape the domain prompts expect.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client with the given API key. baseURL is
// optional and overrides the default endpoint.
func NewOpenAIClient(apiKey, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}, nil
}

// Complete sends one chat completion request and returns the raw
// message text. Failures are classified into the ErrorKind set.
func (c *OpenAIClient) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: toOpenAIMessages(req.Messages),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &Error{Kind: classifyOpenAIError(err), Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindOther, Provider: "openai", Err: fmt.Errorf("empty choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(msgs []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classifyOpenAIError maps SDK errors onto the closed ErrorKind set.
// The temperature-rejection case keys on the API's structured param
// field, falling back to the documented "Unsupported value" body for
// responses that omit it.
func classifyOpenAIError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var apierr *openai.Error
	if !errors.As(err, &apierr) {
		return KindOther
	}
	switch {
	case apierr.StatusCode == 429:
		return KindRateLimited
	case apierr.StatusCode == 400 && apierr.Param == "temperature":
		return KindUnsupportedParameter
	case apierr.StatusCode == 400 && strings.Contains(apierr.Message, "Unsupported value") && strings.Contains(apierr.Message, "temperature"):
		return KindUnsupportedParameter
	default:
		return KindOther
	}
}
