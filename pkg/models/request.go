// Package models contains the shared plain types passed between the
// completion layer, the orchestrator, and the API surface.
package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem is the instruction message that frames the call.
	RoleSystem Role = "system"
	// RoleUser is the prompt message carrying the actual request.
	RoleUser Role = "user"
	// RoleAssistant is a model-generated message.
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one call to the completion service.
type CompletionRequest struct {
	// Model is the provider-specific model identifier.
	Model string `json:"model"`
	// Messages is the ordered system/user message pair.
	Messages []Message `json:"messages"`
	// Temperature is included only when explicitly configured.
	// Some models reject the parameter outright.
	Temperature *float64 `json:"temperature,omitempty"`
	// Timeout bounds the individual call. Zero means no bound.
	Timeout time.Duration `json:"-"`
}

// NewPromptRequest builds a CompletionRequest from a system/user prompt pair.
func NewPromptRequest(model, system, user string, temperature *float64, timeout time.Duration) CompletionRequest {
	return CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		Temperature: temperature,
		Timeout:     timeout,
	}
}

// SystemText returns the content of the first system message, if any.
func (r CompletionRequest) SystemText() string {
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// UserText returns the content of the first user message, if any.
func (r CompletionRequest) UserText() string {
	for _, m := range r.Messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}
