// Package ingest researches a startup on the open web and condenses the
// findings into the freeform text the analysis pipeline consumes.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultExaBaseURL = "https://api.exa.ai"
	exaMaxChars       = 1800
	exaNumResults     = 6
)

// Snippet is one web result: title, url, and whatever content the
// search returned.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// ExaClient talks to the Exa search API.
type ExaClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewExaClient creates a client. baseURL overrides the production
// endpoint when non-empty (used in tests).
func NewExaClient(apiKey, baseURL string) *ExaClient {
	if baseURL == "" {
		baseURL = defaultExaBaseURL
	}
	return &ExaClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query         string         `json:"query"`
	Type          string         `json:"type"`
	UseAutoprompt bool           `json:"useAutoprompt"`
	NumResults    int            `json:"numResults"`
	Contents      searchContents `json:"contents"`
}

type searchContents struct {
	Text    map[string]any `json:"text"`
	Summary map[string]any `json:"summary,omitempty"`
}

type searchResponse struct {
	Results []Snippet `json:"results"`
}

type answerRequest struct {
	Query string `json:"query"`
	Text  bool   `json:"text"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// Search runs a search-and-contents query and returns snippets.
// summaryQuery, when non-empty, asks the API for a focused summary of
// each result.
func (c *ExaClient) Search(ctx context.Context, query string, numResults int, summaryQuery string) ([]Snippet, error) {
	if numResults <= 0 {
		numResults = exaNumResults
	}
	req := searchRequest{
		Query:         query,
		Type:          "auto",
		UseAutoprompt: true,
		NumResults:    numResults,
		Contents: searchContents{
			Text: map[string]any{"maxCharacters": exaMaxChars},
		},
	}
	if summaryQuery != "" {
		req.Contents.Summary = map[string]any{"query": summaryQuery}
	}

	var resp searchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Answer asks the API to answer a question directly from the web.
func (c *ExaClient) Answer(ctx context.Context, question string) (string, error) {
	var resp answerResponse
	if err := c.post(ctx, "/answer", answerRequest{Query: question, Text: true}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// post sends a JSON request, retrying rate limits and server errors
// with exponential backoff.
func (c *ExaClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			log.Printf("[ingest] %s returned %d, retrying", path, resp.StatusCode)
			return fmt.Errorf("exa %s: status %d", path, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("exa %s: status %d: %s", path, resp.StatusCode, data))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}, policy)
}
