// Package provider turns rendered prompts into generated document text by
// calling an OpenAI-compatible chat completions endpoint. The endpoint,
// model, and sampling parameters all come from configuration, so a local
// LM Studio instance and a hosted API are driven the same way.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client generates document text from a rendered prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Error is a failed completion request. StatusCode is zero when the
// request never reached the endpoint.
type Error struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion endpoint returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures an HTTP client. URL is the full chat completions
// endpoint, not a base URL.
type Options struct {
	URL         string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

// HTTPClient is a Client backed by an OpenAI-compatible endpoint.
type HTTPClient struct {
	opts   Options
	client *http.Client
}

// NewHTTPClient creates a client for the configured endpoint.
func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		opts:   opts,
		client: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	ErrorInfo *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt as a single user message and returns the
// model's reply.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:       c.opts.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &Error{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if result.ErrorInfo != nil {
		return "", &Error{StatusCode: resp.StatusCode, Body: result.ErrorInfo.Message}
	}
	if len(result.Choices) == 0 {
		return "", &Error{Err: fmt.Errorf("endpoint returned no choices")}
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// Dry is a Client that returns the prompt itself, used by dry runs to show
// what would be sent without calling any endpoint.
type Dry struct{}

func (Dry) Complete(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}
