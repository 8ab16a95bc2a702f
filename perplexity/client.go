// Package perplexity implements a minimal client for the Perplexity
// chat completion API. One call is one HTTP round trip: there is no
// retry, backoff, or streaming.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppl-ai/perplexity-ask-go/logging"
)

// DefaultBaseURL is the Perplexity API endpoint.
const DefaultBaseURL = "https://api.perplexity.ai"

const defaultTimeout = 30 * time.Second

// Client calls the Perplexity chat completion endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL. Tests point this at a local
// server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
// Use WithHTTPClient instead for full transport control.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient creates a Perplexity client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.Discard{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption sets an optional tuning parameter on a single request.
type RequestOption func(*chatCompletionRequest)

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) RequestOption {
	return func(r *chatCompletionRequest) {
		r.MaxTokens = &n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) RequestOption {
	return func(r *chatCompletionRequest) {
		r.Temperature = &t
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(p float64) RequestOption {
	return func(r *chatCompletionRequest) {
		r.TopP = &p
	}
}

// WithSearchRecency restricts search context to a recency window:
// "day", "week", "month" or "year".
func WithSearchRecency(window string) RequestOption {
	return func(r *chatCompletionRequest) {
		r.SearchRecencyFilter = window
	}
}

// WithReturnCitations asks the API to include source citations.
func WithReturnCitations(b bool) RequestOption {
	return func(r *chatCompletionRequest) {
		r.ReturnCitations = &b
	}
}

// Complete sends the conversation to the API with the given model and
// returns the completion text. Citations, when present in the reply,
// are appended as numbered footnotes.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, opts ...RequestOption) (string, error) {
	req := &chatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	for _, opt := range opts {
		opt(req)
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("Failed to encode request body: %v", err)
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Info("Sending request to Perplexity API with %d messages using model %s", len(messages), model)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Network error while calling Perplexity API: %v", err)
		return "", &NetworkError{Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, readErr := io.ReadAll(httpResp.Body)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		text := string(respBody)
		if readErr != nil {
			// The status line is still diagnostic even when the body
			// could not be read.
			text = "Unable to parse error response"
		}
		apiErr := &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       text,
		}
		c.logger.Error("Perplexity API error: %s\n%s", httpResp.Status, text)
		return "", apiErr
	}
	if readErr != nil {
		c.logger.Error("Failed to read response from Perplexity API: %v", readErr)
		return "", &NetworkError{Cause: readErr}
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		c.logger.Error("Failed to parse JSON response from Perplexity API: %v", err)
		return "", &ParseError{Cause: err}
	}
	if len(resp.Choices) == 0 {
		err := errors.New("response contained no choices")
		c.logger.Error("Malformed response from Perplexity API: %v", err)
		return "", &ParseError{Cause: err}
	}

	c.logger.Info("Successfully received and parsed response from Perplexity API")

	content := resp.Choices[0].Message.Content
	if len(resp.Citations) > 0 {
		c.logger.Info("Adding %d citations to response", len(resp.Citations))
		var b strings.Builder
		b.WriteString(content)
		b.WriteString("\n\nCitations:\n")
		for i, citation := range resp.Citations {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, citation)
		}
		content = b.String()
	}

	return content, nil
}
