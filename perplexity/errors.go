package perplexity

import "fmt"

// NetworkError represents a transport-level failure reaching the API:
// DNS, connection refused, reset, timeout. Never retried.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error while calling Perplexity API: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// APIError represents a non-2xx HTTP status from the API. Body carries
// the response body text, or a placeholder when the body could not be
// read.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Perplexity API error: %s\n%s", e.Status, e.Body)
}

// ParseError represents a response body that is not valid JSON or does
// not have the expected shape.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response from Perplexity API: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
