package perplexity

// chatCompletionRequest is the wire format for a Perplexity chat
// completion request. Optional tuning fields use pointers so the zero
// value stays off the wire.
type chatCompletionRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxTokens           *int      `json:"max_tokens,omitempty"`
	Temperature         *float64  `json:"temperature,omitempty"`
	TopP                *float64  `json:"top_p,omitempty"`
	SearchRecencyFilter string    `json:"search_recency_filter,omitempty"`
	ReturnCitations     *bool     `json:"return_citations,omitempty"`
}

// chatCompletionResponse is the subset of the Perplexity response the
// server consumes. Everything else in the payload is ignored.
type chatCompletionResponse struct {
	Choices   []choice `json:"choices"`
	Citations []string `json:"citations"`
}

type choice struct {
	Message responseMessage `json:"message"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
