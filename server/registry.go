package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/ppl-ai/perplexity-ask-go/config"
	"github.com/ppl-ai/perplexity-ask-go/logging"
	"github.com/ppl-ai/perplexity-ask-go/perplexity"
	"github.com/ppl-ai/perplexity-ask-go/schema"
)

// Completer is the completion capability the dispatcher calls. It is
// satisfied by *perplexity.Client; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, model string, messages []perplexity.Message, opts ...perplexity.RequestOption) (string, error)
}

// AskArgs is the argument payload shared by both tools.
type AskArgs struct {
	Messages []perplexity.Message `json:"messages" jsonschema:"required,description=Array of conversation messages"`
}

// Tool describes one callable tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema

	// model selected for this tool's completions.
	model string
}

// Result is the outcome of a dispatched tool call. Failures are
// results, never faults: the transport layer always gets a well-formed
// reply.
type Result struct {
	Text    string
	IsError bool
}

func errorResult(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...), IsError: true}
}

// Registry holds the static tool set and routes calls to the
// completion client. It is built once at startup and never mutated.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
	client Completer
	logger logging.Logger
}

// NewRegistry declares the two Perplexity tools against the configured
// models.
func NewRegistry(client Completer, cfg config.Config, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard{}
	}

	inputSchema := schema.MustFor[AskArgs]()
	tools := []Tool{
		{
			Name: "perplexity_ask",
			Description: "Engages in a conversation using the Sonar API. " +
				"Accepts an array of messages (each with a role and content) " +
				"and returns a ask completion response from the Perplexity model.",
			InputSchema: inputSchema,
			model:       cfg.Model,
		},
		{
			Name: "perplexity_reason",
			Description: "Performs reasoning tasks using the Perplexity API. " +
				"Accepts an array of messages (each with a role and content) " +
				"and returns a well-reasoned response using the " + cfg.ReasoningModel + " model.",
			InputSchema: inputSchema,
			model:       cfg.ReasoningModel,
		},
	}

	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}
	return &Registry{
		tools:  tools,
		byName: byName,
		client: client,
		logger: logger,
	}
}

// Tools returns the static descriptor list in declaration order.
func (r *Registry) Tools() []Tool {
	return append([]Tool(nil), r.tools...)
}

// Dispatch routes one tool call. Every outcome, success or failure, is
// a Result; no error ever escapes to the transport.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) Result {
	if isAbsent(args) {
		r.logger.Error("No arguments provided for tool call")
		return errorResult("Error: no arguments provided")
	}

	tool, ok := r.byName[name]
	if !ok {
		r.logger.Error("Unknown tool requested: %s", name)
		return errorResult("Unknown tool: %s", name)
	}

	messages, err := parseMessages(args)
	if err != nil {
		r.logger.Error("Invalid arguments for %s: %v", name, err)
		return errorResult("Error: Invalid arguments for %s: %v", name, err)
	}

	r.logger.Info("Processing %s tool call with %d messages", name, len(messages))

	text, err := r.client.Complete(ctx, tool.model, messages)
	if err != nil {
		r.logger.Error("Error processing %s tool call: %v", name, err)
		return errorResult("Error: %v", err)
	}
	return Result{Text: text}
}

// isAbsent reports whether the raw arguments are missing entirely.
func isAbsent(args json.RawMessage) bool {
	trimmed := bytes.TrimSpace(args)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseMessages extracts and validates the messages array. The
// constraint mirrors the declared schema: messages must be present and
// must be a JSON array of role/content objects.
func parseMessages(args json.RawMessage) ([]perplexity.Message, error) {
	var envelope struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(args, &envelope); err != nil {
		return nil, fmt.Errorf("arguments must be an object: %w", err)
	}

	raw := bytes.TrimSpace(envelope.Messages)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || raw[0] != '[' {
		return nil, errors.New("'messages' must be an array")
	}

	var messages []perplexity.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("'messages' must be an array of role/content objects: %w", err)
	}
	return messages, nil
}
