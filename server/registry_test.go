package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppl-ai/perplexity-ask-go/config"
	"github.com/ppl-ai/perplexity-ask-go/logging"
	"github.com/ppl-ai/perplexity-ask-go/perplexity"
)

type fakeCompleter struct {
	calls        int
	lastModel    string
	lastMessages []perplexity.Message
	text         string
	err          error
}

func (f *fakeCompleter) Complete(ctx context.Context, model string, messages []perplexity.Message, opts ...perplexity.RequestOption) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testConfig() config.Config {
	return config.Config{
		APIKey:         "test-key",
		Model:          "sonar-pro",
		ReasoningModel: "sonar-reasoning-pro",
	}
}

func TestRegistry_ExactlyTwoTools(t *testing.T) {
	reg := NewRegistry(&fakeCompleter{}, testConfig(), nil)

	tools := reg.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "perplexity_ask", tools[0].Name)
	assert.Equal(t, "perplexity_reason", tools[1].Name)

	for _, tool := range tools {
		raw, err := json.Marshal(tool.InputSchema)
		require.NoError(t, err)
		var parsed map[string]any
		require.NoError(t, json.Unmarshal(raw, &parsed))

		assert.Equal(t, "object", parsed["type"], tool.Name)
		required, ok := parsed["required"].([]any)
		require.True(t, ok, "%s schema must have a required array", tool.Name)
		assert.Contains(t, required, "messages")

		messages := parsed["properties"].(map[string]any)["messages"].(map[string]any)
		assert.Equal(t, "array", messages["type"])

		items := messages["items"].(map[string]any)
		itemRequired := items["required"].([]any)
		assert.ElementsMatch(t, []any{"role", "content"}, itemRequired)
	}
}

func TestDispatch_NoArguments(t *testing.T) {
	tests := []struct {
		name string
		args json.RawMessage
	}{
		{name: "nil", args: nil},
		{name: "empty", args: json.RawMessage("")},
		{name: "null", args: json.RawMessage("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			reg := NewRegistry(fake, testConfig(), nil)

			result := reg.Dispatch(context.Background(), "perplexity_ask", tt.args)

			assert.True(t, result.IsError)
			assert.Contains(t, result.Text, "no arguments provided")
			assert.Zero(t, fake.calls, "no completion call may be made")
		})
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	fake := &fakeCompleter{}
	reg := NewRegistry(fake, testConfig(), nil)

	result := reg.Dispatch(context.Background(), "not_a_tool",
		json.RawMessage(`{"messages":[{"role":"user","content":"hi"}]}`))

	assert.True(t, result.IsError)
	assert.Equal(t, "Unknown tool: not_a_tool", result.Text)
	assert.Zero(t, fake.calls)
}

func TestDispatch_MalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "messages is a string", args: `{"messages":"not an array"}`},
		{name: "messages is a number", args: `{"messages":42}`},
		{name: "messages is an object", args: `{"messages":{"role":"user"}}`},
		{name: "messages missing", args: `{}`},
		{name: "messages null", args: `{"messages":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			capture := &logging.Capture{}
			reg := NewRegistry(fake, testConfig(), capture)

			result := reg.Dispatch(context.Background(), "perplexity_ask", json.RawMessage(tt.args))

			assert.True(t, result.IsError)
			assert.Contains(t, result.Text, "messages")
			assert.Zero(t, fake.calls, "no completion call may be made")
			assert.NotEmpty(t, capture.ByLevel("ERROR"))
		})
	}
}

func TestDispatch_ArgumentsNotAnObject(t *testing.T) {
	fake := &fakeCompleter{}
	reg := NewRegistry(fake, testConfig(), nil)

	result := reg.Dispatch(context.Background(), "perplexity_ask", json.RawMessage(`[1,2,3]`))

	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "object")
	assert.Zero(t, fake.calls)
}

func TestDispatch_ModelSelection(t *testing.T) {
	tests := []struct {
		tool      string
		wantModel string
	}{
		{tool: "perplexity_ask", wantModel: "sonar-pro"},
		{tool: "perplexity_reason", wantModel: "sonar-reasoning-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fake := &fakeCompleter{text: "answer"}
			reg := NewRegistry(fake, testConfig(), nil)

			result := reg.Dispatch(context.Background(), tt.tool,
				json.RawMessage(`{"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}]}`))

			require.False(t, result.IsError, result.Text)
			assert.Equal(t, "answer", result.Text)
			assert.Equal(t, 1, fake.calls)
			assert.Equal(t, tt.wantModel, fake.lastModel)

			// Turn order is preserved end to end.
			require.Len(t, fake.lastMessages, 2)
			assert.Equal(t, perplexity.RoleSystem, fake.lastMessages[0].Role)
			assert.Equal(t, "be brief", fake.lastMessages[0].Content)
			assert.Equal(t, perplexity.RoleUser, fake.lastMessages[1].Role)
		})
	}
}

func TestDispatch_CompletionErrorBecomesResult(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection reset")}
	capture := &logging.Capture{}
	reg := NewRegistry(fake, testConfig(), capture)

	result := reg.Dispatch(context.Background(), "perplexity_ask",
		json.RawMessage(`{"messages":[{"role":"user","content":"hi"}]}`))

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: connection reset", result.Text)
	assert.NotEmpty(t, capture.ByLevel("ERROR"))
}

func TestDispatch_APIErrorSurfacesStatusAndBody(t *testing.T) {
	fake := &fakeCompleter{err: &perplexity.APIError{
		StatusCode: 500,
		Status:     "500 Internal Server Error",
		Body:       "oops",
	}}
	capture := &logging.Capture{}
	reg := NewRegistry(fake, testConfig(), capture)

	result := reg.Dispatch(context.Background(), "perplexity_ask",
		json.RawMessage(`{"messages":[{"role":"user","content":"hi"}]}`))

	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "500")
	assert.Contains(t, result.Text, "oops")
	assert.Len(t, capture.ByLevel("ERROR"), 1)
}
