// Package server exposes the Perplexity tools over the Model Context
// Protocol. It declares the tool registry, validates call arguments,
// and adapts dispatch results into protocol replies.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppl-ai/perplexity-ask-go/config"
	"github.com/ppl-ai/perplexity-ask-go/logging"
)

const (
	serverName    = "perplexity-ask"
	serverVersion = "0.1.0"
)

// Server is the MCP server wrapping the tool registry.
type Server struct {
	registry *Registry
	logger   logging.Logger
	mcp      *mcp.Server
}

// New wires the registry into an MCP server. The server is a passive
// responder: it only answers list and call requests, one at a time.
func New(cfg config.Config, client Completer, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard{}
	}

	registry := NewRegistry(client, cfg, logger)
	m := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	for _, tool := range registry.Tools() {
		name := tool.Name
		m.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result := registry.Dispatch(ctx, name, req.Params.Arguments)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
				IsError: result.IsError,
			}, nil
		})
	}

	addPrompts(m, logger)

	return &Server{
		registry: registry,
		logger:   logger,
		mcp:      m,
	}
}

// Registry returns the underlying tool registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Run serves MCP over stdio until the stream closes or ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Perplexity Ask MCP Server running on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport and returns
// the session. Used by tests to drive the server in-memory.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
