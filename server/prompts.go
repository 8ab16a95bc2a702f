package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppl-ai/perplexity-ask-go/logging"
)

const defaultRecency = "month"

// addPrompts registers prompt templates that expand a plain query into
// the message array the tools expect.
func addPrompts(m *mcp.Server, logger logging.Logger) {
	recencyArg := &mcp.PromptArgument{
		Name: "recency",
		Description: "Filter results by how recent they are. Options: 'day' (last 24h), " +
			"'week' (last 7 days), 'month' (last 30 days), 'year' (last 365 days). Defaults to 'month'.",
	}

	m.AddPrompt(&mcp.Prompt{
		Name:        "perplexity_ask",
		Description: "Search the web using Perplexity AI and filter results by recency",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "query",
				Description: "The search query to find information about",
				Required:    true,
			},
			recencyArg,
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		query, recency := promptArgs(req)
		logger.Info("Expanding perplexity_ask prompt for query %q", query)
		return &mcp.GetPromptResult{
			Description: fmt.Sprintf("Search the web for information about: %s", query),
			Messages: []*mcp.PromptMessage{
				userPrompt(fmt.Sprintf("Find recent information about: %s", query)),
				userPrompt(fmt.Sprintf("Only include results from the last %s", recency)),
			},
		}, nil
	})

	m.AddPrompt(&mcp.Prompt{
		Name:        "perplexity_reason",
		Description: "Reason about a topic using Perplexity AI and filter context by recency",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "query",
				Description: "The topic or question to reason about",
				Required:    true,
			},
			recencyArg,
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		query, recency := promptArgs(req)
		logger.Info("Expanding perplexity_reason prompt for query %q", query)
		return &mcp.GetPromptResult{
			Description: fmt.Sprintf("Reason about the topic: %s", query),
			Messages: []*mcp.PromptMessage{
				userPrompt(fmt.Sprintf("Reason about the following topic: %s", query)),
				userPrompt(fmt.Sprintf("Use context primarily from the last %s", recency)),
			},
		}, nil
	})
}

func promptArgs(req *mcp.GetPromptRequest) (query, recency string) {
	query = req.Params.Arguments["query"]
	recency = req.Params.Arguments["recency"]
	if recency == "" {
		recency = defaultRecency
	}
	return query, recency
}

func userPrompt(text string) *mcp.PromptMessage {
	return &mcp.PromptMessage{
		Role:    "user",
		Content: &mcp.TextContent{Text: text},
	}
}
