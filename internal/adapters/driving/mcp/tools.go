package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the question to find supporting passages for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "retrieve",
		Description: "Retrieve the passages from the knowledge corpus most relevant to a question. " +
			"Returns an empty list when no context is available.",
	}, s.handleRetrieve)
}

// handleRetrieve handles the retrieve tool invocation.
// A zero or negative k selects the service default.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]PassageOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = PassageOutput{
			Source: results[i].Source,
			Score:  results[i].Score,
			Text:   results[i].Text,
		}
	}

	return nil, output, nil
}
