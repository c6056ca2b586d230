package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for knowledge resources.
	uriScheme = "knowledge://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Sources configured for ingestion",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "store",
		Name:        "store",
		Description: "Status of the corpus store",
		MIMEType:    "application/json",
	}, s.handleStoreResource)
}

// handleSourcesResource returns the configured ingestion sources.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Kind     string `json:"kind"`
		Location string `json:"location"`
	}

	infos := make([]sourceInfo, len(s.ports.Sources))
	for i, src := range s.ports.Sources {
		infos[i] = sourceInfo{Kind: string(src.Kind), Location: src.Location}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleStoreResource returns the corpus store status.
func (s *Server) handleStoreResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Status == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, s.ports.Status.StoreStatus(ctx))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
