package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all devhub MCP resources on the given server.
func registerResources(s *server.MCPServer, h *handlers) {
	// 1. devhub://config - effective project configuration
	s.AddResource(
		mcplib.NewResource(
			"devhub://config",
			"Configuration",
			mcplib.WithResourceDescription("Effective devhub configuration for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleConfigResource,
	)

	// 2. devhub://validations/{file_hash} - stored annotated validation
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"devhub://validations/{file_hash}",
			"Stored Validation",
			mcplib.WithTemplateDescription("Annotated validation stored for a package version"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		h.handleValidationResource,
	)
}

func (h *handlers) handleConfigResource(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	svc, err := h.open()
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	return jsonContents(request.Params.URI, svc.Config)
}

func (h *handlers) handleValidationResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	fileHash := templateArg(request.Params.Arguments, "file_hash")
	if fileHash == "" {
		return nil, fmt.Errorf("file hash is required")
	}

	svc, err := h.open()
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	stored, _, err := svc.Validations.Stored(ctx, fileHash)
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, stored)
}

// templateArg reads a variable matched from a resource template URI.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
