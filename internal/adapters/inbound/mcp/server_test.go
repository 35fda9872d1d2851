package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/addonhub/devhub/internal/adapters/inbound/mcp"
)

func TestNewDevhubMCPServer(t *testing.T) {
	s := mcpadapter.NewDevhubMCPServer(t.TempDir())
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := mcpadapter.NewDevhubMCPServer(t.TempDir())
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"devhub_validate",
		"devhub_compare",
		"devhub_annotate",
		"devhub_approve",
		"devhub_show",
		"devhub_history",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}
