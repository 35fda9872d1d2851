package mcp

import (
	"io"

	"github.com/mark3labs/mcp-go/server"

	"github.com/addonhub/devhub/internal/application"
	"github.com/addonhub/devhub/internal/bootstrap"
)

// Option configures the MCP server.
type Option func(*handlers)

// WithMetrics shares pipeline counters across tool calls.
func WithMetrics(m *application.Metrics) Option {
	return func(h *handlers) { h.opts.Metrics = m }
}

// WithLogLevel overrides the configured log level.
func WithLogLevel(level string) Option {
	return func(h *handlers) { h.opts.LogLevel = level }
}

// WithLogOutput sets where service logs go. Stdout carries the protocol, so
// this should be stderr or a file.
func WithLogOutput(w io.Writer) Option {
	return func(h *handlers) { h.opts.LogOutput = w }
}

// NewDevhubMCPServer creates a new MCP server with all devhub tools and
// resources registered. The projectPath is the directory holding
// .devhub.yaml and the validation store.
func NewDevhubMCPServer(projectPath string, opts ...Option) *server.MCPServer {
	s := server.NewMCPServer(
		"devhub",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := &handlers{projectPath: projectPath}
	for _, opt := range opts {
		opt(h)
	}

	registerTools(s, h)
	registerResources(s, h)

	return s
}

// handlers opens the project's services per call, so the store is only
// locked while a tool runs.
type handlers struct {
	projectPath string
	opts        bootstrap.Options
}

func (h *handlers) open() (*bootstrap.Services, error) {
	return bootstrap.Open(h.projectPath, h.opts)
}
