package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	mcpadapter "github.com/addonhub/devhub/internal/adapters/inbound/mcp"
	"github.com/addonhub/devhub/internal/application"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the devhub MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start devhub MCP server (stdio)",
		Long: "Start the devhub MCP server using stdio transport. This lets AI assistants process " +
			"validation output, annotate messages and read stored results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			metrics := application.NewMetrics(reg)

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						cmd.PrintErrf("metrics server: %v\n", err)
					}
				}()
				defer srv.Close()
			}

			s := mcpadapter.NewDevhubMCPServer(opts.projectPath,
				mcpadapter.WithMetrics(metrics),
				mcpadapter.WithLogLevel(opts.logLevel),
				mcpadapter.WithLogOutput(cmd.ErrOrStderr()),
			)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}
