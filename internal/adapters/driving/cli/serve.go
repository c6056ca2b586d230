package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nuxway/knowledge-rag/internal/adapters/driven/storage/jsonfile"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/httpapi"
	"github.com/nuxway/knowledge-rag/internal/adapters/driving/mcp"
	"github.com/nuxway/knowledge-rag/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval HTTP API",
	Long: `Starts the HTTP API:

  GET  /health               liveness and store status
  POST /v1/retrieve          {"query": "...", "k": 5}
  POST /v1/cache/invalidate  reload the store on the next request

The store file is watched and reloaded after each ingestion. When
server.mcp_port is set, the MCP server is served over HTTP as well.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.Retrieval == nil {
		return fmt.Errorf("retrieval: %w", errNotConfigured)
	}

	addr := serveAddr
	if addr == "" {
		addr = svc.Config.Server.Addr
	}

	if svc.Cache != nil {
		watcher, err := jsonfile.Watch(svc.Config.Store.Path, svc.Cache.Invalidate)
		if err != nil {
			logger.Warn("Store watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Retrieval:      svc.Retrieval,
		Cache:          svc.Cache,
		Status:         svc.Status,
		RequestTimeout: svc.Config.Embedding.Timeout.Std(),
	})

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		cmd.Printf("HTTP API listening on %s\n", addr)
		return httpapi.NewServer(addr, router).ListenAndServe(ctx)
	})

	if port := svc.Config.Server.MCPPort; port > 0 {
		server, err := mcp.NewServer(mcpPorts(svc))
		if err != nil {
			return err
		}
		g.Go(func() error {
			mcpAddr := fmt.Sprintf(":%d", port)
			cmd.Printf("MCP server listening on http://localhost%s\n", mcpAddr)
			return server.RunHTTP(ctx, mcpAddr)
		})
	}

	return g.Wait()
}
