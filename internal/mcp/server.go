package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/asmscope/asmscope/internal/graph"
)

// Server manages the MCP server lifecycle around one loaded knowledge base.
type Server struct {
	kb  *graph.KnowledgeBase
	mcp *server.MCPServer
}

// NewServer creates an MCP server exposing the query layer over kb.
func NewServer(kb *graph.KnowledgeBase) (*Server, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}

	mcpServer := server.NewMCPServer(
		"asmscope-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	AddCallGraphTool(mcpServer, kb)

	return &Server{kb: kb, mcp: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
