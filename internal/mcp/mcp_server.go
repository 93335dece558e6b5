// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the locgraph MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"locgraph Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_loc_series ---
	s.AddTool(mcp.NewTool("get_loc_series",
		mcp.WithDescription("Trace the cumulative lines of code after every commit of a Git ref, oldest first."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's repository if not specified).")),
		mcp.WithString("ref", mcp.Description("Git reference to walk. Defaults to HEAD.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated pathspec patterns to leave out of the count.")),
	), h.handleGetLocSeries)

	// --- 2. Tool: get_loc_windows ---
	s.AddTool(mcp.NewTool("get_loc_windows",
		mcp.WithDescription("Trace lines of code over a Git ref and resample them into evenly spaced windows."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("ref", mcp.Description("Git reference to walk. Defaults to HEAD.")),
		mcp.WithNumber("slices", mcp.Description("Number of windows to split the history into. Mutually exclusive with window.")),
		mcp.WithString("window", mcp.Description("Width of each window (e.g., '1 week', '30 days', '720h'). Mutually exclusive with slices.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated pathspec patterns to leave out of the count.")),
	), h.handleGetLocWindows)

	return s
}

// StartMCPServer starts the locgraph MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
