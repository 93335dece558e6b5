package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/locgraph/core"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

// windowsResponse is the payload of get_loc_windows.
type windowsResponse struct {
	RepoPath      string          `json:"repo_path"`
	Ref           string          `json:"ref"`
	Commits       int             `json:"commits"`
	WindowSeconds int64           `json:"window_seconds"`
	Windows       []schema.Window `json:"windows"`
}

// requestConfig applies the arguments shared by every tool to a copy of the base config.
func (h *toolHandler) requestConfig(ctx context.Context, request mcp.CallToolRequest, output schema.OutputMode) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.Output = output
	cfg.OutputFile = ""
	if p := request.GetString("repo_path", ""); p != "" {
		root, err := h.client.GetRepoRoot(ctx, p)
		if err != nil {
			return nil, err
		}
		cfg.RepoPath = root
	}
	if r := strings.TrimSpace(request.GetString("ref", "")); r != "" {
		if err := contract.ValidateRef(r); err != nil {
			return nil, err
		}
		cfg.Ref = r
	}
	if e := request.GetString("exclude", ""); e != "" {
		cfg.Excludes = contract.SplitExcludes(e)
	}
	return cfg, nil
}

func (h *toolHandler) handleGetLocSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(ctx, request, schema.JSONOut)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	result, err := core.GetLocGraphResults(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.NewSeriesRecords(result.Series), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLocWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(ctx, request, schema.TableOut)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	// Re-validate specifically for window parsing
	if err := contract.RevalidateWindowing(cfg, request.GetInt("slices", 0), request.GetString("window", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window parameters: %v", err)), nil
	}

	result, err := core.GetLocGraphResults(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("windowing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(windowsResponse{
		RepoPath:      result.RepoPath,
		Ref:           result.Ref,
		Commits:       result.Commits,
		WindowSeconds: result.Duration,
		Windows:       result.Windows,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
