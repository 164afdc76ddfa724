// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// NewMCPServer initializes and configures the alloctrack MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Allocation Tracker Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_exceptions ---
	s.AddTool(mcp.NewTool("get_exceptions",
		mcp.WithDescription("Find employees whose commitments deviate from their capacity (UNDER, OVER) or who carry excess vacation (VACATION) within a date window."),
		mcp.WithString("from", mcp.Description("Window start as YYYY-MM-DD (defaults to today).")),
		mcp.WithString("to", mcp.Description("Window end as YYYY-MM-DD (defaults to three months after the start).")),
		mcp.WithString("kind", mcp.Description("Comma-separated exception kinds to keep: UNDER, OVER, VACATION.")),
	), h.handleGetExceptions)

	// --- 2. Tool: list_employees ---
	s.AddTool(mcp.NewTool("list_employees",
		mcp.WithDescription("List all employees with their capacity, vacation balance and billable flag."),
	), h.handleListEmployees)

	// --- 3. Tool: list_commitments ---
	s.AddTool(mcp.NewTool("list_commitments",
		mcp.WithDescription("List commitments with employee and target names resolved."),
		mcp.WithNumber("employee_id", mcp.Description("Only list the commitments of this employee.")),
	), h.handleListCommitments)

	return s
}

// StartMCPServer serves the alloctrack tools over stdio until stdin closes.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
