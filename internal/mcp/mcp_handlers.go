package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dannybechar/allocation-tracker/core"
	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetExceptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, err := contract.ResolveWindow(request.GetString("from", ""), request.GetString("to", ""), dateutil.Today())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	kinds, unknown := schema.ParseKinds(request.GetString("kind", ""))
	if len(unknown) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid kind(s) %s: must be UNDER, OVER, VACATION", strings.Join(unknown, ", "))), nil
	}

	cfg := h.baseCfg.CloneWithWindow(window)
	cfg.Kinds = kinds
	cfg.EmployeeFilter = ""

	exceptions, err := core.GetExceptionsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichExceptions(exceptions))
}

func (h *toolHandler) handleListEmployees(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	employees, err := h.mgr.GetEntityStore().ListEmployees(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing employees failed: %v", err)), nil
	}
	if employees == nil {
		employees = []schema.Employee{}
	}
	return jsonResult(employees)
}

func (h *toolHandler) handleListCommitments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var employeeID *int64
	if raw, ok := request.GetArguments()["employee_id"]; ok && raw != nil {
		f, isNumber := raw.(float64)
		if !isNumber || f < 1 || f != math.Trunc(f) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid employee_id %v: must be a positive integer", raw)), nil
		}
		id := int64(f)
		employeeID = &id
	}

	views, err := core.ListCommitmentViews(ctx, h.mgr.GetEntityStore(), employeeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing commitments failed: %v", err)), nil
	}
	return jsonResult(views)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
