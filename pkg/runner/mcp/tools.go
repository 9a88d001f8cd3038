package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListActivitiesTool(srv, svc)
	registerGetActivityTool(srv, svc)
	registerAddActivityTool(srv, svc)
	registerUpdateActivityTool(srv, svc)
	registerDeleteActivityTool(srv, svc)
	registerInsightTool(srv, svc)
	registerTotalsTool(srv, svc)
}

func windowOption() mcp.ToolOption {
	return mcp.WithString("last",
		mcp.Description("Optional trailing window such as 3d, 1w or 1mo. Empty means every logged day."),
	)
}

func hoursOption(name, what string) mcp.ToolOption {
	return mcp.WithNumber(name,
		mcp.Description(fmt.Sprintf("Hours spent on %s.", what)),
		mcp.Min(0),
		mcp.Max(24),
	)
}

func registerListActivitiesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_activities",
		mcp.WithDescription("List logged days in the order they were recorded."),
		windowOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, label, err := svc.ListActivities(ctx, request.GetString("last", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"window":     label,
			"activities": records,
			"count":      len(records),
		})
	})
}

func registerGetActivityTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_activity",
		mcp.WithDescription("Fetch a single logged day by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Activity identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := svc.Activity(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	})
}

func registerAddActivityTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_activity",
		mcp.WithDescription("Log hours for a day. The server generates a short summary."),
		mcp.WithString("date",
			mcp.Description("Day in YYYY-MM-DD form. Defaults to today."),
		),
		hoursOption("work", "work"),
		hoursOption("leisure", "leisure"),
		hoursOption("sleep", "sleep"),
		hoursOption("exercise", "exercise"),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AddActivityOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		r, err := svc.AddActivity(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	})
}

func registerUpdateActivityTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_activity",
		mcp.WithDescription("Change the date or hours of a logged day. Omitted fields keep their value."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Activity identifier to modify."),
		),
		mcp.WithString("date",
			mcp.Description("New day in YYYY-MM-DD form."),
		),
		hoursOption("work", "work"),
		hoursOption("leisure", "leisure"),
		hoursOption("sleep", "sleep"),
		hoursOption("exercise", "exercise"),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var args UpdateActivityOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		r, err := svc.UpdateActivity(ctx, id, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	})
}

func registerDeleteActivityTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_activity",
		mcp.WithDescription("Delete a logged day."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Activity identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := svc.DeleteActivity(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	})
}

func registerInsightTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_insight",
		mcp.WithDescription("Ask the language model for insight about one logged day."),
		mcp.WithString("id",
			mcp.Description("Activity identifier. Defaults to the most recent day."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Insight(ctx, request.GetString("id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerTotalsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"activity_totals",
		mcp.WithDescription("Total and average hours per category."),
		windowOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Totals(ctx, request.GetString("last", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
