package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerActivitiesResource(srv, svc)
	registerActivityTemplate(srv, svc)
}

func registerActivitiesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"daylog://activities",
		"Activities",
		mcp.WithResourceDescription("Every logged day with hours per category."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, _, err := svc.ListActivities(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"activities": records,
			"count":      len(records),
		})
	})
}

func registerActivityTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"daylog://activities/{id}",
		"Activity Details",
		mcp.WithTemplateDescription("A single logged day and its summary."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("activity id is required")
		}
		r, err := svc.Activity(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"activity": r,
		})
	})
}

// templateArg reads a URI template variable, which may arrive as a string or
// a single element slice.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
