package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/firmsfinder/internal/pages"
	"github.com/kalambet/firmsfinder/internal/pager"
	"github.com/kalambet/firmsfinder/internal/session"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Views    *pages.Views
	Sessions *session.Store
	Version  string
}

// NewMCPServer creates an MCP server exposing directory search.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"firmsfinder",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("firmsfinder: search the firms directory for services, blogs, interviews and FAQs."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("search_services",
			mcp.WithDescription("Search all services by name, sorted by name, one page at a time."),
			mcp.WithString("query", mcp.Description("Search text; empty lists every service")),
			mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		),
		mcpSearchServices(deps),
	)

	s.AddTool(
		mcp.NewTool("search_blogs",
			mcp.WithDescription("Filter blog posts by title, body or category."),
			mcp.WithString("query", mcp.Description("Case-insensitive substring")),
		),
		protected(deps.Sessions, mcpSearchListing(deps.Views.Blogs)),
	)

	s.AddTool(
		mcp.NewTool("search_interviews",
			mcp.WithDescription("Filter interviews by name, position, company or description."),
			mcp.WithString("query", mcp.Description("Case-insensitive substring")),
		),
		protected(deps.Sessions, mcpSearchListing(deps.Views.Interviews)),
	)

	s.AddTool(
		mcp.NewTool("search_faqs",
			mcp.WithDescription("Filter frequently asked questions by question or answer."),
			mcp.WithString("query", mcp.Description("Case-insensitive substring")),
		),
		protected(deps.Sessions, mcpSearchListing(deps.Views.FAQs)),
	)

	s.AddTool(
		mcp.NewTool("get_service",
			mcp.WithDescription("Fetch one service with its full description."),
			mcp.WithString("id", mcp.Description("Service id"), mcp.Required()),
		),
		protected(deps.Sessions, mcpGetService(deps)),
	)

	s.AddResource(
		mcp.NewResource(
			"session://current",
			"Current Session",
			mcp.WithResourceDescription("Signed-in user as JSON, or null"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSession(deps),
	)

	return s
}

// protected rejects calls unless a user is signed in.
func protected(sessions *session.Store, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		switch sessions.State().Status() {
		case session.StatusUnknown:
			return mcpError("checking login status, try again"), nil
		case session.StatusAnonymous:
			return mcpError("login required: run `firmsfinder login` first"), nil
		}
		return next(ctx, req)
	}
}

func mcpSearchServices(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		page := req.GetInt("page", 1)

		v := deps.Views.Services
		if err := v.Ensure(ctx, query); err != nil {
			return mcpError(pages.LoadFailedMessage), nil
		}
		if err := v.GoTo(page); err != nil {
			if errors.Is(err, pager.ErrOutOfRange) {
				return mcpError(err.Error()), nil
			}
			return mcpError(fmt.Sprintf("paging failed: %v", err)), nil
		}
		return mcpJSON(v.Snapshot())
	}
}

func mcpSearchListing[T any](l *pages.Listing[T]) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := l.Load(ctx); err != nil {
			return mcpError(pages.LoadFailedMessage), nil
		}
		l.SetQuery(req.GetString("query", ""))
		return mcpJSON(l.Snapshot())
	}
}

func mcpGetService(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		d := deps.Views.ServiceDetail.Load(ctx, id)
		switch {
		case d.NotFound:
			return mcpError(fmt.Sprintf("service %s not found", id)), nil
		case d.Err != nil:
			return mcpError(pages.LoadFailedMessage), nil
		}
		return mcpJSON(d.Item)
	}
}

func mcpResourceSession(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Sessions.State().User)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
