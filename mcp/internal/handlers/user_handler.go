package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client"
)

// UserAPI is what UserHandler needs from the client.
type UserAPI interface {
	SearchUsers(ctx context.Context, query string) (*client.Response, error)
	GetUserProfile(ctx context.Context, id string) (*client.Response, error)
}

// UserHandler provides user lookup tools.
type UserHandler struct {
	api UserAPI
}

// NewUserHandler creates a new user handler instance.
func NewUserHandler(api UserAPI) *UserHandler {
	return &UserHandler{api: api}
}

// RegisterTools registers all user tools with the MCP server.
func (uh *UserHandler) RegisterTools(s *server.MCPServer) error {
	search := mcp.NewTool("search_users",
		mcp.WithDescription("Search users by username or name"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
	)
	s.AddTool(search, uh.handleSearch)

	profile := mcp.NewTool("get_user_profile",
		mcp.WithDescription("Get a user's profile"),
		mcp.WithString("user_id", mcp.Description("User id; defaults to the signed-in user")),
	)
	s.AddTool(profile, uh.handleProfile)

	// account changes (login, register, profile edits) are reserved for the CLI.
	return nil
}

func (uh *UserHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		log.Error().Err(err).Msg("query parameter validation failed")
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	log.Debug().Str("query", query).Msg("handling search_users request")

	start := time.Now()
	res, err := uh.api.SearchUsers(ctx, query)
	return toolResult("search_users", res, err, time.Since(start)), nil
}

func (uh *UserHandler) handleProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	res, err := uh.api.GetUserProfile(ctx, optionalString(req, "user_id"))
	return toolResult("get_user_profile", res, err, time.Since(start)), nil
}
