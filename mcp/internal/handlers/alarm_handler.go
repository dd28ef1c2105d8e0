package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client"
)

// AlarmAPI is what AlarmHandler needs from the client.
type AlarmAPI interface {
	GetCurrentAlarm(ctx context.Context, userID string) (*client.Response, error)
	GetFriendsAlarms(ctx context.Context) (*client.Response, error)
}

// AlarmHandler exposes read-only alarm tools.
type AlarmHandler struct {
	api AlarmAPI
}

// NewAlarmHandler returns a new handler.
func NewAlarmHandler(api AlarmAPI) *AlarmHandler {
	return &AlarmHandler{api: api}
}

// RegisterTools registers alarm tools with the MCP server.
func (ah *AlarmHandler) RegisterTools(s *server.MCPServer) error {
	current := mcp.NewTool("get_current_alarm",
		mcp.WithDescription("Get a user's current (next active) alarm"),
		mcp.WithString("user_id", mcp.Description("User id; defaults to the signed-in user")),
	)
	s.AddTool(current, ah.handleCurrent)

	friends := mcp.NewTool("list_friends_alarms",
		mcp.WithDescription("List the active alarms of the signed-in user's friends"),
	)
	s.AddTool(friends, ah.handleFriends)

	// alarm mutations are left to the CLI.
	return nil
}

func (ah *AlarmHandler) handleCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := optionalString(req, "user_id")
	log.Debug().Str("user_id", userID).Msg("handling get_current_alarm request")

	start := time.Now()
	res, err := ah.api.GetCurrentAlarm(ctx, userID)
	return toolResult("get_current_alarm", res, err, time.Since(start)), nil
}

func (ah *AlarmHandler) handleFriends(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	res, err := ah.api.GetFriendsAlarms(ctx)
	return toolResult("list_friends_alarms", res, err, time.Since(start)), nil
}
