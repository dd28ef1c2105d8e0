package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gaboelnuevo/cofi-app/client"
)

// NotificationAPI is what NotificationHandler needs from the client.
type NotificationAPI interface {
	GetNotifications(ctx context.Context) (*client.Response, error)
}

// NotificationHandler exposes list_notifications.
type NotificationHandler struct {
	api NotificationAPI
}

// NewNotificationHandler returns a new handler.
func NewNotificationHandler(api NotificationAPI) *NotificationHandler {
	return &NotificationHandler{api: api}
}

// RegisterTools registers notification tools with the MCP server.
func (nh *NotificationHandler) RegisterTools(s *server.MCPServer) error {
	tool := mcp.NewTool("list_notifications",
		mcp.WithDescription("List the signed-in user's notifications, newest first"),
	)
	s.AddTool(tool, nh.handleList)
	return nil
}

func (nh *NotificationHandler) handleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	res, err := nh.api.GetNotifications(ctx)
	return toolResult("list_notifications", res, err, time.Since(start)), nil
}
