package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/screen"
)

// CoffeeHandler exposes the explore screen as a tool.
type CoffeeHandler struct {
	api screen.CoffeeAPI
}

// NewCoffeeHandler returns a new handler.
func NewCoffeeHandler(api screen.CoffeeAPI) *CoffeeHandler {
	return &CoffeeHandler{api: api}
}

// RegisterTools registers explore_coffees.
func (ch *CoffeeHandler) RegisterTools(s *server.MCPServer) error {
	tool := mcp.NewTool("explore_coffees",
		mcp.WithDescription("Load the coffee catalogue and render it as the explore screen's card deck"),
		mcp.WithString("format", mcp.Description("Output format: text (default) or json")),
	)
	s.AddTool(tool, ch.handleExplore)
	return nil
}

func (ch *CoffeeHandler) handleExplore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := strings.ToLower(optionalString(req, "format"))
	if format != "" && format != "text" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
	}

	e := screen.NewExplora(ch.api)
	e.Mount(ctx)
	select {
	case <-e.Done():
	case <-ctx.Done():
		e.Unmount()
		return mcp.NewToolResultError("explore_coffees cancelled"), nil
	}
	defer e.Unmount()

	st := e.State()
	if st.Error {
		return mcp.NewToolResultError("explore_coffees: could not load coffees"), nil
	}
	view := screen.Render(st)
	log.Debug().Int("cards", len(view.Deck)).Msg("explore_coffees rendered")

	if format == "json" {
		b, err := json.Marshal(view)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode view: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
	if len(view.Deck) == 0 {
		return mcp.NewToolResultText("no coffees to explore"), nil
	}
	var b strings.Builder
	if err := screen.WriteText(&b, view); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render view: %v", err)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}
