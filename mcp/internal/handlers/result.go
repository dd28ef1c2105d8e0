package handlers

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client"
)

// toolResult turns a client call into a tool result. The body is passed
// through verbatim on success; failures become tool errors carrying the
// problem code so the model can tell a 401 from a dead backend.
func toolResult(tool string, res *client.Response, err error, elapsed time.Duration) *mcp.CallToolResult {
	if err != nil {
		problem := string(client.UnknownError)
		if res != nil {
			problem = res.Problem
		}
		log.Error().
			Err(err).
			Str("tool", tool).
			Str("problem", problem).
			Dur("elapsed", elapsed).
			Msg("tool call failed")
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s: %v", tool, problem, err))
	}
	if !res.OK {
		log.Debug().
			Str("tool", tool).
			Int("status", res.Status).
			Str("problem", res.Problem).
			Dur("elapsed", elapsed).
			Msg("tool call rejected by backend")
		msg := fmt.Sprintf("%s: HTTP %d (%s)", tool, res.Status, res.Problem)
		if code := res.ErrorCode(); code != "" {
			msg += ": " + code
		}
		return mcp.NewToolResultError(msg)
	}
	log.Debug().
		Str("tool", tool).
		Int("status", res.Status).
		Dur("elapsed", elapsed).
		Msg("tool call completed")
	if len(res.Data) == 0 {
		return mcp.NewToolResultText("{}")
	}
	return mcp.NewToolResultText(string(res.Data))
}

// optionalString reads a string argument that may be absent.
func optionalString(req mcp.CallToolRequest, name string) string {
	v, _ := req.GetArguments()[name].(string)
	return v
}
