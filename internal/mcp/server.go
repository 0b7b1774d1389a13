// Package mcp exposes the coaching engine to LLM clients over the Model
// Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/claude/emberfit/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(sess *session.Session, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("EmberFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("EmberFit workout coaching engine. Query the user's current program day, workout history, and overall progress through the fixed training program."),
	)

	h := &handlers{sess: sess, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetCurrentDay, Handler: h.getCurrentDay},
		server.ServerTool{Tool: toolGetProgramOverview, Handler: h.getProgramOverview},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetProgressStats, Handler: h.getProgressStats},
	)

	s.AddResources(
		server.ServerResource{Resource: resCurrentDay, Handler: h.currentDayResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	sess *session.Session
	log  *slog.Logger
}

var resCurrentDay = mcp.NewResource(
	"emberfit://current_day",
	"Current Day",
	mcp.WithResourceDescription("The workout day at the user's current position: focus, description, and per-exercise completion state"),
	mcp.WithMIMEType("application/json"),
)
