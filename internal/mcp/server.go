package mcp

import (
	"log/slog"

	"github.com/claude/weeklog/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// recommendCount is the suggestion count used when a caller omits one.
func New(ds DataSource, version string, recommendCount int, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("weeklog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("weeklog weekly workout log. Days are indexed 0-6 starting Monday. Read and edit a day's activities, find the lowest-rep activity, summarize the week, and get exercise suggestions per muscle group."),
	)

	if recommendCount <= 0 {
		recommendCount = tracker.DefaultRecommendCount
	}
	h := &handlers{ds: ds, recommendCount: recommendCount, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDay, Handler: h.getDay},
		server.ServerTool{Tool: toolGetActivity, Handler: h.getActivity},
		server.ServerTool{Tool: toolAddActivity, Handler: h.addActivity},
		server.ServerTool{Tool: toolDeleteActivity, Handler: h.deleteActivity},
		server.ServerTool{Tool: toolClearDay, Handler: h.clearDay},
		server.ServerTool{Tool: toolFewestReps, Handler: h.fewestReps},
		server.ServerTool{Tool: toolWeeklySummary, Handler: h.weeklySummary},
		server.ServerTool{Tool: toolDailyDurations, Handler: h.dailyDurations},
		server.ServerTool{Tool: toolRecommendExercises, Handler: h.recommendExercises},
		server.ServerTool{Tool: toolExportSchedule, Handler: h.exportSchedule},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSchedule, Handler: h.schedule},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds             DataSource
	recommendCount int
	log            *slog.Logger
}

// --- Resource definitions ---

var resSchedule = mcp.NewResource(
	"weeklog://schedule",
	"Weekly Schedule",
	mcp.WithResourceDescription("The whole week in the human-readable text layout"),
	mcp.WithMIMEType("text/plain"),
)
