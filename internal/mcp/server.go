package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/pace/internal/engine"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"post_check": {
		def:     checkToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheck },
	},
	"post_submit": {
		def:     submitToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSubmit },
	},
	"post_status": {
		def:     statusToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
	"post_history": {
		def:     historyToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

func checkToolDef() mcp.Tool {
	return mcp.NewTool("post_check",
		mcp.WithDescription("Evaluate a candidate post for safety (duplicates, quotas, rate limits, content patterns) and report the wait it would be scheduled with. Makes no changes."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Candidate post text")),
	)
}

func submitToolDef() mcp.Tool {
	return mcp.NewTool("post_submit",
		mcp.WithDescription("Evaluate a post and publish it if safe. Returns a posted, blocked, or delayed verdict."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Post text")),
		mcp.WithString("reply_to", mcp.Description("ID of the post being replied to")),
		mcp.WithString("quote_id", mcp.Description("ID of the post being quoted")),
		mcp.WithBoolean("force", mcp.Description("Bypass all safety checks and scheduling")),
		mcp.WithBoolean("wait", mcp.Description("On a delayed verdict, sleep out the delay and then post")),
		mcp.WithNumber("jitter_minutes", mcp.Description("Override the configured jitter bound for this call")),
	)
}

func statusToolDef() mcp.Tool {
	return mcp.NewTool("post_status",
		mcp.WithDescription("Report current pacing state: daily quota usage, last post time, rate-limit window, quiet hours."),
	)
}

func historyToolDef() mcp.Tool {
	return mcp.NewTool("post_history",
		mcp.WithDescription("List recorded posts, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of posts to return (default 20, max 100)")),
	)
}

// NewServer creates a new MCP server with Pace tools registered.
func NewServer(eng *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"pace",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(eng)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(eng *engine.Engine, version string) error {
	s := NewServer(eng, version)
	return server.ServeStdio(s)
}
