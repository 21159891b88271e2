package domain

import (
	"context"
)

// ToolHandler processes requests for one YouTrack resource area.
// Issues, projects, search, users and the search guide each have a handler
// that implements this interface.
type ToolHandler interface {
	// Handle processes an MCP tool call request.
	// Returns the tool response or an error if the request itself is
	// malformed. API faults never surface here; they are carried inside
	// the response as an error envelope.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns available tools for this handler.
	ListTools() []ToolDefinition

	// ToolName returns the identifier for this handler.
	ToolName() string
}
