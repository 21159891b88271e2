package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// RequestRouter dispatches MCP tool requests to the appropriate ToolHandler.
// Tools are registered by exact name from each handler's ListTools, so tool
// names need no handler prefix.
type RequestRouter struct {
	handlers map[string]domain.ToolHandler // handler name -> handler
	byTool   map[string]domain.ToolHandler // tool name -> handler
	tools    []domain.ToolDefinition
}

// NewRequestRouter creates a new RequestRouter with the provided handlers.
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers: make(map[string]domain.ToolHandler),
		byTool:   make(map[string]domain.ToolHandler),
	}

	for _, handler := range handlers {
		router.handlers[handler.ToolName()] = handler
		for _, tool := range handler.ListTools() {
			router.byTool[tool.Name] = handler
			router.tools = append(router.tools, tool)
		}
	}

	return router
}

// Route dispatches a tool request to the handler that registered the tool.
// Returns an error if no handler registered the tool name.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handler, exists := r.byTool[req.Name]
	if !exists {
		return nil, fmt.Errorf("unknown tool: %s (no handler registered)", req.Name)
	}
	return handler.Handle(ctx, req)
}

// ListAllTools returns tool definitions from all registered handlers.
// Used for MCP tool discovery (tools/list method).
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	return r.tools
}

// GetHandler returns the handler registered under a handler name.
// Useful for testing and debugging.
func (r *RequestRouter) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, exists := r.handlers[handlerName]
	return handler, exists
}
