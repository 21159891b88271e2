package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// UserHandler implements ToolHandler for user operations.
type UserHandler struct {
	tools *UserTools
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(tools *UserTools) *UserHandler {
	return &UserHandler{tools: tools}
}

// Tool name constants for user operations
const (
	ToolGetUser        = "get_user"
	ToolGetUserByLogin = "get_user_by_login"
	ToolSearchUsers    = "search_users"
	ToolGetCurrentUser = "get_current_user"
)

// ToolName returns the identifier for this handler.
func (h *UserHandler) ToolName() string {
	return "users"
}

// ListTools returns available tools for user operations.
func (h *UserHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetUser,
			Description: "Get information about a specific user by ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"user_id": map[string]interface{}{
						"type":        "string",
						"description": "The user ID (e.g., '1-621')",
					},
					"user": map[string]interface{}{
						"type":        "string",
						"description": "Alternative parameter name for user_id",
					},
				},
			},
		},
		{
			Name:        ToolGetUserByLogin,
			Description: "Get information about a specific user by login name",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"login": map[string]interface{}{
						"type":        "string",
						"description": "The user login to look up",
					},
				},
				Required: []string{"login"},
			},
		},
		{
			Name:        ToolSearchUsers,
			Description: "Search for users by name or login",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search query for user name or login",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of users to return (default: 10)",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolGetCurrentUser,
			Description: "Get information about the currently authenticated user",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
	}
}

// Handle processes an MCP tool call request for user operations.
func (h *UserHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolGetUser:
		return h.handleGetUser(ctx, req.Arguments)
	case ToolGetUserByLogin:
		return h.handleGetUserByLogin(ctx, req.Arguments)
	case ToolSearchUsers:
		return h.handleSearchUsers(ctx, req.Arguments)
	case ToolGetCurrentUser:
		return h.tools.GetCurrentUser(ctx).ToolResponse(), nil
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown user tool: %s", req.Name),
		}
	}
}

func (h *UserHandler) handleGetUser(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	userID, err := getStringParam(args, "user_id", false)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		if userID, err = getStringParam(args, "user", false); err != nil {
			return nil, err
		}
	}
	return h.tools.GetUser(ctx, userID).ToolResponse(), nil
}

func (h *UserHandler) handleGetUserByLogin(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	login, err := getStringParam(args, "login", false)
	if err != nil {
		return nil, err
	}
	return h.tools.GetUserByLogin(ctx, login).ToolResponse(), nil
}

func (h *UserHandler) handleSearchUsers(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	return h.tools.SearchUsers(ctx, query, limit).ToolResponse(), nil
}
