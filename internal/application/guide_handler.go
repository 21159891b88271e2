package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// GuideHandler implements ToolHandler for the static search guide.
type GuideHandler struct {
	guide *SearchGuide
}

// NewGuideHandler creates a new GuideHandler instance.
func NewGuideHandler(guide *SearchGuide) *GuideHandler {
	return &GuideHandler{guide: guide}
}

// Tool name constants for guide operations
const (
	ToolSearchSyntaxGuide = "get_search_syntax_guide"
	ToolCommonQueries     = "get_common_queries"
)

// ToolName returns the identifier for this handler.
func (h *GuideHandler) ToolName() string {
	return "guide"
}

// ListTools returns available tools for the search guide.
func (h *GuideHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolSearchSyntaxGuide,
			Description: "Get a reference guide for YouTrack search query syntax",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
		{
			Name:        ToolCommonQueries,
			Description: "Get examples of common YouTrack search queries",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
	}
}

// Handle processes an MCP tool call request for the search guide.
func (h *GuideHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	switch req.Name {
	case ToolSearchSyntaxGuide:
		return domain.TextResponse(h.guide.SyntaxGuide(), false), nil
	case ToolCommonQueries:
		return domain.TextResponse(h.guide.CommonQueries(), false), nil
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown guide tool: %s", req.Name),
		}
	}
}
