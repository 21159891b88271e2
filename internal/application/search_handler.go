package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// SearchHandler implements ToolHandler for advanced search operations.
type SearchHandler struct {
	tools *SearchTools
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(tools *SearchTools) *SearchHandler {
	return &SearchHandler{tools: tools}
}

// Tool name constants for search operations
const (
	ToolAdvancedSearch         = "advanced_search"
	ToolFilterIssues           = "filter_issues"
	ToolSearchWithCustomFields = "search_with_custom_fields"
)

// ToolName returns the identifier for this handler.
func (h *SearchHandler) ToolName() string {
	return "search"
}

// ListTools returns available tools for search operations.
func (h *SearchHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolAdvancedSearch,
			Description: "Perform an advanced YouTrack search with optional sorting",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The YouTrack search query",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results to return (default: 10)",
					},
					"sort_by": map[string]interface{}{
						"type":        "string",
						"description": "Field to sort by (e.g., created, updated, priority)",
					},
					"sort_order": map[string]interface{}{
						"type":        "string",
						"description": "Sort order: asc or desc",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolFilterIssues,
			Description: "Filter issues by structured criteria, composed into one YouTrack query",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": map[string]interface{}{
						"type":        "string",
						"description": "Project ID or short name to filter issues from",
					},
					"author": map[string]interface{}{
						"type":        "string",
						"description": "Filter by reporter login",
					},
					"assignee": map[string]interface{}{
						"type":        "string",
						"description": "Filter by assignee login",
					},
					"state": map[string]interface{}{
						"type":        "string",
						"description": "Filter by issue state",
					},
					"priority": map[string]interface{}{
						"type":        "string",
						"description": "Filter by priority level",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Search in issue text",
					},
					"created_after": map[string]interface{}{
						"type":        "string",
						"description": "Filter by creation date (YYYY-MM-DD)",
					},
					"created_before": map[string]interface{}{
						"type":        "string",
						"description": "Filter by creation date (YYYY-MM-DD)",
					},
					"updated_after": map[string]interface{}{
						"type":        "string",
						"description": "Filter by update date (YYYY-MM-DD)",
					},
					"updated_before": map[string]interface{}{
						"type":        "string",
						"description": "Filter by update date (YYYY-MM-DD)",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results to return (default: 10)",
					},
				},
			},
		},
		{
			Name:        ToolSearchWithCustomFields,
			Description: "Search issues and guarantee the requested custom fields appear in every result",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The YouTrack search query",
					},
					"custom_fields": map[string]interface{}{
						"type":        "string",
						"description": "JSON string of custom field names, e.g. [\"Priority\",\"Type\"]",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of issues to return (default: 10)",
					},
				},
				Required: []string{"query", "custom_fields"},
			},
		},
	}
}

// Handle processes an MCP tool call request for search operations.
func (h *SearchHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolAdvancedSearch:
		return h.handleAdvancedSearch(ctx, req.Arguments)
	case ToolFilterIssues:
		return h.handleFilterIssues(ctx, req.Arguments)
	case ToolSearchWithCustomFields:
		return h.handleSearchWithCustomFields(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown search tool: %s", req.Name),
		}
	}
}

func (h *SearchHandler) handleAdvancedSearch(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	sortBy, err := getStringParam(args, "sort_by", false)
	if err != nil {
		return nil, err
	}
	sortOrder, err := getStringParam(args, "sort_order", false)
	if err != nil {
		return nil, err
	}
	return h.tools.AdvancedSearch(ctx, query, limit, sortBy, sortOrder).ToolResponse(), nil
}

func (h *SearchHandler) handleFilterIssues(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	var filter IssueFilter
	var err error

	stringCriteria := []struct {
		name   string
		target *string
	}{
		{"project", &filter.Project},
		{"author", &filter.Author},
		{"assignee", &filter.Assignee},
		{"state", &filter.State},
		{"priority", &filter.Priority},
		{"text", &filter.Text},
		{"created_after", &filter.CreatedAfter},
		{"created_before", &filter.CreatedBefore},
		{"updated_after", &filter.UpdatedAfter},
		{"updated_before", &filter.UpdatedBefore},
	}
	for _, criterion := range stringCriteria {
		if *criterion.target, err = getStringParam(args, criterion.name, false); err != nil {
			return nil, err
		}
	}

	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}

	return h.tools.FilterIssues(ctx, filter, limit).ToolResponse(), nil
}

func (h *SearchHandler) handleSearchWithCustomFields(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	customFieldsJSON, err := getStringParam(args, "custom_fields", true)
	if err != nil {
		return nil, err
	}
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	return h.tools.SearchWithCustomFields(ctx, query, customFieldsJSON, limit).ToolResponse(), nil
}
