package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// IssueHandler implements ToolHandler for issue operations.
// It extracts tool call arguments and delegates to the IssueTools facade;
// every facade outcome (success or error envelope) becomes a tool response.
type IssueHandler struct {
	tools *IssueTools
}

// NewIssueHandler creates a new IssueHandler instance.
func NewIssueHandler(tools *IssueTools) *IssueHandler {
	return &IssueHandler{tools: tools}
}

// Tool name constants for issue operations
const (
	ToolGetIssue     = "get_issue"
	ToolGetIssueRaw  = "get_issue_raw"
	ToolCreateIssue  = "create_issue"
	ToolAddComment   = "add_comment"
	ToolSearchIssues = "search_issues"
)

// ToolName returns the identifier for this handler.
func (h *IssueHandler) ToolName() string {
	return "issues"
}

// ListTools returns available tools for issue operations.
func (h *IssueHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetIssue,
			Description: "Get information about a specific YouTrack issue by its ID or readable ID (e.g., DEMO-123)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"issue_id": map[string]interface{}{
						"type":        "string",
						"description": "The issue ID or readable ID (e.g., PROJECT-123)",
					},
				},
				Required: []string{"issue_id"},
			},
		},
		{
			Name:        ToolGetIssueRaw,
			Description: "Get raw information about a specific issue, exactly as the YouTrack API returns it",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"issue_id": map[string]interface{}{
						"type":        "string",
						"description": "The issue ID or readable ID (e.g., PROJECT-123)",
					},
				},
				Required: []string{"issue_id"},
			},
		},
		{
			Name:        ToolCreateIssue,
			Description: "Create a new issue in a YouTrack project",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project": map[string]interface{}{
						"type":        "string",
						"description": "Project ID (e.g., 0-167) or short name (e.g., DEMO) where the issue will be created",
					},
					"summary": map[string]interface{}{
						"type":        "string",
						"description": "Brief summary/title of the issue",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Detailed description of the issue (optional)",
					},
					"custom_fields": map[string]interface{}{
						"type": "object",
						"description": "Custom field names mapped to their values, " +
							"e.g. {\"Priority\": \"Critical\", \"Type\": \"Bug\"} (optional)",
					},
				},
				Required: []string{"project", "summary"},
			},
		},
		{
			Name:        ToolAddComment,
			Description: "Add a comment to an existing issue",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"issue_id": map[string]interface{}{
						"type":        "string",
						"description": "The issue ID or readable ID (e.g., PROJECT-123)",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The comment text to add to the issue",
					},
				},
				Required: []string{"issue_id", "text"},
			},
		},
		{
			Name:        ToolSearchIssues,
			Description: "Search for issues using YouTrack query syntax (e.g., 'project: DEMO #Unresolved')",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The YouTrack search query",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of issues to return (default: 10)",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

// Handle processes an MCP tool call request for issue operations.
func (h *IssueHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolGetIssue:
		return h.handleGetIssue(ctx, req.Arguments)
	case ToolGetIssueRaw:
		return h.handleGetIssueRaw(ctx, req.Arguments)
	case ToolCreateIssue:
		return h.handleCreateIssue(ctx, req.Arguments)
	case ToolAddComment:
		return h.handleAddComment(ctx, req.Arguments)
	case ToolSearchIssues:
		return h.handleSearchIssues(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown issue tool: %s", req.Name),
		}
	}
}

func (h *IssueHandler) handleGetIssue(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	issueID, err := getStringParam(args, "issue_id", true)
	if err != nil {
		return nil, err
	}
	return h.tools.GetIssue(ctx, issueID).ToolResponse(), nil
}

func (h *IssueHandler) handleGetIssueRaw(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	issueID, err := getStringParam(args, "issue_id", true)
	if err != nil {
		return nil, err
	}
	return h.tools.GetIssueRaw(ctx, issueID).ToolResponse(), nil
}

func (h *IssueHandler) handleCreateIssue(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	// Required-ness is enforced by the facade so missing values surface as
	// error envelopes, matching the tool contract.
	project, err := getStringParam(args, "project", false)
	if err != nil {
		return nil, err
	}
	summary, err := getStringParam(args, "summary", false)
	if err != nil {
		return nil, err
	}
	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	customFields, err := getObjectParam(args, "custom_fields", false)
	if err != nil {
		return nil, err
	}

	return h.tools.CreateIssue(ctx, project, summary, description, customFields).ToolResponse(), nil
}

func (h *IssueHandler) handleAddComment(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	issueID, err := getStringParam(args, "issue_id", true)
	if err != nil {
		return nil, err
	}
	text, err := getStringParam(args, "text", true)
	if err != nil {
		return nil, err
	}
	return h.tools.AddComment(ctx, issueID, text).ToolResponse(), nil
}

func (h *IssueHandler) handleSearchIssues(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	return h.tools.SearchIssues(ctx, query, limit).ToolResponse(), nil
}
