package application

import (
	"context"
	"fmt"

	"youtrack-mcp-server/internal/domain"
)

// ProjectHandler implements ToolHandler for project operations.
type ProjectHandler struct {
	tools *ProjectTools
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(tools *ProjectTools) *ProjectHandler {
	return &ProjectHandler{tools: tools}
}

// Tool name constants for project operations
const (
	ToolGetProjects        = "get_projects"
	ToolGetProject         = "get_project"
	ToolGetProjectByName   = "get_project_by_name"
	ToolGetProjectIssues   = "get_project_issues"
	ToolGetCustomFields    = "get_custom_fields"
	ToolGetProjectDetailed = "get_project_detailed"
	ToolGetProjectFields   = "get_project_fields"
	ToolCreateProject      = "create_project"
	ToolUpdateProject      = "update_project"
)

// ToolName returns the identifier for this handler.
func (h *ProjectHandler) ToolName() string {
	return "projects"
}

// projectIDSchema is shared by all tools addressing one project. The
// alternative "project" parameter name is accepted for compatibility with
// clients that use it.
func projectIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"project_id": map[string]interface{}{
			"type":        "string",
			"description": "The project ID (e.g., '0-167') or short name (e.g., 'DEMO')",
		},
		"project": map[string]interface{}{
			"type":        "string",
			"description": "Alternative parameter name for project_id",
		},
	}
}

// ListTools returns available tools for project operations.
func (h *ProjectHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name: ToolGetProjects,
			Description: "Get a list of all YouTrack projects with ID, name, short name, " +
				"description and archived status",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"include_archived": map[string]interface{}{
						"type":        "boolean",
						"description": "Include archived projects in the results (default: false)",
					},
				},
			},
		},
		{
			Name:        ToolGetProject,
			Description: "Get detailed information about a specific project",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: projectIDSchema(),
			},
		},
		{
			Name: ToolGetProjectByName,
			Description: "Find a project by name or short name. Searches in order: exact short name, " +
				"exact name, partial name match",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"project_name": map[string]interface{}{
						"type":        "string",
						"description": "The project name or short name to search for",
					},
				},
				Required: []string{"project_name"},
			},
		},
		{
			Name:        ToolGetProjectIssues,
			Description: "Get issues for a specific project, identified by ID or name",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: mergeProperties(projectIDSchema(), map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of issues to return (default: 50)",
					},
				}),
			},
		},
		{
			Name:        ToolGetCustomFields,
			Description: "Get the custom field schema configured for a project",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: projectIDSchema(),
			},
		},
		{
			Name: ToolGetProjectDetailed,
			Description: "Get comprehensive project information including custom field schema and " +
				"required fields. Use before creating issues",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: projectIDSchema(),
			},
		},
		{
			Name: ToolGetProjectFields,
			Description: "Analyze a sample of project issues to report which custom fields are " +
				"actually used, their types and sample values",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: projectIDSchema(),
			},
		},
		{
			Name:        ToolCreateProject,
			Description: "Create a new YouTrack project with a required leader",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The full display name of the project",
					},
					"short_name": map[string]interface{}{
						"type":        "string",
						"description": "The short identifier used as prefix for issue IDs (e.g., 'CS')",
					},
					"lead_id": map[string]interface{}{
						"type":        "string",
						"description": "The user ID of the project leader (e.g., '1-621')",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Optional description of the project",
					},
				},
				Required: []string{"name", "short_name", "lead_id"},
			},
		},
		{
			Name: ToolUpdateProject,
			Description: "Update an existing project. Only supplied parameters are changed; " +
				"the result is the re-fetched project",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: mergeProperties(projectIDSchema(), map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "New display name (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "New description (optional)",
					},
					"archived": map[string]interface{}{
						"type":        "boolean",
						"description": "Archive or unarchive the project (optional)",
					},
					"lead_id": map[string]interface{}{
						"type":        "string",
						"description": "New project leader's user ID (optional)",
					},
					"short_name": map[string]interface{}{
						"type":        "string",
						"description": "New short name, affects future issue IDs (optional)",
					},
				}),
			},
		},
	}
}

// mergeProperties combines two JSON schema property maps.
func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Handle processes an MCP tool call request for project operations.
func (h *ProjectHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolGetProjects:
		return h.handleGetProjects(ctx, req.Arguments)
	case ToolGetProject:
		return h.handleGetProject(ctx, req.Arguments)
	case ToolGetProjectByName:
		return h.handleGetProjectByName(ctx, req.Arguments)
	case ToolGetProjectIssues:
		return h.handleGetProjectIssues(ctx, req.Arguments)
	case ToolGetCustomFields:
		return h.handleGetCustomFields(ctx, req.Arguments)
	case ToolGetProjectDetailed:
		return h.handleGetProjectDetailed(ctx, req.Arguments)
	case ToolGetProjectFields:
		return h.handleGetProjectFields(ctx, req.Arguments)
	case ToolCreateProject:
		return h.handleCreateProject(ctx, req.Arguments)
	case ToolUpdateProject:
		return h.handleUpdateProject(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown project tool: %s", req.Name),
		}
	}
}

// projectIdentifier reads project_id with project as the fallback name.
// Missing values stay empty; the facade reports the envelope.
func projectIdentifier(args map[string]interface{}) (string, error) {
	projectID, err := getStringParam(args, "project_id", false)
	if err != nil {
		return "", err
	}
	if projectID != "" {
		return projectID, nil
	}
	return getStringParam(args, "project", false)
}

func (h *ProjectHandler) handleGetProjects(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	includeArchived, err := getBoolParam(args, "include_archived", false)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProjects(ctx, includeArchived).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetProject(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProject(ctx, projectID).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetProjectByName(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectName, err := getStringParam(args, "project_name", false)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProjectByName(ctx, projectName).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetProjectIssues(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProjectIssues(ctx, projectID, limit).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetCustomFields(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}
	return h.tools.GetCustomFields(ctx, projectID).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetProjectDetailed(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProjectDetailed(ctx, projectID).ToolResponse(), nil
}

func (h *ProjectHandler) handleGetProjectFields(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}
	return h.tools.GetProjectFields(ctx, projectID).ToolResponse(), nil
}

func (h *ProjectHandler) handleCreateProject(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	name, err := getStringParam(args, "name", false)
	if err != nil {
		return nil, err
	}
	shortName, err := getStringParam(args, "short_name", false)
	if err != nil {
		return nil, err
	}
	leadID, err := getStringParam(args, "lead_id", false)
	if err != nil {
		return nil, err
	}
	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	return h.tools.CreateProject(ctx, name, shortName, leadID, description).ToolResponse(), nil
}

func (h *ProjectHandler) handleUpdateProject(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	projectID, err := projectIdentifier(args)
	if err != nil {
		return nil, err
	}

	var update ProjectUpdate
	if update.Name, err = optionalStringParam(args, "name"); err != nil {
		return nil, err
	}
	if update.Description, err = optionalStringParam(args, "description"); err != nil {
		return nil, err
	}
	if update.Archived, err = optionalBoolParam(args, "archived"); err != nil {
		return nil, err
	}
	if update.LeadID, err = optionalStringParam(args, "lead_id"); err != nil {
		return nil, err
	}
	if update.ShortName, err = optionalStringParam(args, "short_name"); err != nil {
		return nil, err
	}

	return h.tools.UpdateProject(ctx, projectID, update).ToolResponse(), nil
}
