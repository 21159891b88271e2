package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp-server/internal/domain"
)

// stubHandler is a minimal ToolHandler for router tests.
type stubHandler struct {
	name  string
	tools []string
	got   []string
}

func (s *stubHandler) ToolName() string { return s.name }

func (s *stubHandler) ListTools() []domain.ToolDefinition {
	defs := make([]domain.ToolDefinition, 0, len(s.tools))
	for _, name := range s.tools {
		defs = append(defs, domain.ToolDefinition{
			Name:        name,
			InputSchema: domain.JSONSchema{Type: "object"},
		})
	}
	return defs
}

func (s *stubHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	s.got = append(s.got, req.Name)
	return domain.TextResponse("handled by "+s.name, false), nil
}

func TestRouterDispatchesByExactToolName(t *testing.T) {
	issues := &stubHandler{name: "issues", tools: []string{"get_issue", "create_issue"}}
	users := &stubHandler{name: "users", tools: []string{"get_user"}}
	router := NewRequestRouter(issues, users)

	resp, err := router.Route(context.Background(), &domain.ToolRequest{Name: "get_user"})
	require.NoError(t, err)
	assert.Equal(t, "handled by users", resp.Content[0].Text)
	assert.Equal(t, []string{"get_user"}, users.got)
	assert.Empty(t, issues.got)

	_, err = router.Route(context.Background(), &domain.ToolRequest{Name: "create_issue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"create_issue"}, issues.got)
}

func TestRouterUnknownTool(t *testing.T) {
	router := NewRequestRouter(&stubHandler{name: "issues", tools: []string{"get_issue"}})

	_, err := router.Route(context.Background(), &domain.ToolRequest{Name: "does_not_exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool: does_not_exist")
}

func TestRouterListAllTools(t *testing.T) {
	router := NewRequestRouter(
		&stubHandler{name: "a", tools: []string{"one", "two"}},
		&stubHandler{name: "b", tools: []string{"three"}},
	)

	tools := router.ListAllTools()
	require.Len(t, tools, 3)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
}

func TestRouterGetHandler(t *testing.T) {
	issues := &stubHandler{name: "issues", tools: []string{"get_issue"}}
	router := NewRequestRouter(issues)

	handler, ok := router.GetHandler("issues")
	assert.True(t, ok)
	assert.Same(t, domain.ToolHandler(issues), handler)

	_, ok = router.GetHandler("missing")
	assert.False(t, ok)
}

// newFullRouter wires every real handler against a mock instance, the same
// shape main constructs.
func newFullRouter(m *mockYouTrack) *RequestRouter {
	client := m.client()
	projectTools := NewProjectTools(client)
	return NewRequestRouter(
		NewIssueHandler(NewIssueTools(client, projectTools)),
		NewProjectHandler(projectTools),
		NewSearchHandler(NewSearchTools(client)),
		NewUserHandler(NewUserTools(client)),
		NewGuideHandler(NewSearchGuide()),
	)
}

func TestRouterRegistersFullToolSurface(t *testing.T) {
	router := newFullRouter(newMockYouTrack(t))

	expected := []string{
		"get_issue", "get_issue_raw", "create_issue", "add_comment", "search_issues",
		"get_projects", "get_project", "get_project_by_name", "get_project_issues",
		"get_custom_fields", "get_project_detailed", "get_project_fields",
		"create_project", "update_project",
		"advanced_search", "filter_issues", "search_with_custom_fields",
		"get_user", "get_user_by_login", "search_users", "get_current_user",
		"get_search_syntax_guide", "get_common_queries",
	}

	tools := router.ListAllTools()
	registered := make(map[string]bool, len(tools))
	for _, tool := range tools {
		assert.False(t, registered[tool.Name], "duplicate tool name %s", tool.Name)
		registered[tool.Name] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "tool %s not registered", name)
	}
	assert.Len(t, tools, len(expected))
}

func TestRouterEndToEndToolCall(t *testing.T) {
	m := newMockYouTrack(t)
	m.handleJSON("/api/issues/DEMO-1", map[string]interface{}{
		"$type":   "Issue",
		"id":      "2-1",
		"summary": "Routed",
	})

	router := newFullRouter(m)
	resp, err := router.Route(context.Background(), &domain.ToolRequest{
		Name:      "get_issue",
		Arguments: map[string]interface{}{"issue_id": "DEMO-1"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.False(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "Routed")
}
