package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp-server/internal/domain"
)

func TestGuideHandlerServesStaticText(t *testing.T) {
	handler := NewGuideHandler(NewSearchGuide())

	resp, err := handler.Handle(context.Background(), &domain.ToolRequest{Name: ToolSearchSyntaxGuide})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.False(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "sort by:")
	assert.Contains(t, resp.Content[0].Text, "project:")

	queries, err := handler.Handle(context.Background(), &domain.ToolRequest{Name: ToolCommonQueries})
	require.NoError(t, err)
	assert.Contains(t, queries.Content[0].Text, "#Unresolved")
}

func TestGuideHandlerIsDeterministic(t *testing.T) {
	handler := NewGuideHandler(NewSearchGuide())

	first, err := handler.Handle(context.Background(), &domain.ToolRequest{Name: ToolSearchSyntaxGuide})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), &domain.ToolRequest{Name: ToolSearchSyntaxGuide})
	require.NoError(t, err)

	assert.Equal(t, first.Content[0].Text, second.Content[0].Text)
}

func TestGuideHandlerUnknownTool(t *testing.T) {
	handler := NewGuideHandler(NewSearchGuide())

	_, err := handler.Handle(context.Background(), &domain.ToolRequest{Name: "get_unknown_guide"})
	require.Error(t, err)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.MethodNotFound, domainErr.Code)
}

func TestGuideHandlerListTools(t *testing.T) {
	tools := NewGuideHandler(NewSearchGuide()).ListTools()
	require.Len(t, tools, 2)
	assert.Equal(t, ToolSearchSyntaxGuide, tools[0].Name)
	assert.Equal(t, ToolCommonQueries, tools[1].Name)
}
