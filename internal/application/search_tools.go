package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"youtrack-mcp-server/internal/domain"
)

// SearchTools is the stateless facade over advanced issue search.
type SearchTools struct {
	client domain.APIClient
	log    *logrus.Entry
}

// NewSearchTools creates the search facade.
func NewSearchTools(client domain.APIClient) *SearchTools {
	return &SearchTools{
		client: client,
		log:    logrus.WithField("tools", "search"),
	}
}

// AdvancedSearch runs a YouTrack query with optional sorting.
// Sorting is expressed in the query language itself ("sort by: <field> <order>").
func (t *SearchTools) AdvancedSearch(ctx context.Context, query string, limit int, sortBy, sortOrder string) *domain.Result {
	if limit <= 0 {
		limit = 10
	}

	fullQuery := query
	if sortBy != "" {
		fullQuery = strings.TrimSpace(fullQuery) + " sort by: " + sortBy
		if sortOrder != "" {
			fullQuery += " " + sortOrder
		}
	}

	params := url.Values{
		"query":  {fullQuery},
		"$top":   {strconv.Itoa(limit)},
		"fields": {issueListFields},
	}
	issues, err := t.client.Get(ctx, "issues", params)
	if err != nil {
		t.log.WithError(err).WithField("query", fullQuery).Error("error in advanced search")
		return domain.Errorf("%v", err)
	}
	return domain.OK(issues)
}

// IssueFilter holds the optional criteria of filter_issues. Empty fields are
// left out of the composed query.
type IssueFilter struct {
	Project       string
	Author        string
	Assignee      string
	State         string
	Priority      string
	Text          string
	CreatedAfter  string
	CreatedBefore string
	UpdatedAfter  string
	UpdatedBefore string
}

// Query composes a YouTrack query string from the non-empty criteria.
func (f *IssueFilter) Query() string {
	var parts []string

	if f.Project != "" {
		parts = append(parts, "project: "+f.Project)
	}
	if f.Author != "" {
		parts = append(parts, "by: "+f.Author)
	}
	if f.Assignee != "" {
		parts = append(parts, "for: "+f.Assignee)
	}
	if f.State != "" {
		parts = append(parts, "State: "+quoteIfSpaced(f.State))
	}
	if f.Priority != "" {
		parts = append(parts, "Priority: "+quoteIfSpaced(f.Priority))
	}
	if rangeQuery := dateRange("created", f.CreatedAfter, f.CreatedBefore); rangeQuery != "" {
		parts = append(parts, rangeQuery)
	}
	if rangeQuery := dateRange("updated", f.UpdatedAfter, f.UpdatedBefore); rangeQuery != "" {
		parts = append(parts, rangeQuery)
	}
	if f.Text != "" {
		parts = append(parts, f.Text)
	}

	return strings.Join(parts, " ")
}

// dateRange builds a "field: after .. before" clause; open ends use the
// query language's wildcard.
func dateRange(field, after, before string) string {
	if after == "" && before == "" {
		return ""
	}
	if after == "" {
		after = "*"
	}
	if before == "" {
		before = "*"
	}
	return fmt.Sprintf("%s: %s .. %s", field, after, before)
}

// quoteIfSpaced wraps multi-word values in braces, as the query language
// requires for values containing spaces.
func quoteIfSpaced(value string) string {
	if strings.ContainsRune(value, ' ') {
		return "{" + value + "}"
	}
	return value
}

// FilterIssues composes a query from the supplied criteria and performs one
// search call.
func (t *SearchTools) FilterIssues(ctx context.Context, filter IssueFilter, limit int) *domain.Result {
	return t.AdvancedSearch(ctx, filter.Query(), limit, "", "")
}

// SearchWithCustomFields searches issues and guarantees that every requested
// custom field is represented in each result, adding absent fields with a
// null value. The requested fields arrive as a JSON string: either an array
// of names or an object whose keys are names.
func (t *SearchTools) SearchWithCustomFields(ctx context.Context, query, customFieldsJSON string, limit int) *domain.Result {
	fieldNames, err := parseRequestedFields(customFieldsJSON)
	if err != nil {
		return domain.Errorf("Invalid custom_fields JSON: %v", err)
	}

	result := t.SearchIssuesValue(ctx, query, limit)
	if result.IsError() {
		return result
	}

	issues, ok := domain.AsArray(result.Value())
	if !ok {
		return result
	}

	for _, issue := range issues {
		obj, ok := domain.AsObject(issue)
		if !ok {
			continue
		}
		ensureCustomFields(obj, fieldNames)
	}

	return domain.OK(issues)
}

// SearchIssuesValue performs the underlying parametrized search call.
func (t *SearchTools) SearchIssuesValue(ctx context.Context, query string, limit int) *domain.Result {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"query":  {query},
		"$top":   {strconv.Itoa(limit)},
		"fields": {issueListFields},
	}
	issues, err := t.client.Get(ctx, "issues", params)
	if err != nil {
		t.log.WithError(err).WithField("query", query).Error("error searching issues")
		return domain.Errorf("%v", err)
	}
	return domain.OK(issues)
}

// parseRequestedFields accepts ["Priority","Type"] or {"Priority": ...}.
func parseRequestedFields(customFieldsJSON string) ([]string, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(customFieldsJSON), &value); err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("field names must be strings, got %T", item)
			}
			names = append(names, name)
		}
		return names, nil
	case map[string]interface{}:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("expected a JSON array or object, got %T", value)
	}
}

// ensureCustomFields adds placeholder entries for requested fields the issue
// does not carry.
func ensureCustomFields(issue map[string]interface{}, fieldNames []string) {
	existing, _ := domain.AsArray(issue["customFields"])
	present := make(map[string]bool, len(existing))
	for _, field := range existing {
		if name := domain.StringField(field, "name"); name != "" {
			present[name] = true
		}
	}

	for _, name := range fieldNames {
		if !present[name] {
			existing = append(existing, map[string]interface{}{
				"name":  name,
				"value": nil,
			})
		}
	}
	issue["customFields"] = existing
}
