package application

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"youtrack-mcp-server/internal/domain"
)

// issueListFields is the fixed field selection for issue reads. Whatever the
// API returns for it passes through unchanged.
const issueListFields = "id,idReadable,summary,description,created,updated," +
	"project(id,name,shortName),reporter(id,login,name)," +
	"assignee(id,login,name),customFields(id,name,value)"

// internalIDPrefix marks YouTrack internal project IDs ("0-123"). Anything
// else supplied as a project is treated as a short name and resolved first.
const internalIDPrefix = "0-"

// IssueTools is the stateless facade over the issue resource area.
// It depends on ProjectTools for short-name resolution during creation.
type IssueTools struct {
	client   domain.APIClient
	projects *ProjectTools
	log      *logrus.Entry
}

// NewIssueTools creates the issue facade.
func NewIssueTools(client domain.APIClient, projects *ProjectTools) *IssueTools {
	return &IssueTools{
		client:   client,
		projects: projects,
		log:      logrus.WithField("tools", "issues"),
	}
}

// GetIssue returns an issue by internal or readable ID with the fixed field
// selection. Minimal Issue-typed replies get a default summary injected.
func (t *IssueTools) GetIssue(ctx context.Context, issueID string) *domain.Result {
	params := url.Values{"fields": {issueListFields}}
	issue, err := t.client.Get(ctx, "issues/"+issueID, params)
	if err != nil {
		t.log.WithError(err).WithField("issue", issueID).Error("error getting issue")
		return domain.Errorf("%v", err)
	}

	if obj, ok := domain.AsObject(issue); ok {
		if obj["$type"] == "Issue" {
			if _, hasSummary := obj["summary"]; !hasSummary {
				obj["summary"] = "Issue " + issueID
			}
		}
	}

	return domain.OK(issue)
}

// GetIssueRaw returns an issue without any field selection, exactly as the
// API serves it.
func (t *IssueTools) GetIssueRaw(ctx context.Context, issueID string) *domain.Result {
	issue, err := t.client.Get(ctx, "issues/"+issueID, nil)
	if err != nil {
		t.log.WithError(err).WithField("issue", issueID).Error("error getting raw issue")
		return domain.Errorf("%v", err)
	}
	return domain.OK(issue)
}

// SearchIssues runs a YouTrack query and returns up to limit issues.
func (t *IssueTools) SearchIssues(ctx context.Context, query string, limit int) *domain.Result {
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

// CreateIssue creates an issue in a project identified by internal ID or
// short name. Validation failures and resolution misses are reported before
// any create call; a successful creation gets a browsable url and a success
// status appended to the passed-through record.
func (t *IssueTools) CreateIssue(ctx context.Context, project, summary, description string, customFields map[string]interface{}) *domain.Result {
	if project == "" {
		return domain.StatusErrorf("Project is required")
	}
	if summary == "" {
		return domain.StatusErrorf("Summary is required")
	}

	projectID := project
	if !strings.HasPrefix(project, internalIDPrefix) {
		t.log.WithField("project", project).Info("looking up project ID")
		record, err := t.projects.FindProjectByName(ctx, project)
		if err != nil {
			t.log.WithError(err).WithField("project", project).Warn("error finding project")
			return domain.StatusErrorf("Error finding project: %v", err)
		}
		if record == nil {
			t.log.WithField("project", project).Warn("project not found")
			return domain.StatusErrorf("Project not found: %s", project)
		}
		projectID = domain.StringField(record, "id")
	}

	body := map[string]interface{}{
		"project": map[string]interface{}{"id": projectID},
		"summary": summary,
	}
	if description != "" {
		body["description"] = description
	}
	if len(customFields) > 0 {
		body["customFields"] = buildCustomFieldValues(customFields)
	}

	params := url.Values{"fields": {issueListFields}}
	issue, err := t.client.Post(ctx, "issues", params, body)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("API error creating issue")
		return domain.StatusErrorf("%v", err)
	}

	result, ok := domain.AsObject(issue)
	if !ok {
		result = map[string]interface{}{
			"id":      nil,
			"summary": summary,
			"project": project,
			"$type":   "Issue",
		}
		if description != "" {
			result["description"] = description
		}
	}

	if issueURL := t.issueURL(domain.StringField(result, "id"), domain.StringField(result, "idReadable")); issueURL != "" {
		result["url"] = issueURL
		result["status"] = "success"
		t.log.WithField("url", issueURL).Info("issue created successfully")
	}

	return domain.OK(result)
}

// issueURL builds the browsable link for a created issue, preferring the
// readable ID.
func (t *IssueTools) issueURL(issueID, readableID string) string {
	base := t.client.BaseURL()
	if readableID != "" {
		return base + "/issue/" + readableID
	}
	if issueID != "" {
		return base + "/issue/" + issueID
	}
	return ""
}

// buildCustomFieldValues converts the caller's name→value mapping into the
// API's customFields list. String values become enum-style {"name": value}
// references; structured values pass through as given.
func buildCustomFieldValues(customFields map[string]interface{}) []interface{} {
	fields := make([]interface{}, 0, len(customFields))
	for name, value := range customFields {
		entry := map[string]interface{}{"name": name}
		if s, ok := value.(string); ok {
			entry["value"] = map[string]interface{}{"name": s}
		} else {
			entry["value"] = value
		}
		fields = append(fields, entry)
	}
	return fields
}

// AddComment posts a comment on an issue and passes the reply through.
func (t *IssueTools) AddComment(ctx context.Context, issueID, text string) *domain.Result {
	params := url.Values{"fields": {"id,text,created,author(id,login,name)"}}
	body := map[string]interface{}{"text": text}

	comment, err := t.client.Post(ctx, "issues/"+issueID+"/comments", params, body)
	if err != nil {
		t.log.WithError(err).WithField("issue", issueID).Error("error adding comment")
		return domain.Errorf("%v", err)
	}
	return domain.OK(comment)
}
