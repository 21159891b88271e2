package application

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"youtrack-mcp-server/internal/domain"
)

// Field selections requested from the YouTrack API. Everything the API
// returns for these selections passes through to the caller unchanged.
const (
	projectFields      = "id,name,shortName,description,archived,leader(id,login,name),createdBy(id,login,name)"
	projectFieldSchema = "id,field(id,name,fieldType(id)),canBeEmpty,emptyFieldText,bundle(id,values(id,name))"
	issueCustomFields  = "idReadable,customFields(id,name,value(id,name,login),$type)"
)

// fieldSampleLimit bounds how many issues get_project_fields scans when
// deriving which custom fields a project actually uses.
const fieldSampleLimit = 20

// ProjectTools is the stateless facade over the project resource area.
// Issue creation also depends on it for short-name resolution.
type ProjectTools struct {
	client domain.APIClient
	log    *logrus.Entry
}

// NewProjectTools creates the project facade.
func NewProjectTools(client domain.APIClient) *ProjectTools {
	return &ProjectTools{
		client: client,
		log:    logrus.WithField("tools", "projects"),
	}
}

// GetProjects returns the list of projects as plain mappings.
// Archived projects are filtered out unless includeArchived is set.
func (t *ProjectTools) GetProjects(ctx context.Context, includeArchived bool) *domain.Result {
	projects, err := t.fetchProjects(ctx)
	if err != nil {
		t.log.WithError(err).Error("error getting projects")
		return domain.Errorf("%v", err)
	}

	result := make([]interface{}, 0, len(projects))
	for _, project := range projects {
		if !includeArchived && domain.BoolField(project, "archived") {
			continue
		}
		result = append(result, project)
	}

	return domain.OK(result)
}

// GetProject returns a single project by its internal ID or short name.
func (t *ProjectTools) GetProject(ctx context.Context, projectID string) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}

	params := url.Values{"fields": {projectFields}}
	project, err := t.client.Get(ctx, "admin/projects/"+projectID, params)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting project")
		return domain.Errorf("%v", err)
	}

	return domain.OK(project)
}

// GetProjectByName finds a project by short name or name.
// A lookup miss is a descriptive not-found envelope, not a fault.
func (t *ProjectTools) GetProjectByName(ctx context.Context, projectName string) *domain.Result {
	if projectName == "" {
		return domain.Errorf("Project name is required")
	}

	project, err := t.FindProjectByName(ctx, projectName)
	if err != nil {
		t.log.WithError(err).WithField("project", projectName).Error("error finding project by name")
		return domain.Errorf("%v", err)
	}
	if project == nil {
		return domain.Errorf("Project '%s' not found", projectName)
	}

	return domain.OK(project)
}

// FindProjectByName resolves a human-readable project name to its record.
// Match order: exact short name, exact name, partial (case-insensitive)
// name. Returns (nil, nil) when nothing matches.
func (t *ProjectTools) FindProjectByName(ctx context.Context, projectName string) (map[string]interface{}, error) {
	projects, err := t.fetchProjects(ctx)
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		if domain.StringField(project, "shortName") == projectName {
			return project, nil
		}
	}
	for _, project := range projects {
		if domain.StringField(project, "name") == projectName {
			return project, nil
		}
	}
	lowered := strings.ToLower(projectName)
	for _, project := range projects {
		if strings.Contains(strings.ToLower(domain.StringField(project, "name")), lowered) {
			return project, nil
		}
	}

	return nil, nil
}

// GetProjectIssues returns issues of a project identified by internal ID or
// short name. The ID path is tried first; on a distinguishable not-found
// outcome the identifier is resolved as a name and the lookup retried once.
func (t *ProjectTools) GetProjectIssues(ctx context.Context, projectID string, limit int) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}
	if limit <= 0 {
		limit = 50
	}

	issues, err := t.fetchProjectIssues(ctx, projectID, limit)
	if err == nil {
		return domain.OK(issues)
	}
	if !domain.IsNotFound(err) {
		t.log.WithError(err).WithField("project", projectID).Error("error getting project issues")
		return domain.Errorf("%v", err)
	}

	// Resolution fallback: the identifier may be a name.
	project, err := t.FindProjectByName(ctx, projectID)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error resolving project name")
		return domain.Errorf("%v", err)
	}
	if project == nil {
		return domain.Errorf("Project not found: %s", projectID)
	}

	issues, err = t.fetchProjectIssues(ctx, domain.StringField(project, "id"), limit)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting project issues")
		return domain.Errorf("%v", err)
	}
	return domain.OK(issues)
}

// GetCustomFields returns the custom field schema of a project.
// The response shape is not trusted: mappings pass through, sequences are
// mapped element-wise with string coercion as the last resort, and anything
// else degrades to a best-effort value. Shape surprises never fault.
func (t *ProjectTools) GetCustomFields(ctx context.Context, projectID string) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}

	params := url.Values{"fields": {projectFieldSchema}}
	fields, err := t.client.Get(ctx, "admin/projects/"+projectID+"/customFields", params)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting custom fields")
		return domain.Errorf("%v", err)
	}

	return domain.OK(coerceCustomFields(fields))
}

// coerceCustomFields normalizes whatever shape the field list arrived in.
func coerceCustomFields(fields domain.Value) domain.Value {
	if fields == nil {
		return []interface{}{}
	}
	if obj, ok := domain.AsObject(fields); ok {
		return obj
	}
	if arr, ok := domain.AsArray(fields); ok {
		result := make([]interface{}, 0, len(arr))
		for _, field := range arr {
			if obj, ok := domain.AsObject(field); ok {
				result = append(result, obj)
			} else {
				result = append(result, fmt.Sprintf("%v", field))
			}
		}
		return result
	}
	return map[string]interface{}{"custom_fields": fmt.Sprintf("%v", fields)}
}

// GetProjectDetailed enriches the basic project record with its custom field
// schema, the list of required fields, and a usage hint for issue creation.
func (t *ProjectTools) GetProjectDetailed(ctx context.Context, projectID string) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}

	params := url.Values{"fields": {projectFields}}
	project, err := t.client.Get(ctx, "admin/projects/"+projectID, params)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting detailed project info")
		return domain.Errorf("%v", err)
	}

	schemaParams := url.Values{"fields": {projectFieldSchema}}
	fields, err := t.client.Get(ctx, "admin/projects/"+projectID+"/customFields", schemaParams)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting custom fields")
		return domain.Errorf("%v", err)
	}

	customFields := coerceCustomFields(fields)
	var requiredFields []interface{}
	if arr, ok := domain.AsArray(customFields); ok {
		for _, field := range arr {
			obj, ok := domain.AsObject(field)
			if !ok {
				continue
			}
			if canBeEmpty, present := obj["canBeEmpty"].(bool); present && !canBeEmpty {
				if name := domain.StringField(obj["field"], "name"); name != "" {
					requiredFields = append(requiredFields, name)
				}
			}
		}
	}
	if requiredFields == nil {
		requiredFields = []interface{}{}
	}

	return domain.OK(map[string]interface{}{
		"project":         project,
		"custom_fields":   customFields,
		"required_fields": requiredFields,
		"usage_hint": "Fields listed in required_fields must be provided via custom_fields when " +
			"creating issues. Enum fields accept the value names listed in their bundle.",
	})
}

// GetProjectFields derives custom field usage statistics by scanning a
// sample of the project's issues: which fields actually appear, their types,
// and sample values.
func (t *ProjectTools) GetProjectFields(ctx context.Context, projectID string) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}

	issues, err := t.fetchProjectIssues(ctx, projectID, fieldSampleLimit)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error getting project fields")
		return domain.Errorf("%v", err)
	}

	return domain.OK(map[string]interface{}{
		"project_id":     projectID,
		"issues_sampled": len(issues),
		"fields":         summarizeFieldUsage(issues),
	})
}

// summarizeFieldUsage aggregates per-field statistics from sampled issues.
func summarizeFieldUsage(issues []interface{}) []interface{} {
	type fieldStats struct {
		name      string
		fieldType string
		count     int
		values    []interface{}
		seen      map[string]bool
	}

	var order []string
	stats := make(map[string]*fieldStats)

	for _, issue := range issues {
		obj, ok := domain.AsObject(issue)
		if !ok {
			continue
		}
		fields, ok := domain.AsArray(obj["customFields"])
		if !ok {
			continue
		}
		for _, field := range fields {
			fieldObj, ok := domain.AsObject(field)
			if !ok {
				continue
			}
			name := domain.StringField(fieldObj, "name")
			if name == "" {
				continue
			}

			entry, exists := stats[name]
			if !exists {
				entry = &fieldStats{
					name:      name,
					fieldType: domain.StringField(fieldObj, "$type"),
					seen:      make(map[string]bool),
				}
				stats[name] = entry
				order = append(order, name)
			}
			entry.count++

			value := fieldObj["value"]
			if value == nil {
				continue
			}
			display := domain.StringField(value, "name")
			if display == "" {
				display = fmt.Sprintf("%v", value)
			}
			if !entry.seen[display] && len(entry.values) < 5 {
				entry.seen[display] = true
				entry.values = append(entry.values, display)
			}
		}
	}

	result := make([]interface{}, 0, len(order))
	for _, name := range order {
		entry := stats[name]
		values := entry.values
		if values == nil {
			values = []interface{}{}
		}
		result = append(result, map[string]interface{}{
			"name":          entry.name,
			"type":          entry.fieldType,
			"usage_count":   entry.count,
			"sample_values": values,
		})
	}
	return result
}

// CreateProject creates a new project. All three identifying arguments are
// required and validated before any remote call.
func (t *ProjectTools) CreateProject(ctx context.Context, name, shortName, leadID, description string) *domain.Result {
	if name == "" {
		return domain.Errorf("Project name is required")
	}
	if shortName == "" {
		return domain.Errorf("Project short name is required")
	}
	if leadID == "" {
		return domain.Errorf("Project leader ID is required")
	}

	body := map[string]interface{}{
		"name":      name,
		"shortName": shortName,
		"leader":    map[string]interface{}{"id": leadID},
	}
	if description != "" {
		body["description"] = description
	}

	params := url.Values{"fields": {projectFields}}
	project, err := t.client.Post(ctx, "admin/projects", params, body)
	if err != nil {
		t.log.WithError(err).WithField("project", name).Error("error creating project")
		return domain.Errorf("%v", err)
	}

	return domain.OK(project)
}

// ProjectUpdate carries the caller-supplied patch for UpdateProject.
// Nil members were not supplied and stay untouched on the server.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Archived    *bool
	LeadID      *string
	ShortName   *string
}

// patch builds the sparse request body; empty when nothing was supplied.
func (u *ProjectUpdate) patch() map[string]interface{} {
	data := make(map[string]interface{})
	if u.Name != nil {
		data["name"] = *u.Name
	}
	if u.Description != nil {
		data["description"] = *u.Description
	}
	if u.Archived != nil {
		data["archived"] = *u.Archived
	}
	if u.LeadID != nil {
		data["leader"] = map[string]interface{}{"id": *u.LeadID}
	}
	if u.ShortName != nil {
		data["shortName"] = *u.ShortName
	}
	return data
}

// UpdateProject applies a sparse patch to an existing project. The current
// record is fetched first so unspecified fields are never clobbered; with no
// supplied keys it is returned unchanged and no patch call is issued. The
// patch itself is best-effort: the result is confirmed by re-reading the
// project, not by the write response.
func (t *ProjectTools) UpdateProject(ctx context.Context, projectID string, update ProjectUpdate) *domain.Result {
	if projectID == "" {
		return domain.Errorf("Project ID is required")
	}

	params := url.Values{"fields": {projectFields}}
	existing, err := t.client.Get(ctx, "admin/projects/"+projectID, params)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error fetching project for update")
		return domain.Errorf("Could not update project: %v", err)
	}

	data := update.patch()
	if len(data) == 0 {
		t.log.WithField("project", projectID).Info("no parameters to update, returning current project")
		return domain.OK(existing)
	}

	if _, err := t.client.Post(ctx, "admin/projects/"+projectID, params, data); err != nil {
		// The write may still have been applied; the re-read below decides.
		t.log.WithError(err).WithField("project", projectID).Warn("update API call error")
	}

	updated, err := t.client.Get(ctx, "admin/projects/"+projectID, params)
	if err != nil {
		t.log.WithError(err).WithField("project", projectID).Error("error retrieving updated project")
		return domain.Errorf("Project was updated but could not retrieve the result: %v", err)
	}

	return domain.OK(updated)
}

// fetchProjects retrieves the full project list as object records.
func (t *ProjectTools) fetchProjects(ctx context.Context) ([]map[string]interface{}, error) {
	params := url.Values{"fields": {projectFields}}
	value, err := t.client.Get(ctx, "admin/projects", params)
	if err != nil {
		return nil, err
	}

	arr, ok := domain.AsArray(value)
	if !ok {
		return nil, fmt.Errorf("unexpected project list response: %T", value)
	}

	projects := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if obj, ok := domain.AsObject(item); ok {
			projects = append(projects, obj)
		}
	}
	return projects, nil
}

// fetchProjectIssues retrieves up to limit issues of a project by its ID.
func (t *ProjectTools) fetchProjectIssues(ctx context.Context, projectID string, limit int) ([]interface{}, error) {
	params := url.Values{
		"fields": {issueListFields},
		"$top":   {strconv.Itoa(limit)},
	}
	value, err := t.client.Get(ctx, "admin/projects/"+projectID+"/issues", params)
	if err != nil {
		return nil, err
	}

	arr, ok := domain.AsArray(value)
	if !ok {
		if value == nil {
			return []interface{}{}, nil
		}
		return []interface{}{value}, nil
	}
	return arr, nil
}
