package application

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"youtrack-mcp-server/internal/domain"
)

// userFields is the fixed field selection for user reads.
const userFields = "id,login,name,email,banned,online"

// UserTools is the stateless facade over the user resource area.
type UserTools struct {
	client domain.APIClient
	log    *logrus.Entry
}

// NewUserTools creates the user facade.
func NewUserTools(client domain.APIClient) *UserTools {
	return &UserTools{
		client: client,
		log:    logrus.WithField("tools", "users"),
	}
}

// GetUser returns a user by internal ID.
func (t *UserTools) GetUser(ctx context.Context, userID string) *domain.Result {
	if userID == "" {
		return domain.Errorf("User ID is required")
	}

	params := url.Values{"fields": {userFields}}
	user, err := t.client.Get(ctx, "users/"+userID, params)
	if err != nil {
		t.log.WithError(err).WithField("user", userID).Error("error getting user")
		return domain.Errorf("%v", err)
	}
	return domain.OK(user)
}

// GetUserByLogin finds a user by exact login. A miss is a descriptive
// not-found envelope, not a fault.
func (t *UserTools) GetUserByLogin(ctx context.Context, login string) *domain.Result {
	if login == "" {
		return domain.Errorf("User login is required")
	}

	params := url.Values{
		"query":  {login},
		"fields": {userFields},
	}
	value, err := t.client.Get(ctx, "users", params)
	if err != nil {
		t.log.WithError(err).WithField("login", login).Error("error getting user by login")
		return domain.Errorf("%v", err)
	}

	if users, ok := domain.AsArray(value); ok {
		for _, user := range users {
			if domain.StringField(user, "login") == login {
				return domain.OK(user)
			}
		}
	}

	return domain.Errorf("User '%s' not found", login)
}

// SearchUsers searches users by name or login.
func (t *UserTools) SearchUsers(ctx context.Context, query string, limit int) *domain.Result {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"query":  {query},
		"$top":   {strconv.Itoa(limit)},
		"fields": {userFields},
	}
	users, err := t.client.Get(ctx, "users", params)
	if err != nil {
		t.log.WithError(err).WithField("query", query).Error("error searching users")
		return domain.Errorf("%v", err)
	}
	return domain.OK(users)
}

// GetCurrentUser returns the user the configured token belongs to.
func (t *UserTools) GetCurrentUser(ctx context.Context) *domain.Result {
	params := url.Values{"fields": {userFields}}
	user, err := t.client.Get(ctx, "users/me", params)
	if err != nil {
		t.log.WithError(err).Error("error getting current user")
		return domain.Errorf("%v", err)
	}
	return domain.OK(user)
}
