package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/usergroups/internal/config"
	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/handler"
	"github.com/deppfellow/usergroups/internal/middleware"
	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/server"
	"github.com/deppfellow/usergroups/internal/service"
	"github.com/deppfellow/usergroups/internal/sqlerr"
)

type fakeUsers struct {
	users []model.User
	err   error

	limit, offset int
	name, email   string
	updates       []model.UserStatusUpdate
}

func (f *fakeUsers) ListUsers(_ context.Context, limit, offset int) ([]model.User, error) {
	f.limit, f.offset = limit, offset
	return f.users, f.err
}

func (f *fakeUsers) FindUsersByName(_ context.Context, name string) ([]model.User, error) {
	f.name = name
	return f.users, f.err
}

func (f *fakeUsers) FindUsersByEmail(_ context.Context, email string) ([]model.User, error) {
	f.email = email
	return f.users, f.err
}

func (f *fakeUsers) CreateUser(_ context.Context, name, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: 1, Name: name, Email: &email}, nil
}

func (f *fakeUsers) UpdateUserEmail(_ context.Context, id int64, email string) (*model.UserEmail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.UserEmail{ID: id, Email: email}, nil
}

func (f *fakeUsers) UpdateUserStatuses(_ context.Context, updates []model.UserStatusUpdate) error {
	f.updates = updates
	return f.err
}

type fakeGroups struct {
	err             error
	userID, groupID int64
}

func (f *fakeGroups) GetGroup(_ context.Context, id int64) (*model.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Group{ID: id, Name: "team", Status: model.GroupStatusEmpty}, nil
}

func (f *fakeGroups) RemoveUserFromGroup(_ context.Context, userID, groupID int64) error {
	f.userID, f.groupID = userID, groupID
	return f.err
}

func newTestRouter(t *testing.T, users *fakeUsers, groups *fakeGroups) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:  &logger,
		Metrics: prometheus.NewRegistry(),
	}

	services := &service.Services{
		User:  service.NewUserService(users, nil),
		Group: service.NewGroupService(groups),
	}

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.Response {
	t.Helper()
	var resp errs.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestListUsers_Defaults(t *testing.T) {
	users := &fakeUsers{users: []model.User{}}
	e := newTestRouter(t, users, &fakeGroups{})

	rec := do(e, http.MethodGet, "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, 10, users.limit)
	assert.Equal(t, 0, users.offset)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestListUsers_Paging(t *testing.T) {
	email := "a@example.com"
	users := &fakeUsers{users: []model.User{{ID: 3, Name: "A", Email: &email}}}
	e := newTestRouter(t, users, &fakeGroups{})

	rec := do(e, http.MethodGet, "/users?limit=1&offset=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":3,"name":"A","email":"a@example.com","status":null}]`, rec.Body.String())
	assert.Equal(t, 1, users.limit)
	assert.Equal(t, 2, users.offset)
}

func TestListUsers_InvalidParams(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	for _, target := range []string{"/users?limit=-1", "/users?offset=-5", "/users?limit=abc"} {
		rec := do(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, decodeError(t, rec).Error, target)
	}
}

func TestFilterUsers(t *testing.T) {
	users := &fakeUsers{users: []model.User{}}
	e := newTestRouter(t, users, &fakeGroups{})

	rec := do(e, http.MethodGet, "/users/filter?name=Alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", users.name)

	rec = do(e, http.MethodGet, "/users/filter/email?email=a%40example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", users.email)

	rec = do(e, http.MethodGet, "/users/filter?name=%20%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/users/filter/email", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"alice@example.com","status":null}`, rec.Body.String())
}

func TestCreateUser_MissingFields(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodPost, "/users", `{"name":"Alice"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "is required"}}, resp.Errors)
}

func TestCreateUser_DuplicateEmailIsConflict(t *testing.T) {
	dup := sqlerr.Classify("CreateUser", &pgconn.PgError{
		Code:           "23505",
		TableName:      "users",
		ConstraintName: "users_email_key",
		Message:        "duplicate key value violates unique constraint",
	})
	e := newTestRouter(t, &fakeUsers{err: dup}, &fakeGroups{})

	rec := do(e, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "A User with this Email already exists", resp.Error)
	assert.NotContains(t, rec.Body.String(), "duplicate key")
}

func TestUpdateUserEmail(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodPut, "/users/7/email", `{"email":"new@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"email":"new@example.com"}`, rec.Body.String())
}

func TestUpdateUserEmail_NotFound(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{err: errs.NotFound("UpdateUserEmail", "user")}, &fakeGroups{})

	rec := do(e, http.MethodPut, "/users/7/email", `{"email":"new@example.com"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Error)
}

func TestUpdateUserEmail_BadID(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodPut, "/users/abc/email", `{"email":"new@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserStatuses(t *testing.T) {
	users := &fakeUsers{}
	e := newTestRouter(t, users, &fakeGroups{})

	rec := do(e, http.MethodPut, "/users/statuses", `[{"id":1,"status":"active"},{"id":999,"status":"blocked"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User statuses updated successfully"}`, rec.Body.String())
	assert.Equal(t, []model.UserStatusUpdate{
		{ID: 1, Status: model.UserStatusActive},
		{ID: 999, Status: model.UserStatusBlocked},
	}, users.updates)
}

func TestUpdateUserStatuses_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty array":    `[]`,
		"unknown status": `[{"id":1,"status":"deleted"}]`,
		"missing id":     `[{"status":"active"}]`,
		"not an array":   `{"id":1,"status":"active"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			users := &fakeUsers{}
			e := newTestRouter(t, users, &fakeGroups{})

			rec := do(e, http.MethodPut, "/users/statuses", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec).Error)
			assert.Nil(t, users.updates)
		})
	}
}

func TestUpdateUserStatuses_TransactionFailureHidesCause(t *testing.T) {
	failed := errs.TransactionFailed("UpdateUserStatuses", sqlerr.Classify("UpdateUserStatuses", &pgconn.PgError{
		Code:    "08006",
		Message: "connection to 10.0.0.5 lost",
	}))
	e := newTestRouter(t, &fakeUsers{err: failed}, &fakeGroups{})

	rec := do(e, http.MethodPut, "/users/statuses", `[{"id":1,"status":"active"}]`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestRemoveUserFromGroup(t *testing.T) {
	groups := &fakeGroups{}
	e := newTestRouter(t, &fakeUsers{}, groups)

	rec := do(e, http.MethodDelete, "/users/3/groups/4", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User removed from group successfully"}`, rec.Body.String())
	assert.Equal(t, int64(3), groups.userID)
	assert.Equal(t, int64(4), groups.groupID)
}

func TestRemoveUserFromGroup_BadIDs(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodDelete, "/users/3/groups/x", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: "groupId", Error: "must be a valid integer"}}, decodeError(t, rec).Errors)
}

func TestGetGroup(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodGet, "/groups/4", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":4,"name":"team","status":"empty"}`, rec.Body.String())
}

func TestGetGroup_NotFound(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{err: errs.NotFound("GetGroup", "group")})

	rec := do(e, http.MethodGet, "/groups/4", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Group not found", decodeError(t, rec).Error)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, &fakeGroups{})

	rec := do(e, http.MethodGet, "/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Error)
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{users: []model.User{}}, &fakeGroups{})

	rec := do(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = do(e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(e, http.MethodGet, "/static/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi"`)

	do(e, http.MethodGet, "/users", "")
	rec = do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `usergroups_http_requests_total{code="200"`)
}
