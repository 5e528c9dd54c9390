package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/common"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/tasks"
	"github.com/taskdeck/taskdeck/internal/server/services"
)

// --- fakes ---

var alice = &models.User{ID: 1, Username: "alice", Email: "alice@x.com", CreatedAt: time.Now()}

type fakeAuth struct{}

func (f *fakeAuth) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "alice@x.com" && password == "pw1" {
		return "issued-token", nil
	}
	return "", common.ErrorInvalidCredentials
}

func (f *fakeAuth) Refresh(ctx context.Context, token string) (string, error) {
	if token == "good-token" {
		return "renewed-token", nil
	}
	return "", common.ErrorUnauthorized
}

func (f *fakeAuth) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "good-token" {
		return alice, nil
	}
	return nil, common.ErrorUnauthorized
}

type fakeUsers struct {
	registerErr error

	gotSkip, gotLimit uint64
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 1, Username: username, Email: email}, nil
}

func (f *fakeUsers) Update(ctx context.Context, principal *models.User, targetID int64, username, email, password string) (*models.User, error) {
	if principal.ID != targetID {
		return nil, common.ErrorPermissionDenied
	}
	return &models.User{ID: targetID, Username: username, Email: email}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, principal *models.User, targetID int64) error {
	if principal.ID != targetID {
		return common.ErrorNotFound
	}
	return nil
}

func (f *fakeUsers) List(ctx context.Context, skip, limit uint64) ([]*models.User, error) {
	f.gotSkip, f.gotLimit = skip, limit
	return []*models.User{alice}, nil
}

type fakeTasks struct {
	gotFilter tasks.Filter
	gotSkip   uint64
	gotLimit  uint64
	gotPatch  services.TaskPatch
	updateErr error
	deleteErr error
}

func (f *fakeTasks) Create(ctx context.Context, owner *models.User, title, description string, state models.TaskState) (*models.Task, error) {
	return &models.Task{ID: 5, Title: title, Description: description, State: state, UserID: owner.ID}, nil
}

func (f *fakeTasks) List(ctx context.Context, owner *models.User, filter tasks.Filter, skip, limit uint64) ([]*models.Task, error) {
	f.gotFilter, f.gotSkip, f.gotLimit = filter, skip, limit
	return []*models.Task{{ID: 5, Title: "Buy milk", State: models.StateDraft, UserID: owner.ID}}, nil
}

func (f *fakeTasks) Update(ctx context.Context, owner *models.User, taskID int64, patch services.TaskPatch) (*models.Task, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.gotPatch = patch
	return &models.Task{ID: taskID, Title: "Buy milk", State: models.StateDone, UserID: owner.ID}, nil
}

func (f *fakeTasks) Delete(ctx context.Context, owner *models.User, taskID int64) error {
	return f.deleteErr
}

// --- helpers ---

func newTestServer(t *testing.T) (*Server, *fakeUsers, *fakeTasks) {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	users := &fakeUsers{}
	taskSvc := &fakeTasks{}
	return NewServer(":0", logger, &fakeAuth{}, users, taskSvc), users, taskSvc
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- tests ---

func TestRoot(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World!", decodeBody[messageResponse](t, rec).Message)
}

func TestCreateToken(t *testing.T) {
	s, _, _ := newTestServer(t)

	postForm := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		s.router().ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec := postForm(url.Values{"username": {"alice@x.com"}, "password": {"pw1"}})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[tokenResponse](t, rec)
		assert.Equal(t, "issued-token", body.AccessToken)
		assert.Equal(t, "Bearer", body.TokenType)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := postForm(url.Values{"username": {"alice@x.com"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postForm(url.Values{})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody[detailResponse](t, rec).Detail)
	})
}

func TestRefreshToken(t *testing.T) {
	s, _, _ := newTestServer(t)

	t.Run("valid token", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/auth/refresh_token", "good-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "renewed-token", decodeBody[tokenResponse](t, rec).AccessToken)
	})

	t.Run("expired or invalid token", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/auth/refresh_token", "stale-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Could not validate credentials", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/auth/refresh_token", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAccessGuard_UniformFailures(t *testing.T) {
	s, _, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "no header", token: ""},
		{name: "unknown token", token: "forged"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, "/todos", tc.token, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Could not validate credentials", decodeBody[detailResponse](t, rec).Detail)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		s.router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Could not validate credentials", decodeBody[detailResponse](t, rec).Detail)
	})
}

func TestCreateUser(t *testing.T) {
	s, users, _ := newTestServer(t)

	t.Run("created", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/users/", "",
			userRequest{Username: "alice", Email: "alice@x.com", Password: "pw1"})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[userPublic](t, rec)
		assert.Equal(t, "alice", body.Username)
		assert.NotContains(t, rec.Body.String(), "pw1")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("username conflict", func(t *testing.T) {
		users.registerErr = common.ErrorUsernameExists
		defer func() { users.registerErr = nil }()

		rec := doRequest(t, s, http.MethodPost, "/users/", "",
			userRequest{Username: "alice", Email: "other@x.com", Password: "pw1"})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Username already exists", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("email conflict", func(t *testing.T) {
		users.registerErr = common.ErrorEmailExists
		defer func() { users.registerErr = nil }()

		rec := doRequest(t, s, http.MethodPost, "/users/", "",
			userRequest{Username: "other", Email: "alice@x.com", Password: "pw1"})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already exists", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/users/", "",
			userRequest{Username: "alice", Email: "not-an-email", Password: "pw1"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListUsers_Defaults(t *testing.T) {
	s, users, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(0), users.gotSkip)
	assert.Equal(t, uint64(10), users.gotLimit)

	body := decodeBody[userListResponse](t, rec)
	require.Len(t, body.Users, 1)
}

func TestUpdateUser(t *testing.T) {
	s, _, _ := newTestServer(t)

	payload := userRequest{Username: "alice2", Email: "alice2@x.com", Password: "pw2"}

	t.Run("self update", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/users/1", "good-token", payload)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice2", decodeBody[userPublic](t, rec).Username)
	})

	t.Run("other user id", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/users/2", "good-token", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Not enough permissions", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/users/1", "", payload)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	s, _, _ := newTestServer(t)

	t.Run("self delete", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodDelete, "/users/1", "good-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "User deleted", decodeBody[messageResponse](t, rec).Message)
	})

	t.Run("other user id reads as missing", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodDelete, "/users/2", "good-token", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeBody[detailResponse](t, rec).Detail)
	})
}

func TestCreateTodo(t *testing.T) {
	s, _, _ := newTestServer(t)

	t.Run("state defaults to draft", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/todos/", "good-token",
			todoCreateRequest{Title: "Buy milk", Description: "2 liters"})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[todoPublic](t, rec)
		assert.Equal(t, "draft", body.State)
		assert.Equal(t, "Buy milk", body.Title)
	})

	t.Run("explicit state", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/todos/", "good-token",
			todoCreateRequest{Title: "Buy milk", State: "doing"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "doing", decodeBody[todoPublic](t, rec).State)
	})

	t.Run("invalid state", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/todos/", "good-token",
			todoCreateRequest{Title: "Buy milk", State: "archived"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("title too long", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/todos/", "good-token",
			todoCreateRequest{Title: strings.Repeat("x", 51)})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListTodos(t *testing.T) {
	s, _, taskSvc := newTestServer(t)

	t.Run("defaults", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/todos/", "good-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint64(0), taskSvc.gotSkip)
		assert.Equal(t, uint64(100), taskSvc.gotLimit)
		assert.Equal(t, tasks.Filter{}, taskSvc.gotFilter)

		body := decodeBody[todoListResponse](t, rec)
		require.Len(t, body.Todos, 1)
	})

	t.Run("filters forwarded", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet,
			"/todos/?title=milk&description=liters&state=todo&skip=2&limit=5", "good-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, tasks.Filter{
			Title:       "milk",
			Description: "liters",
			State:       models.StateTodo,
		}, taskSvc.gotFilter)
		assert.Equal(t, uint64(2), taskSvc.gotSkip)
		assert.Equal(t, uint64(5), taskSvc.gotLimit)
	})

	t.Run("invalid state filter", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/todos/?state=bogus", "good-token", nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid skip", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/todos/?skip=-1", "good-token", nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUpdateTodo(t *testing.T) {
	s, _, taskSvc := newTestServer(t)

	t.Run("partial patch forwarded", func(t *testing.T) {
		state := "done"
		rec := doRequest(t, s, http.MethodPatch, "/todos/5", "good-token",
			todoUpdateRequest{State: &state})
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, taskSvc.gotPatch.State)
		assert.Equal(t, models.StateDone, *taskSvc.gotPatch.State)
		assert.Nil(t, taskSvc.gotPatch.Title)
		assert.Nil(t, taskSvc.gotPatch.Description)
	})

	t.Run("missing task", func(t *testing.T) {
		taskSvc.updateErr = common.ErrorNotFound
		defer func() { taskSvc.updateErr = nil }()

		rec := doRequest(t, s, http.MethodPatch, "/todos/99", "good-token", todoUpdateRequest{})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decodeBody[detailResponse](t, rec).Detail)
	})

	t.Run("invalid state in patch", func(t *testing.T) {
		state := "bogus"
		rec := doRequest(t, s, http.MethodPatch, "/todos/5", "good-token",
			todoUpdateRequest{State: &state})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDeleteTodo(t *testing.T) {
	s, _, taskSvc := newTestServer(t)

	t.Run("deleted", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodDelete, "/todos/5", "good-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Task has been deleted", decodeBody[messageResponse](t, rec).Message)
	})

	t.Run("missing or foreign task", func(t *testing.T) {
		taskSvc.deleteErr = common.ErrorNotFound
		defer func() { taskSvc.deleteErr = nil }()

		rec := doRequest(t, s, http.MethodDelete, "/todos/99", "good-token", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decodeBody[detailResponse](t, rec).Detail)
	})
}
