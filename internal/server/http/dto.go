package http

import (
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/server/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validate returns "" when the request is acceptable, or the detail message
// for a 422.
func (u userRequest) validate() string {
	switch {
	case strings.TrimSpace(u.Username) == "":
		return "Username must not be empty"
	case !strings.Contains(u.Email, "@"):
		return "Invalid email address"
	case u.Password == "":
		return "Password must not be empty"
	default:
		return ""
	}
}

type userPublic struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserPublic(u *models.User) userPublic {
	return userPublic{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type userListResponse struct {
	Users []userPublic `json:"users"`
}

type todoCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

func validateTitle(title string) string {
	switch {
	case strings.TrimSpace(title) == "":
		return "Title must not be empty"
	case len(title) > models.MaxTitleLen:
		return "Title is too long"
	default:
		return ""
	}
}

type todoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
}

type todoPublic struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
}

func newTodoPublic(t *models.Task) todoPublic {
	return todoPublic{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       t.State.String(),
		CreatedAt:   t.CreatedAt,
	}
}

type todoListResponse struct {
	Todos []todoPublic `json:"todos"`
}
