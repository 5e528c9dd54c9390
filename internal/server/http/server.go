// Package http exposes the REST surface of the server: routing, the bearer
// token access guard, and JSON handlers for auth, users, and tasks.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/tasks"
	"github.com/taskdeck/taskdeck/internal/server/services"
)

// AuthService is the slice of the auth layer the transport needs.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
	Refresh(ctx context.Context, token string) (string, error)
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

// UserService covers user account management.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Update(ctx context.Context, principal *models.User, targetID int64, username, email, password string) (*models.User, error)
	Delete(ctx context.Context, principal *models.User, targetID int64) error
	List(ctx context.Context, skip, limit uint64) ([]*models.User, error)
}

// TaskService covers owner-scoped task CRUD.
type TaskService interface {
	Create(ctx context.Context, owner *models.User, title, description string, state models.TaskState) (*models.Task, error)
	List(ctx context.Context, owner *models.User, f tasks.Filter, skip, limit uint64) ([]*models.Task, error)
	Update(ctx context.Context, owner *models.User, taskID int64, patch services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, owner *models.User, taskID int64) error
}

type Server struct {
	address string
	logger  logging.Logger
	auth    AuthService
	users   UserService
	tasks   TaskService
}

func NewServer(addr string, l logging.Logger, as AuthService, us UserService, ts TaskService) *Server {
	return &Server{
		address: addr,
		logger:  l.With("module", "http_server"),
		auth:    as,
		users:   us,
		tasks:   ts,
	}
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/", s.root).Methods(http.MethodGet)

	r.HandleFunc("/auth/token", s.createToken).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh_token", s.refreshToken).Methods(http.MethodPost)

	for _, p := range []string{"/users", "/users/"} {
		r.HandleFunc(p, s.createUser).Methods(http.MethodPost)
		r.HandleFunc(p, s.listUsers).Methods(http.MethodGet)
	}

	protected := r.NewRoute().Subrouter()
	protected.Use(s.authenticate)

	protected.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	protected.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)

	for _, p := range []string{"/todos", "/todos/"} {
		protected.HandleFunc(p, s.createTodo).Methods(http.MethodPost)
		protected.HandleFunc(p, s.listTodos).Methods(http.MethodGet)
	}
	protected.HandleFunc("/todos/{id:[0-9]+}", s.updateTodo).Methods(http.MethodPatch)
	protected.HandleFunc("/todos/{id:[0-9]+}", s.deleteTodo).Methods(http.MethodDelete)

	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello World!"})
}
