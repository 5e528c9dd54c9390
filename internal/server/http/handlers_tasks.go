package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/tasks"
	"github.com/taskdeck/taskdeck/internal/server/services"
)

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	var req todoCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeDetail(w, http.StatusUnprocessableEntity, msg)
		return
	}

	state := models.StateDraft
	if req.State != "" {
		parsed, err := models.ParseTaskState(req.State)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid task state")
			return
		}
		state = parsed
	}

	task, err := s.tasks.Create(r.Context(), principal, req.Title, req.Description, state)
	if err != nil {
		s.writeServiceError(w, r, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, newTodoPublic(task))
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	skip, ok := queryUint(w, r, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryUint(w, r, "limit", 100)
	if !ok {
		return
	}

	filter := tasks.Filter{
		Title:       r.URL.Query().Get("title"),
		Description: r.URL.Query().Get("description"),
	}
	if raw := r.URL.Query().Get("state"); raw != "" {
		state, err := models.ParseTaskState(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid task state")
			return
		}
		filter.State = state
	}

	result, err := s.tasks.List(r.Context(), principal, filter, skip, limit)
	if err != nil {
		s.writeServiceError(w, r, err, "Task not found")
		return
	}

	resp := todoListResponse{Todos: make([]todoPublic, 0, len(result))}
	for _, task := range result {
		resp.Todos = append(resp.Todos, newTodoPublic(task))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid task id")
		return
	}

	var req todoUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := services.TaskPatch{Description: req.Description}
	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			writeDetail(w, http.StatusUnprocessableEntity, msg)
			return
		}
		patch.Title = req.Title
	}
	if req.State != nil {
		state, err := models.ParseTaskState(*req.State)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid task state")
			return
		}
		patch.State = &state
	}

	task, err := s.tasks.Update(r.Context(), principal, taskID, patch)
	if err != nil {
		s.writeServiceError(w, r, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, newTodoPublic(task))
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid task id")
		return
	}

	if err := s.tasks.Delete(r.Context(), principal, taskID); err != nil {
		s.writeServiceError(w, r, err, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task has been deleted"})
}
