package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeDetail(w, http.StatusUnprocessableEntity, msg)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusCreated, newUserPublic(user))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryUint(w, r, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryUint(w, r, "limit", 10)
	if !ok {
		return
	}

	result, err := s.users.List(r.Context(), skip, limit)
	if err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	resp := userListResponse{Users: make([]userPublic, 0, len(result))}
	for _, u := range result {
		resp.Users = append(resp.Users, newUserPublic(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid user id")
		return
	}

	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeDetail(w, http.StatusUnprocessableEntity, msg)
		return
	}

	user, err := s.users.Update(r.Context(), principal, targetID, req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, newUserPublic(user))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), principal, targetID); err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}
