package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/taskdeck/taskdeck/internal/common"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

// writeServiceError maps service-layer sentinels to the REST error contract.
// notFoundDetail names the resource in 404 bodies ("Task not found" vs
// "User not found").
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, common.ErrorUsernameExists):
		writeDetail(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, common.ErrorEmailExists):
		writeDetail(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, common.ErrorPermissionDenied):
		writeDetail(w, http.StatusBadRequest, "Not enough permissions")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, notFoundDetail)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeUnauthorized(w, "Invalid credentials")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidToken):
		writeUnauthorized(w, "Could not validate credentials")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v. A false return means a 422 has
// already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

// queryUint parses an optional non-negative integer query parameter. A false
// return means a 422 has already been written.
func queryUint(w http.ResponseWriter, r *http.Request, name string, def uint64) (uint64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid query parameter: "+name)
		return 0, false
	}

	return v, true
}
