package http

import "net/http"

// createToken implements the OAuth2 password form: the "username" field
// carries the user's email. Bad credentials produce one uniform 401.
func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid form body")
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := s.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

// refreshToken exchanges a still-valid bearer token for a fresh one.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}

	renewed, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: renewed, TokenType: "Bearer"})
}
