package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/avykov/authgate"
)

const notAuthenticated = "Not authenticated"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *authgate.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authgate.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.engine.Register(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, newUserResponse(user))
	case errors.Is(err, authgate.ErrUserExists):
		writeDetail(w, http.StatusConflict, "username or email already registered")
	default:
		s.log.Error().Err(err).Msg("register failed")
		writeDetail(w, http.StatusBadRequest, err.Error())
	}
}

// handleLogin issues the token pair both ways at once: cookies for browsers,
// JSON body for API clients. Failed logins share one 401 regardless of cause.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.engine.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		s.cfg.Cookies.SetPair(w, pair, s.cfg.JWT.AccessTTL, s.cfg.JWT.RefreshTTL)
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
		})
	case errors.Is(err, authgate.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, authgate.ErrSessionUnavailable):
		s.log.Error().Err(err).Msg("login failed")
		writeDetail(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		s.log.Error().Err(err).Msg("login failed")
		writeDetail(w, http.StatusInternalServerError, "Internal error")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	subject, ok := authgate.SubjectFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, notAuthenticated)
		return
	}

	if err := s.engine.Logout(r.Context(), subject); err != nil {
		s.log.Error().Err(err).Msg("logout failed")
		writeDetail(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}

	s.cfg.Cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleRefresh accepts the refresh token from the request body or, for
// browser clients, the refresh cookie. The rotated pair replaces the cookies.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	if req.RefreshToken == "" {
		if c, err := r.Cookie(s.cfg.Cookies.RefreshName); err == nil {
			req.RefreshToken = c.Value
		}
	}
	if req.RefreshToken == "" {
		writeDetail(w, http.StatusUnauthorized, notAuthenticated)
		return
	}

	pair, err := s.engine.Refresh(r.Context(), req.RefreshToken)
	switch {
	case err == nil:
		s.cfg.Cookies.SetPair(w, pair, s.cfg.JWT.AccessTTL, s.cfg.JWT.RefreshTTL)
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    "bearer",
		})
	case errors.Is(err, authgate.ErrSessionUnavailable):
		s.log.Error().Err(err).Msg("refresh failed")
		writeDetail(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		// Expired, invalid, replayed, and revoked all collapse to one 401;
		// the distinction is logged server-side, never surfaced.
		s.cfg.Cookies.Clear(w)
		writeDetail(w, http.StatusUnauthorized, notAuthenticated)
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	subject, ok := authgate.SubjectFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, notAuthenticated)
		return
	}

	user, err := s.engine.Users().FindByID(r.Context(), subject)
	if err != nil {
		if errors.Is(err, authgate.ErrUserNotFound) {
			// Token outlived the account.
			writeDetail(w, http.StatusUnauthorized, notAuthenticated)
			return
		}
		s.log.Error().Err(err).Msg("user lookup failed")
		writeDetail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
