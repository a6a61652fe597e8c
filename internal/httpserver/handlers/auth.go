package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/httpserver/deps"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

type sessionResponse struct {
	User domain.SessionUser `json:"user"`
}

// Login authenticates against the user registry and establishes the session.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := d.Sessions.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			d.Metrics.RecordLogin(false)
			if errors.Is(err, session.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			d.Logger.Error("login failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		d.Metrics.RecordLogin(true)
		d.Logger.Info("login", logger.String("user_id", user.ID))
		writeJSON(w, http.StatusOK, sessionResponse{User: user})
	}
}

// Signup registers a new user and establishes the session.
func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := d.Sessions.Signup(r.Context(), req.Name, req.Email, req.Password, domain.AccountType(req.Type))
		if err != nil {
			d.Metrics.RecordSignup(false)
			if errors.Is(err, session.ErrEmailExists) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			d.Logger.Error("signup failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "signup failed")
			return
		}

		d.Metrics.RecordSignup(true)
		d.Logger.Info("signup",
			logger.String("user_id", user.ID),
			logger.String("type", string(user.Type)))
		writeJSON(w, http.StatusCreated, sessionResponse{User: user})
	}
}

// Logout clears the session. Always succeeds.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the current session user, or 401 when anonymous.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := d.Sessions.Current()
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{User: user})
	}
}
