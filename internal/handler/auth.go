package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/middleware"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
)

type AuthHandler struct {
	authService       *service.AuthService
	sessionMiddleware func(http.Handler) http.Handler
	loginRateLimiter  *middleware.LoginRateLimiter
	isProduction      bool
}

func NewAuthHandler(
	authService *service.AuthService,
	sessionMiddleware func(http.Handler) http.Handler,
	loginRateLimiter *middleware.LoginRateLimiter,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		sessionMiddleware: sessionMiddleware,
		loginRateLimiter:  loginRateLimiter,
		isProduction:      isProduction,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginRateLimiter.Handler).Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Get("/api/me", h.Me)
	})

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	token, identity, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"admin":   identity,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.AdminSessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("logout failed")
		}
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the identity behind the current session cookie.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetAdminSession(r.Context())
	if session == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":     session.AdminEmail,
		"expiresAt": session.ExpiresAt,
	})
}
