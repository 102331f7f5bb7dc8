package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avialine/backoffice/internal/http/middleware"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/service"
)

// Authenticator is the slice of the auth service the handler needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID uint) error
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required", nil)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, result)
	case errors.Is(err, service.ErrTooManyAttempts):
		response.Error(w, r, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many failed login attempts, try again later", nil)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Error(w, r, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "refresh_token is required", nil)
		return
	}
	access, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, map[string]string{"access_token": access})
	case errors.Is(err, service.ErrAccountDisabled):
		response.Error(w, r, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid refresh token", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "refresh failed", nil)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	if err := h.auth.Logout(r.Context(), userID); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logout failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "logged out"})
}
