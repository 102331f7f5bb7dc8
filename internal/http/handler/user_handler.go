package handler

import (
	"errors"
	"net/http"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/http/middleware"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/service"
)

type UserDirectory interface {
	Get(id uint) (*domain.User, error)
}

type SessionHistory interface {
	History(userID uint) ([]service.SessionView, error)
}

type UserHandler struct {
	users    UserDirectory
	sessions SessionHistory
}

func NewUserHandler(users UserDirectory, sessions SessionHistory) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	user, err := h.users.Get(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "lookup failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// Sessions returns the caller's login history, newest first. Open
// sessions have no logout time, no duration and no reason.
func (h *UserHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	history, err := h.sessions.History(userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "session lookup failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"sessions": history})
}
