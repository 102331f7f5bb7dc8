package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/observability"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/service"
)

type UserAdmin interface {
	List() ([]domain.User, error)
	Get(id uint) (*domain.User, error)
	Create(req service.CreateUserRequest) (*domain.User, error)
	Update(id uint, edit service.UserEdit) (*domain.User, error)
	SetActive(id uint, active bool) (*domain.User, error)
}

type AdminHandler struct {
	users   UserAdmin
	offices repository.OfficeRepository
	roles   repository.RoleRepository
}

func NewAdminHandler(users UserAdmin, offices repository.OfficeRepository, roles repository.RoleRepository) *AdminHandler {
	return &AdminHandler{users: users, offices: offices, roles: roles}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing users failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"users": users})
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	RoleID    uint   `json:"role_id"`
	OfficeID  *uint  `json:"office_id"`
	Birthdate string `json:"birthdate"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	var birthdate *time.Time
	if req.Birthdate != "" {
		d, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "birthdate must be YYYY-MM-DD", nil)
			return
		}
		birthdate = &d
	}
	user, err := h.users.Create(service.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
		OfficeID:  req.OfficeID,
		Birthdate: birthdate,
	})
	switch {
	case err == nil:
		observability.Audit(r, "user.created", "user_id", user.ID, "role_id", user.RoleID)
		response.JSON(w, r, http.StatusCreated, user)
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
	case errors.Is(err, service.ErrInvalidUserEdit):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, repository.ErrRoleNotFound):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown role", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "creating user failed", nil)
	}
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    *uint   `json:"role_id"`
	OfficeID  *uint   `json:"office_id"`
	Active    *bool   `json:"active"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	user, err := h.users.Update(id, service.UserEdit{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
		OfficeID:  req.OfficeID,
		Active:    req.Active,
	})
	switch {
	case err == nil:
		observability.Audit(r, "user.updated", "user_id", user.ID)
		response.JSON(w, r, http.StatusOK, user)
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
	case errors.Is(err, repository.ErrRoleNotFound):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown role", nil)
	case errors.Is(err, service.ErrInvalidUserEdit):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating user failed", nil)
	}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	user, err := h.users.SetActive(id, req.Active)
	switch {
	case err == nil:
		observability.Audit(r, "user.active_changed", "user_id", user.ID, "active", user.Active)
		response.JSON(w, r, http.StatusOK, user)
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating user failed", nil)
	}
}

func (h *AdminHandler) ListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.offices.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing offices failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"offices": offices})
}

func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing roles failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"roles": roles})
}

func pathID(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
