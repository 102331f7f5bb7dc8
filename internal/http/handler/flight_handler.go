package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/observability"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/service"
)

type ScheduleManager interface {
	List(filter repository.ScheduleFilter) ([]service.ScheduleView, error)
	Get(id uint) (*service.ScheduleView, error)
	Edit(id uint, edit service.ScheduleEdit) (*service.ScheduleView, error)
	SetConfirmed(id uint, confirmed bool) error
}

type FlightHandler struct {
	airports  repository.AirportRepository
	routes    repository.RouteRepository
	aircraft  repository.AircraftRepository
	schedules ScheduleManager
}

func NewFlightHandler(
	airports repository.AirportRepository,
	routes repository.RouteRepository,
	aircraft repository.AircraftRepository,
	schedules ScheduleManager,
) *FlightHandler {
	return &FlightHandler{airports: airports, routes: routes, aircraft: aircraft, schedules: schedules}
}

func (h *FlightHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.airports.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing airports failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"airports": airports})
}

func (h *FlightHandler) GetAirport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid airport id", nil)
		return
	}
	airport, err := h.airports.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "airport not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "airport lookup failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, airport)
}

func (h *FlightHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.routes.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing routes failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"routes": routes})
}

func (h *FlightHandler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.aircraft.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing aircraft failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"aircraft": aircraft})
}

// ListSchedules filters by date, flight number and route endpoints via
// query parameters; sort_by accepts "price" and "status".
func (h *FlightHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ScheduleFilter{
		FlightNumber: q.Get("flight_number"),
		SortBy:       q.Get("sort_by"),
	}
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "date must be YYYY-MM-DD", nil)
			return
		}
		filter.Date = &d
	}
	if raw := q.Get("departure_airport_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid departure_airport_id", nil)
			return
		}
		filter.DepartureAirportID = uint(id)
	}
	if raw := q.Get("arrival_airport_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid arrival_airport_id", nil)
			return
		}
		filter.ArrivalAirportID = uint(id)
	}

	schedules, err := h.schedules.List(filter)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing schedules failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"schedules": schedules})
}

func (h *FlightHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid schedule id", nil)
		return
	}
	view, err := h.schedules.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "schedule not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "schedule lookup failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

type editScheduleRequest struct {
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	EconomyPrice *int64  `json:"economy_price"`
}

func (h *FlightHandler) EditSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid schedule id", nil)
		return
	}
	var req editScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	edit := service.ScheduleEdit{Time: req.Time, EconomyPrice: req.EconomyPrice}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "date must be YYYY-MM-DD", nil)
			return
		}
		edit.Date = &d
	}
	view, err := h.schedules.Edit(id, edit)
	switch {
	case err == nil:
		observability.Audit(r, "schedule.updated", "schedule_id", id)
		response.JSON(w, r, http.StatusOK, view)
	case errors.Is(err, repository.ErrScheduleNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "schedule not found", nil)
	case errors.Is(err, service.ErrInvalidScheduleEdit):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating schedule failed", nil)
	}
}

type confirmScheduleRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *FlightHandler) SetScheduleConfirmed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid schedule id", nil)
		return
	}
	var req confirmScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	err := h.schedules.SetConfirmed(id, req.Confirmed)
	switch {
	case err == nil:
		observability.Audit(r, "schedule.confirmed_changed", "schedule_id", id, "confirmed", req.Confirmed)
		response.JSON(w, r, http.StatusOK, map[string]any{"id": id, "confirmed": req.Confirmed})
	case errors.Is(err, repository.ErrScheduleNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "schedule not found", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "updating schedule failed", nil)
	}
}
