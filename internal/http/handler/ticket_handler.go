package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/http/middleware"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/service"
)

type TicketBooker interface {
	Book(userID uint, req service.TicketRequest) (*domain.Ticket, error)
	FindByBookingReference(ref string) (*domain.Ticket, error)
	ListForUser(userID uint) ([]domain.Ticket, error)
}

type AmenitySeller interface {
	OffersForTicket(bookingRef string) ([]service.AmenityOffer, error)
	Purchase(bookingRef string, amenityIDs []uint) ([]domain.AmenityTicket, error)
}

type TicketHandler struct {
	tickets   TicketBooker
	amenities AmenitySeller
}

func NewTicketHandler(tickets TicketBooker, amenities AmenitySeller) *TicketHandler {
	return &TicketHandler{tickets: tickets, amenities: amenities}
}

func (h *TicketHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var req service.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if req.ScheduleID == 0 || req.CabinTypeID == 0 || req.LastName == "" || req.PassportNumber == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "schedule, cabin type, last name and passport number are required", nil)
		return
	}
	ticket, err := h.tickets.Book(userID, req)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "booking failed", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, ticket)
}

func (h *TicketHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	ticket, err := h.tickets.FindByBookingReference(ref)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "ticket not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "ticket lookup failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, ticket)
}

func (h *TicketHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	tickets, err := h.tickets.ListForUser(userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing tickets failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"tickets": tickets})
}

func (h *TicketHandler) Amenities(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	offers, err := h.amenities.OffersForTicket(ref)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "ticket not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "listing amenities failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"amenities": offers})
}

type purchaseAmenitiesRequest struct {
	AmenityIDs []uint `json:"amenity_ids"`
}

func (h *TicketHandler) PurchaseAmenities(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	var req purchaseAmenitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.AmenityIDs) == 0 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "amenity_ids is required", nil)
		return
	}
	purchases, err := h.amenities.Purchase(ref, req.AmenityIDs)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusCreated, map[string]any{"purchases": purchases})
	case errors.Is(err, repository.ErrTicketNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "ticket not found", nil)
	case errors.Is(err, service.ErrAmenityNotPurchasable):
		response.Error(w, r, http.StatusConflict, "NOT_PURCHASABLE", "amenity is included, already purchased or unknown", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "purchase failed", nil)
	}
}
