package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

// bookingRefAlphabet deliberately omits 0/O and 1/I so references read
// unambiguously over the phone.
const (
	bookingRefAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	bookingRefLength   = 6
	bookingRefRetries  = 5
)

var ErrBookingReferenceExhausted = errors.New("could not allocate a unique booking reference")

type TicketRequest struct {
	ScheduleID        uint   `json:"schedule_id"`
	CabinTypeID       uint   `json:"cabin_type_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	PassportNumber    string `json:"passport_number"`
	PassportCountryID uint   `json:"passport_country_id"`
}

type TicketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// Book creates a ticket with a fresh booking reference. Uniqueness is
// enforced by the database; a collision gets a new reference and a
// retry.
func (s *TicketService) Book(userID uint, req TicketRequest) (*domain.Ticket, error) {
	for attempt := 0; attempt < bookingRefRetries; attempt++ {
		ref, err := newBookingReference()
		if err != nil {
			return nil, err
		}
		ticket := &domain.Ticket{
			UserID:            userID,
			ScheduleID:        req.ScheduleID,
			CabinTypeID:       req.CabinTypeID,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			Email:             strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:             req.Phone,
			PassportNumber:    req.PassportNumber,
			PassportCountryID: req.PassportCountryID,
			BookingReference:  ref,
			Confirmed:         true,
		}
		err = s.ticketRepo.Create(ticket)
		if err == nil {
			return ticket, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, ErrBookingReferenceExhausted
}

func (s *TicketService) FindByBookingReference(ref string) (*domain.Ticket, error) {
	return s.ticketRepo.FindByBookingReference(strings.ToUpper(strings.TrimSpace(ref)))
}

func (s *TicketService) ListForUser(userID uint) ([]domain.Ticket, error) {
	return s.ticketRepo.ListByUserID(userID)
}

func newBookingReference() (string, error) {
	buf := make([]byte, bookingRefLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate booking reference: %w", err)
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(bookingRefAlphabet[int(c)%len(bookingRefAlphabet)])
	}
	return b.String(), nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
