package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

type fakeTicketRepo struct {
	byRef     map[string]*domain.Ticket
	nextID    uint
	conflicts int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byRef: map[string]*domain.Ticket{}, nextID: 1}
}

func (r *fakeTicketRepo) Create(t *domain.Ticket) error {
	if r.conflicts > 0 {
		r.conflicts--
		return errors.New("UNIQUE constraint failed: tickets.booking_reference")
	}
	if _, ok := r.byRef[t.BookingReference]; ok {
		return errors.New("UNIQUE constraint failed: tickets.booking_reference")
	}
	t.ID = r.nextID
	r.nextID++
	cp := *t
	r.byRef[t.BookingReference] = &cp
	return nil
}

func (r *fakeTicketRepo) FindByBookingReference(ref string) (*domain.Ticket, error) {
	t, ok := r.byRef[ref]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTicketRepo) ListByUserID(userID uint) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.byRef {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func TestBookAssignsReadableBookingReference(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo)

	ticket, err := svc.Book(1, TicketRequest{
		ScheduleID: 1, CabinTypeID: 1,
		FirstName: "Ada", LastName: "Lovelace",
		Email:             "  Ada@Example.COM ",
		PassportNumber:    "X1234567",
		PassportCountryID: 1,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if len(ticket.BookingReference) != 6 {
		t.Fatalf("reference %q is not 6 characters", ticket.BookingReference)
	}
	for _, c := range ticket.BookingReference {
		if !strings.ContainsRune(bookingRefAlphabet, c) {
			t.Fatalf("reference %q contains %q outside the alphabet", ticket.BookingReference, c)
		}
	}
	if ticket.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", ticket.Email)
	}
	if !ticket.Confirmed {
		t.Fatal("new tickets start confirmed")
	}
}

func TestBookRetriesOnReferenceCollision(t *testing.T) {
	repo := newFakeTicketRepo()
	repo.conflicts = 2
	svc := NewTicketService(repo)

	ticket, err := svc.Book(1, TicketRequest{ScheduleID: 1, CabinTypeID: 1})
	if err != nil {
		t.Fatalf("book after collisions: %v", err)
	}
	if ticket.ID == 0 {
		t.Fatal("ticket not persisted")
	}
}

func TestBookGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := newFakeTicketRepo()
	repo.conflicts = bookingRefRetries
	svc := NewTicketService(repo)

	if _, err := svc.Book(1, TicketRequest{ScheduleID: 1, CabinTypeID: 1}); !errors.Is(err, ErrBookingReferenceExhausted) {
		t.Fatalf("expected ErrBookingReferenceExhausted, got %v", err)
	}
}

func TestFindByBookingReferenceNormalizesInput(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo)

	ticket, err := svc.Book(1, TicketRequest{ScheduleID: 1, CabinTypeID: 1})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	found, err := svc.FindByBookingReference(" " + strings.ToLower(ticket.BookingReference) + " ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != ticket.ID {
		t.Fatalf("found ticket %d, want %d", found.ID, ticket.ID)
	}
}
