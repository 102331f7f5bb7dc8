package service

import (
	"errors"
	"testing"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

type fakeScheduleRepo struct {
	byID map[uint]*domain.Schedule
}

func newFakeScheduleRepo(schedules ...domain.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{byID: map[uint]*domain.Schedule{}}
	for i := range schedules {
		s := schedules[i]
		r.byID[s.ID] = &s
	}
	return r
}

func (r *fakeScheduleRepo) List(_ repository.ScheduleFilter) ([]domain.Schedule, error) {
	var out []domain.Schedule
	for _, s := range r.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindByID(id uint) (*domain.Schedule, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) Update(s *domain.Schedule) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *fakeScheduleRepo) SetConfirmed(id uint, confirmed bool) (bool, error) {
	s, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	s.Confirmed = confirmed
	return true, nil
}

func TestCabinPriceDerivation(t *testing.T) {
	cases := []struct {
		economy  int64
		business int64
		first    int64
	}{
		{10000, 13500, 17550},
		{0, 0, 0},
		{19900, 26865, 34924},
	}
	for _, tc := range cases {
		if got := BusinessPrice(tc.economy); got != tc.business {
			t.Errorf("BusinessPrice(%d) = %d, want %d", tc.economy, got, tc.business)
		}
		if got := FirstClassPrice(tc.economy); got != tc.first {
			t.Errorf("FirstClassPrice(%d) = %d, want %d", tc.economy, got, tc.first)
		}
	}
}

func TestPriceForCabin(t *testing.T) {
	if _, err := PriceForCabin(10000, "Cargo"); err == nil {
		t.Fatal("expected error for unknown cabin")
	}
	got, err := PriceForCabin(10000, domain.CabinFirstClass)
	if err != nil {
		t.Fatalf("PriceForCabin: %v", err)
	}
	if got != 17550 {
		t.Fatalf("first class price = %d, want 17550", got)
	}
}

func TestScheduleEditUpdatesMutableFields(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo(domain.Schedule{
		ID: 1, Time: "08:30", EconomyPrice: 10000, FlightNumber: "AV100",
	}))

	newTime := "21:15"
	newPrice := int64(12000)
	view, err := svc.Edit(1, ScheduleEdit{Time: &newTime, EconomyPrice: &newPrice})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if view.Time != "21:15" || view.EconomyPrice != 12000 {
		t.Fatalf("edit not applied: %+v", view.Schedule)
	}
	if view.BusinessPrice != 16200 {
		t.Fatalf("derived business price = %d, want 16200", view.BusinessPrice)
	}
	if view.FlightNumber != "AV100" {
		t.Fatal("flight number must not change")
	}
}

func TestScheduleEditRejectsBadInput(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo(domain.Schedule{ID: 1, Time: "08:30"}))

	badTime := "25:99"
	if _, err := svc.Edit(1, ScheduleEdit{Time: &badTime}); !errors.Is(err, ErrInvalidScheduleEdit) {
		t.Fatalf("expected ErrInvalidScheduleEdit, got %v", err)
	}
	negative := int64(-1)
	if _, err := svc.Edit(1, ScheduleEdit{EconomyPrice: &negative}); !errors.Is(err, ErrInvalidScheduleEdit) {
		t.Fatalf("expected ErrInvalidScheduleEdit, got %v", err)
	}
	d := time.Now()
	if _, err := svc.Edit(99, ScheduleEdit{Date: &d}); !errors.Is(err, repository.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestScheduleSetConfirmed(t *testing.T) {
	repo := newFakeScheduleRepo(domain.Schedule{ID: 1, Confirmed: true})
	svc := NewScheduleService(repo)

	if err := svc.SetConfirmed(1, false); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if repo.byID[1].Confirmed {
		t.Fatal("schedule still confirmed")
	}
	if err := svc.SetConfirmed(99, true); !errors.Is(err, repository.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}
