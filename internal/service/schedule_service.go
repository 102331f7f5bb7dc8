package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

var ErrInvalidScheduleEdit = errors.New("invalid schedule edit")

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Cabin prices derive from the stored economy price. Business carries a
// 35% premium over economy, first class a further 30% over business.
const (
	businessPriceFactorPct   = 135
	firstClassPriceFactorPct = 130
)

func BusinessPrice(economy int64) int64 {
	return economy * businessPriceFactorPct / 100
}

func FirstClassPrice(economy int64) int64 {
	return BusinessPrice(economy) * firstClassPriceFactorPct / 100
}

// ScheduleView is a schedule row with the two derived cabin prices
// attached. Only the economy price is stored.
type ScheduleView struct {
	domain.Schedule
	BusinessPrice   int64 `json:"business_price"`
	FirstClassPrice int64 `json:"first_class_price"`
}

// ScheduleEdit carries the fields an administrator may change on a
// schedule. Nil fields are left untouched.
type ScheduleEdit struct {
	Date         *time.Time
	Time         *string
	EconomyPrice *int64
}

type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

func (s *ScheduleService) List(filter repository.ScheduleFilter) ([]ScheduleView, error) {
	schedules, err := s.scheduleRepo.List(filter)
	if err != nil {
		return nil, err
	}
	views := make([]ScheduleView, 0, len(schedules))
	for _, sched := range schedules {
		views = append(views, newScheduleView(sched))
	}
	return views, nil
}

func (s *ScheduleService) Get(id uint) (*ScheduleView, error) {
	sched, err := s.scheduleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	v := newScheduleView(*sched)
	return &v, nil
}

// Edit updates the mutable schedule fields. The flight number, route
// and aircraft are fixed once scheduled.
func (s *ScheduleService) Edit(id uint, edit ScheduleEdit) (*ScheduleView, error) {
	sched, err := s.scheduleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if edit.Date != nil {
		sched.Date = *edit.Date
	}
	if edit.Time != nil {
		if !timeOfDayPattern.MatchString(*edit.Time) {
			return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidScheduleEdit)
		}
		sched.Time = *edit.Time
	}
	if edit.EconomyPrice != nil {
		if *edit.EconomyPrice < 0 {
			return nil, fmt.Errorf("%w: economy price must not be negative", ErrInvalidScheduleEdit)
		}
		sched.EconomyPrice = *edit.EconomyPrice
	}
	if err := s.scheduleRepo.Update(sched); err != nil {
		return nil, err
	}
	v := newScheduleView(*sched)
	return &v, nil
}

// SetConfirmed toggles a schedule between confirmed and canceled.
func (s *ScheduleService) SetConfirmed(id uint, confirmed bool) error {
	changed, err := s.scheduleRepo.SetConfirmed(id, confirmed)
	if err != nil {
		return err
	}
	if !changed {
		return repository.ErrScheduleNotFound
	}
	return nil
}

func newScheduleView(s domain.Schedule) ScheduleView {
	return ScheduleView{
		Schedule:        s,
		BusinessPrice:   BusinessPrice(s.EconomyPrice),
		FirstClassPrice: FirstClassPrice(s.EconomyPrice),
	}
}

// PriceForCabin returns the effective price of a schedule seat in the
// given cabin class.
func PriceForCabin(economy int64, cabin string) (int64, error) {
	switch cabin {
	case domain.CabinEconomy:
		return economy, nil
	case domain.CabinBusiness:
		return BusinessPrice(economy), nil
	case domain.CabinFirstClass:
		return FirstClassPrice(economy), nil
	default:
		return 0, fmt.Errorf("unknown cabin type: %s", cabin)
	}
}
