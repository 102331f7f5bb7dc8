package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrAirportNotFound  = errors.New("airport not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

type AirportRepository interface {
	List() ([]domain.Airport, error)
	FindByID(id uint) (*domain.Airport, error)
}

type RouteRepository interface {
	List() ([]domain.Route, error)
}

type AircraftRepository interface {
	List() ([]domain.Aircraft, error)
}

// ScheduleFilter narrows the schedule listing; zero values mean "any".
type ScheduleFilter struct {
	Date               *time.Time
	FlightNumber       string
	DepartureAirportID uint
	ArrivalAirportID   uint
	SortBy             string
}

type ScheduleRepository interface {
	List(filter ScheduleFilter) ([]domain.Schedule, error)
	FindByID(id uint) (*domain.Schedule, error)
	Update(s *domain.Schedule) error
	SetConfirmed(id uint, confirmed bool) (bool, error)
}

type GormAirportRepository struct{ db *gorm.DB }

func NewAirportRepository(db *gorm.DB) AirportRepository { return &GormAirportRepository{db: db} }

func (r *GormAirportRepository) List() ([]domain.Airport, error) {
	var airports []domain.Airport
	err := r.db.Preload("Country").Order("iata_code").Find(&airports).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "airport", "list", "error")
		return airports, err
	}
	observability.RecordRepositoryOperation(context.Background(), "airport", "list", "success")
	return airports, err
}

func (r *GormAirportRepository) FindByID(id uint) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "airport", "find_by_id", "not_found")
			return nil, ErrAirportNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "airport", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "airport", "find_by_id", "success")
	return &a, nil
}

type GormRouteRepository struct{ db *gorm.DB }

func NewRouteRepository(db *gorm.DB) RouteRepository { return &GormRouteRepository{db: db} }

func (r *GormRouteRepository) List() ([]domain.Route, error) {
	var routes []domain.Route
	err := r.db.Preload("DepartureAirport").Preload("ArrivalAirport").Find(&routes).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "route", "list", "error")
		return routes, err
	}
	observability.RecordRepositoryOperation(context.Background(), "route", "list", "success")
	return routes, err
}

type GormAircraftRepository struct{ db *gorm.DB }

func NewAircraftRepository(db *gorm.DB) AircraftRepository { return &GormAircraftRepository{db: db} }

func (r *GormAircraftRepository) List() ([]domain.Aircraft, error) {
	var aircraft []domain.Aircraft
	err := r.db.Order("name").Find(&aircraft).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "aircraft", "list", "error")
		return aircraft, err
	}
	observability.RecordRepositoryOperation(context.Background(), "aircraft", "list", "success")
	return aircraft, err
}

type GormScheduleRepository struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) ScheduleRepository { return &GormScheduleRepository{db: db} }

func (r *GormScheduleRepository) List(filter ScheduleFilter) ([]domain.Schedule, error) {
	q := r.db.Model(&domain.Schedule{}).
		Preload("Aircraft").
		Preload("Route").
		Preload("Route.DepartureAirport").
		Preload("Route.ArrivalAirport")
	if filter.Date != nil {
		q = q.Where("date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.FlightNumber != "" {
		q = q.Where("flight_number = ?", filter.FlightNumber)
	}
	if filter.DepartureAirportID != 0 || filter.ArrivalAirportID != 0 {
		q = q.Joins("JOIN routes ON routes.id = schedules.route_id")
		if filter.DepartureAirportID != 0 {
			q = q.Where("routes.departure_airport_id = ?", filter.DepartureAirportID)
		}
		if filter.ArrivalAirportID != 0 {
			q = q.Where("routes.arrival_airport_id = ?", filter.ArrivalAirportID)
		}
	}
	switch filter.SortBy {
	case "price":
		q = q.Order("economy_price")
	case "status":
		q = q.Order("confirmed DESC")
	default:
		q = q.Order("date").Order("time")
	}

	var schedules []domain.Schedule
	if err := q.Find(&schedules).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "schedule", "list", "error")
		return schedules, err
	}
	observability.RecordRepositoryOperation(context.Background(), "schedule", "list", "success")
	return schedules, nil
}

func (r *GormScheduleRepository) FindByID(id uint) (*domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.Preload("Aircraft").Preload("Route").First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "schedule", "find_by_id", "not_found")
			return nil, ErrScheduleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "schedule", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "schedule", "find_by_id", "success")
	return &s, nil
}

func (r *GormScheduleRepository) Update(s *domain.Schedule) error {
	err := r.db.Save(s).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "schedule", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "schedule", "update", "success")
	return nil
}

func (r *GormScheduleRepository) SetConfirmed(id uint, confirmed bool) (bool, error) {
	res := r.db.Model(&domain.Schedule{}).
		Where("id = ?", id).
		Update("confirmed", confirmed)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "schedule", "set_confirmed", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "schedule", "set_confirmed", "success")
	return res.RowsAffected > 0, nil
}
