package repository

import (
	"context"
	"errors"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"

	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketRepository interface {
	Create(t *domain.Ticket) error
	FindByBookingReference(ref string) (*domain.Ticket, error)
	ListByUserID(userID uint) ([]domain.Ticket, error)
}

type AmenityRepository interface {
	List() ([]domain.Amenity, error)
	ListIncludedForCabinType(cabinTypeID uint) ([]domain.Amenity, error)
	ListPurchasesForTicket(ticketID uint) ([]domain.AmenityTicket, error)
	// RecordPurchases inserts price-snapshot rows for a ticket in one
	// transaction.
	RecordPurchases(purchases []domain.AmenityTicket) error
}

type GormTicketRepository struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &GormTicketRepository{db: db} }

func (r *GormTicketRepository) Create(t *domain.Ticket) error {
	err := r.db.Create(t).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "ticket", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "ticket", "create", "success")
	return nil
}

func (r *GormTicketRepository) FindByBookingReference(ref string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := r.db.Preload("Schedule").Preload("CabinType").Where("booking_reference = ?", ref).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "ticket", "find_by_booking_reference", "not_found")
			return nil, ErrTicketNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "ticket", "find_by_booking_reference", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "ticket", "find_by_booking_reference", "success")
	return &t, nil
}

func (r *GormTicketRepository) ListByUserID(userID uint) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.Preload("Schedule").Preload("CabinType").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "ticket", "list_by_user_id", "error")
		return tickets, err
	}
	observability.RecordRepositoryOperation(context.Background(), "ticket", "list_by_user_id", "success")
	return tickets, err
}

type GormAmenityRepository struct{ db *gorm.DB }

func NewAmenityRepository(db *gorm.DB) AmenityRepository { return &GormAmenityRepository{db: db} }

func (r *GormAmenityRepository) List() ([]domain.Amenity, error) {
	var amenities []domain.Amenity
	err := r.db.Order("service").Find(&amenities).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "amenity", "list", "error")
		return amenities, err
	}
	observability.RecordRepositoryOperation(context.Background(), "amenity", "list", "success")
	return amenities, err
}

func (r *GormAmenityRepository) ListIncludedForCabinType(cabinTypeID uint) ([]domain.Amenity, error) {
	var amenities []domain.Amenity
	err := r.db.
		Joins("JOIN amenity_cabin_types act ON act.amenity_id = amenities.id").
		Where("act.cabin_type_id = ?", cabinTypeID).
		Find(&amenities).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "amenity", "list_included_for_cabin", "error")
		return amenities, err
	}
	observability.RecordRepositoryOperation(context.Background(), "amenity", "list_included_for_cabin", "success")
	return amenities, err
}

func (r *GormAmenityRepository) ListPurchasesForTicket(ticketID uint) ([]domain.AmenityTicket, error) {
	var purchases []domain.AmenityTicket
	err := r.db.Preload("Amenity").Where("ticket_id = ?", ticketID).Find(&purchases).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "amenity", "list_purchases", "error")
		return purchases, err
	}
	observability.RecordRepositoryOperation(context.Background(), "amenity", "list_purchases", "success")
	return purchases, err
}

func (r *GormAmenityRepository) RecordPurchases(purchases []domain.AmenityTicket) error {
	if len(purchases) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&purchases).Error
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "amenity", "record_purchases", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "amenity", "record_purchases", "success")
	return nil
}
