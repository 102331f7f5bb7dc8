package repository

import (
	"context"
	"errors"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrRoleNotFound   = errors.New("role not found")
)

type OfficeRepository interface {
	List() ([]domain.Office, error)
	FindByTitle(title string) (*domain.Office, error)
}

type RoleRepository interface {
	List() ([]domain.Role, error)
	FindByID(id uint) (*domain.Role, error)
	FindByTitle(title string) (*domain.Role, error)
}

type GormOfficeRepository struct{ db *gorm.DB }

func NewOfficeRepository(db *gorm.DB) OfficeRepository { return &GormOfficeRepository{db: db} }

func (r *GormOfficeRepository) List() ([]domain.Office, error) {
	var offices []domain.Office
	err := r.db.Preload("Country").Order("title").Find(&offices).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "office", "list", "error")
		return offices, err
	}
	observability.RecordRepositoryOperation(context.Background(), "office", "list", "success")
	return offices, err
}

func (r *GormOfficeRepository) FindByTitle(title string) (*domain.Office, error) {
	var o domain.Office
	err := r.db.Where("title = ?", title).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "office", "find_by_title", "not_found")
			return nil, ErrOfficeNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "office", "find_by_title", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "office", "find_by_title", "success")
	return &o, nil
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &GormRoleRepository{db: db} }

func (r *GormRoleRepository) List() ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.Order("id").Find(&roles).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "role", "list", "error")
		return roles, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "list", "success")
	return roles, err
}

func (r *GormRoleRepository) FindByID(id uint) (*domain.Role, error) {
	var role domain.Role
	err := r.db.First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "not_found")
			return nil, ErrRoleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "find_by_id", "success")
	return &role, nil
}

func (r *GormRoleRepository) FindByTitle(title string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.Where("title = ?", title).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "role", "find_by_title", "not_found")
			return nil, ErrRoleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "find_by_title", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "find_by_title", "success")
	return &role, nil
}
