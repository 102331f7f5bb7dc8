package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avialine/backoffice/internal/config"
	"github.com/avialine/backoffice/internal/domain"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Country{},
		&domain.Office{},
		&domain.Role{},
		&domain.User{},
		&domain.Session{},
		&domain.Airport{},
		&domain.Route{},
		&domain.Aircraft{},
		&domain.Schedule{},
		&domain.CabinType{},
		&domain.Ticket{},
		&domain.Amenity{},
		&domain.AmenityCabinType{},
		&domain.AmenityTicket{},
		&domain.Survey{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Seed inserts the fixed reference rows the application expects. It is
// idempotent.
func Seed(db *gorm.DB) error {
	for _, title := range []string{domain.RoleAdministrator, domain.RoleOfficeUser} {
		role := domain.Role{Title: title}
		if err := db.Where("title = ?", title).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", title, err)
		}
	}
	for _, name := range []string{domain.CabinEconomy, domain.CabinBusiness, domain.CabinFirstClass} {
		cabin := domain.CabinType{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&cabin).Error; err != nil {
			return fmt.Errorf("seed cabin type %q: %w", name, err)
		}
	}
	return nil
}
