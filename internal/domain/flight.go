package domain

import "time"

type Airport struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CountryID uint    `gorm:"index;not null" json:"country_id"`
	Country   Country `gorm:"foreignKey:CountryID" json:"-"`
	IATACode  string  `gorm:"size:3;uniqueIndex;not null" json:"iata_code"`
	Name      string  `gorm:"size:256;not null" json:"name"`
}

type Route struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	DepartureAirportID uint          `gorm:"index;not null" json:"departure_airport_id"`
	DepartureAirport   Airport       `gorm:"foreignKey:DepartureAirportID" json:"-"`
	ArrivalAirportID   uint          `gorm:"index;not null" json:"arrival_airport_id"`
	ArrivalAirport     Airport       `gorm:"foreignKey:ArrivalAirportID" json:"-"`
	Distance           int           `gorm:"not null" json:"distance"`
	FlightTime         time.Duration `gorm:"column:flight_time_ns;not null" json:"flight_time"`
}

type Aircraft struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:128;not null" json:"name"`
	MakeModel     string `gorm:"size:128;not null" json:"make_model"`
	TotalSeats    int    `gorm:"not null" json:"total_seats"`
	EconomySeats  int    `gorm:"not null" json:"economy_seats"`
	BusinessSeats int    `gorm:"not null" json:"business_seats"`
}

type Schedule struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Date         time.Time `gorm:"type:date;index;not null" json:"date"`
	Time         string    `gorm:"size:5;not null" json:"time"`
	AircraftID   uint      `gorm:"index;not null" json:"aircraft_id"`
	Aircraft     Aircraft  `gorm:"foreignKey:AircraftID" json:"-"`
	RouteID      uint      `gorm:"index;not null" json:"route_id"`
	Route        Route     `gorm:"foreignKey:RouteID" json:"-"`
	FlightNumber string    `gorm:"size:10;index;not null" json:"flight_number"`
	EconomyPrice int64     `gorm:"not null" json:"economy_price"`
	Confirmed    bool      `gorm:"not null;default:true" json:"confirmed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CabinType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

// Cabin type names as seeded in the cabin_types table.
const (
	CabinEconomy    = "Economy"
	CabinBusiness   = "Business"
	CabinFirstClass = "First Class"
)
