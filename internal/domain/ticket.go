package domain

import "time"

type Ticket struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
	ScheduleID        uint      `gorm:"index;not null" json:"schedule_id"`
	Schedule          Schedule  `gorm:"foreignKey:ScheduleID" json:"-"`
	CabinTypeID       uint      `gorm:"index;not null" json:"cabin_type_id"`
	CabinType         CabinType `gorm:"foreignKey:CabinTypeID" json:"-"`
	FirstName         string    `gorm:"size:128;not null" json:"first_name"`
	LastName          string    `gorm:"size:128;not null" json:"last_name"`
	Email             string    `gorm:"size:256;not null" json:"email"`
	Phone             string    `gorm:"size:32" json:"phone"`
	PassportNumber    string    `gorm:"size:32;not null" json:"passport_number"`
	PassportCountryID uint      `gorm:"not null" json:"passport_country_id"`
	PassportCountry   Country   `gorm:"foreignKey:PassportCountryID" json:"-"`
	BookingReference  string    `gorm:"size:6;uniqueIndex;not null" json:"booking_reference"`
	Confirmed         bool      `gorm:"not null;default:true" json:"confirmed"`
	CreatedAt         time.Time `json:"created_at"`
}

type Amenity struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Service string `gorm:"size:128;uniqueIndex;not null" json:"service"`
	Price   int64  `gorm:"not null" json:"price"`
}

// AmenityCabinType marks an amenity as included by default for a cabin
// class; included amenities are free on tickets of that class.
type AmenityCabinType struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	AmenityID   uint `gorm:"index;not null" json:"amenity_id"`
	CabinTypeID uint `gorm:"index;not null" json:"cabin_type_id"`
}

// AmenityTicket is a purchase row; Price snapshots the amenity price at
// purchase time so later price edits do not rewrite history.
type AmenityTicket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AmenityID uint      `gorm:"index;not null" json:"amenity_id"`
	Amenity   Amenity   `gorm:"foreignKey:AmenityID" json:"-"`
	TicketID  uint      `gorm:"index;not null" json:"ticket_id"`
	Ticket    Ticket    `gorm:"foreignKey:TicketID" json:"-"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
