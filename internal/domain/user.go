package domain

import "time"

type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}

type Office struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CountryID uint    `gorm:"index;not null" json:"country_id"`
	Country   Country `gorm:"foreignKey:CountryID" json:"-"`
	Title     string  `gorm:"size:128;not null" json:"title"`
	Phone     string  `gorm:"size:32" json:"phone"`
	Contact   string  `gorm:"size:256" json:"contact"`
}

type Role struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:64;uniqueIndex;not null" json:"title"`
}

// Well-known role titles seeded at boot.
const (
	RoleAdministrator = "Administrator"
	RoleOfficeUser    = "Office user"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RoleID       uint       `gorm:"index;not null" json:"role_id"`
	Role         Role       `gorm:"foreignKey:RoleID" json:"-"`
	Email        string     `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	FirstName    string     `gorm:"size:128" json:"first_name"`
	LastName     string     `gorm:"size:128;not null" json:"last_name"`
	OfficeID     *uint      `gorm:"index" json:"office_id,omitempty"`
	Office       *Office    `gorm:"foreignKey:OfficeID" json:"-"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsAdministrator() bool {
	return u.Role.Title == RoleAdministrator
}
