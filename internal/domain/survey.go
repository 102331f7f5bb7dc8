package domain

// Survey is one passenger satisfaction questionnaire row. Q1..Q4 hold
// answer scores; nil means the passenger skipped the question.
type Survey struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	DepartureAirportID uint    `gorm:"index;not null" json:"departure_airport_id"`
	Airport            Airport `gorm:"foreignKey:DepartureAirportID" json:"-"`
	ArrivalAirportID   uint    `gorm:"index;not null" json:"arrival_airport_id"`
	Age                *int    `json:"age,omitempty"`
	Gender             string  `gorm:"size:1;not null;default:M" json:"gender"`
	CabinTypeID        uint    `gorm:"index;not null" json:"cabin_type_id"`
	Q1                 *int    `json:"q1,omitempty"`
	Q2                 *int    `json:"q2,omitempty"`
	Q3                 *int    `json:"q3,omitempty"`
	Q4                 *int    `json:"q4,omitempty"`
	SurveyMonth        string  `gorm:"size:2;index;not null" json:"survey_month"`
}
