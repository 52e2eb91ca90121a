package models

import (
	"time"

	"github.com/google/uuid"
)

// Address представляет адрес доставки пользователя
type Address struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	FullName       string    `json:"full_name"`
	PhoneNumber    string    `json:"phone_number"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	District       string    `json:"district"`
	Neighborhood   string    `json:"neighborhood,omitempty"`
	Street         string    `json:"street"`
	BuildingNo     string    `json:"building_no"`
	ApartmentNo    string    `json:"apartment_no"`
	PostalCode     string    `json:"postal_code"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
