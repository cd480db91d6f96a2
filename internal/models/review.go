package models

import "time"

// Review represents a user review of a service. ServiceID is a copied
// identifier string, not an enforced foreign key.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ServiceID  string    `json:"service_id" validate:"required"`
	OwnerEmail string    `json:"owner_email" validate:"required,email"`
	OwnerName  string    `json:"owner_name" validate:"omitempty,max=200"`
	OwnerPhoto string    `json:"owner_photo" validate:"omitempty,url"`
	Rating     float64   `json:"rating" validate:"gte=0,lte=5"`
	Comment    string    `json:"comment" validate:"omitempty,max=2000"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
