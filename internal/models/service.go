package models

import "time"

// Service represents a reviewable service listing.
type Service struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Company     string    `json:"company" validate:"omitempty,max=200"`
	Website     string    `json:"website" validate:"omitempty,url"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Category    string    `json:"category" validate:"required,max=100"`
	Price       float64   `json:"price" validate:"gte=0"`
	OwnerEmail  string    `json:"owner_email" validate:"required,email"`
	OwnerName   string    `json:"owner_name" validate:"omitempty,max=200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
