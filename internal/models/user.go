package models

import "time"

// User represents a registered user profile. Email acts as the natural key
// for ownership checks; uniqueness is not enforced by the system.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Name      string    `json:"name" validate:"omitempty,max=200"`
	PhotoURL  string    `json:"photo_url" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
}
