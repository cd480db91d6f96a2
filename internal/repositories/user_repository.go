package repositories

import "criticizeit/internal/models"

// UserRepository defines the interface for user data access. Users are only
// ever inserted and listed in this system.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
}
