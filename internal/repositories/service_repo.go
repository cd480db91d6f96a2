package repositories

import (
	"errors"

	"criticizeit/internal/models"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("not found")

// ServiceFilter holds the optional listing predicates. Empty fields are
// treated as absent, not as match-empty-string.
type ServiceFilter struct {
	Search     string // case-insensitive partial match against title
	Category   string // exact match
	OwnerEmail string // exact match
}

// ServiceRepository defines the interface for service data access.
type ServiceRepository interface {
	Create(service *models.Service) error
	List(filter ServiceFilter) ([]models.Service, error)
	Featured(limit int) ([]models.Service, error)
	GetByID(id string) (*models.Service, error)
	Upsert(id string, fields map[string]interface{}) (*models.Service, bool, error)
	Delete(id string) error
}
