package repositories

import "criticizeit/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByService(serviceID string) ([]models.Review, error)
	ListByOwner(email string) ([]models.Review, error)
	GetByID(id string) (*models.Review, error)
	Upsert(id string, fields map[string]interface{}) (*models.Review, bool, error)
	Delete(id string) error
}
