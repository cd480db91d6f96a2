package services

import (
	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
)

// featuredLimit caps the featured services listing.
const featuredLimit = 6

// CatalogService handles business logic for the services collection.
type CatalogService struct {
	repo repositories.ServiceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ServiceRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// AddService creates a new service listing.
func (s *CatalogService) AddService(service *models.Service) error {
	return s.repo.Create(service)
}

// SearchServices retrieves services matching the optional free-text search
// (title, case-insensitive) and exact category filter.
func (s *CatalogService) SearchServices(search, category string) ([]models.Service, error) {
	return s.repo.List(repositories.ServiceFilter{
		Search:   search,
		Category: category,
	})
}

// ServicesByOwner retrieves the given owner's services, optionally narrowed
// by a free-text title search.
func (s *CatalogService) ServicesByOwner(email, search string) ([]models.Service, error) {
	return s.repo.List(repositories.ServiceFilter{
		Search:     search,
		OwnerEmail: email,
	})
}

// FeaturedServices retrieves the newest services, capped at six.
func (s *CatalogService) FeaturedServices() ([]models.Service, error) {
	return s.repo.Featured(featuredLimit)
}

// GetServiceByID retrieves a single service by its ID.
func (s *CatalogService) GetServiceByID(id string) (*models.Service, error) {
	return s.repo.GetByID(id)
}

// UpsertService applies a partial update to the service with the given ID,
// creating it when absent. It reports whether a document was created.
func (s *CatalogService) UpsertService(id string, fields map[string]interface{}) (*models.Service, bool, error) {
	return s.repo.Upsert(id, fields)
}

// DeleteService deletes a service by its ID.
func (s *CatalogService) DeleteService(id string) error {
	return s.repo.Delete(id)
}
