package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"criticizeit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMServiceRepository is a GORM implementation of ServiceRepository.
type GORMServiceRepository struct {
	db *gorm.DB
}

// NewGORMServiceRepository creates a new instance of GORMServiceRepository.
func NewGORMServiceRepository(db *gorm.DB) *GORMServiceRepository {
	return &GORMServiceRepository{
		db: db,
	}
}

// Create inserts a new service, assigning an id when none is given.
func (r *GORMServiceRepository) Create(service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	if err := r.db.Create(service).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// List retrieves services matching the given filter. All present clauses
// are conjoined; an empty filter matches everything.
func (r *GORMServiceRepository) List(filter ServiceFilter) ([]models.Service, error) {
	query := r.db.Model(&models.Service{})
	// LOWER(...) LIKE keeps the match case-insensitive on both postgres and sqlite.
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OwnerEmail != "" {
		query = query.Where("owner_email = ?", filter.OwnerEmail)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// Featured retrieves the newest services, capped at limit.
func (r *GORMServiceRepository) Featured(limit int) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list featured services: %w", err)
	}
	return services, nil
}

// GetByID retrieves a single service by its ID.
func (r *GORMServiceRepository) GetByID(id string) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get service by ID %s: %w", id, err)
	}
	return &service, nil
}

// Upsert applies a field-level set to the service with the given ID, creating
// the document when it does not exist. It reports whether a document was
// created. Map keys are column names.
func (r *GORMServiceRepository) Upsert(id string, fields map[string]interface{}) (*models.Service, bool, error) {
	var existing models.Service
	err := r.db.First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		doc := make(map[string]interface{}, len(fields)+3)
		for k, v := range fields {
			doc[k] = v
		}
		now := time.Now()
		doc["id"] = id
		doc["created_at"] = now
		doc["updated_at"] = now
		if err := r.db.Model(&models.Service{}).Create(doc).Error; err != nil {
			return nil, false, fmt.Errorf("failed to upsert service %s: %w", id, err)
		}
		created, err := r.GetByID(id)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load service %s for upsert: %w", id, err)
	}

	if len(fields) > 0 {
		if err := r.db.Model(&existing).Updates(fields).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update service %s: %w", id, err)
		}
	}
	updated, err := r.GetByID(id)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// Delete removes a service by its ID.
func (r *GORMServiceRepository) Delete(id string) error {
	res := r.db.Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
