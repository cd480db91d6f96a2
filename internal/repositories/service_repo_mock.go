package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"criticizeit/internal/models"

	"github.com/google/uuid"
)

// MockServiceRepository is an in-memory implementation of ServiceRepository.
type MockServiceRepository struct {
	services map[string]models.Service
	mu       sync.RWMutex
}

// NewMockServiceRepository creates a new instance of MockServiceRepository.
func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{
		services: make(map[string]models.Service),
	}
}

// Create adds a new service.
func (r *MockServiceRepository) Create(service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now
	r.services[service.ID] = *service
	return nil
}

// List returns services matching the filter.
func (r *MockServiceRepository) List(filter ServiceFilter) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serviceList := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.OwnerEmail != "" && s.OwnerEmail != filter.OwnerEmail {
			continue
		}
		serviceList = append(serviceList, s)
	}
	return serviceList, nil
}

// Featured returns the newest services, capped at limit.
func (r *MockServiceRepository) Featured(limit int) ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serviceList := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		serviceList = append(serviceList, s)
	}
	sort.Slice(serviceList, func(i, j int) bool {
		return serviceList[i].CreatedAt.After(serviceList[j].CreatedAt)
	})
	if len(serviceList) > limit {
		serviceList = serviceList[:limit]
	}
	return serviceList, nil
}

// GetByID returns a service by its ID.
func (r *MockServiceRepository) GetByID(id string) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("service with ID %s: %w", id, ErrNotFound)
	}
	return &service, nil
}

// Upsert applies a field-level set, creating the service when absent.
func (r *MockServiceRepository) Upsert(id string, fields map[string]interface{}) (*models.Service, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	service, ok := r.services[id]
	now := time.Now()
	if !ok {
		service = models.Service{ID: id, CreatedAt: now}
	}
	// Column names match the json tags, so a json round trip applies
	// exactly the supplied fields.
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, false, fmt.Errorf("failed to apply upsert fields: %w", err)
	}
	if err := json.Unmarshal(body, &service); err != nil {
		return nil, false, fmt.Errorf("failed to apply upsert fields: %w", err)
	}
	service.ID = id
	service.UpdatedAt = now
	r.services[id] = service
	return &service, !ok, nil
}

// Delete removes a service by its ID.
func (r *MockServiceRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return fmt.Errorf("service with ID %s: %w", id, ErrNotFound)
	}
	delete(r.services, id)
	return nil
}
