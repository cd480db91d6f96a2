package repositories

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"criticizeit/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// Create adds a new review.
func (r *MockReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	r.reviews[review.ID] = *review
	return nil
}

// ListByService returns all reviews referencing the given service id.
func (r *MockReviewRepository) ListByService(serviceID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviewList := make([]models.Review, 0)
	for _, rv := range r.reviews {
		if rv.ServiceID == serviceID {
			reviewList = append(reviewList, rv)
		}
	}
	return reviewList, nil
}

// ListByOwner returns all reviews posted by the given email.
func (r *MockReviewRepository) ListByOwner(email string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviewList := make([]models.Review, 0)
	for _, rv := range r.reviews {
		if rv.OwnerEmail == email {
			reviewList = append(reviewList, rv)
		}
	}
	return reviewList, nil
}

// GetByID returns a review by its ID.
func (r *MockReviewRepository) GetByID(id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return &review, nil
}

// Upsert applies a field-level set, creating the review when absent.
func (r *MockReviewRepository) Upsert(id string, fields map[string]interface{}) (*models.Review, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	now := time.Now()
	if !ok {
		review = models.Review{ID: id, CreatedAt: now}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, false, fmt.Errorf("failed to apply upsert fields: %w", err)
	}
	if err := json.Unmarshal(body, &review); err != nil {
		return nil, false, fmt.Errorf("failed to apply upsert fields: %w", err)
	}
	review.ID = id
	review.UpdatedAt = now
	r.reviews[id] = review
	return &review, !ok, nil
}

// Delete removes a review by its ID.
func (r *MockReviewRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	delete(r.reviews, id)
	return nil
}
