package repositories

import (
	"errors"
	"fmt"
	"time"

	"criticizeit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create inserts a new review, assigning an id when none is given.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByService retrieves all reviews referencing the given service id.
func (r *GORMReviewRepository) ListByService(serviceID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews, "service_id = ?", serviceID).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews for service %s: %w", serviceID, err)
	}
	return reviews, nil
}

// ListByOwner retrieves all reviews posted by the given email.
func (r *GORMReviewRepository) ListByOwner(email string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews, "owner_email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews for owner %s: %w", email, err)
	}
	return reviews, nil
}

// GetByID retrieves a single review by its ID.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// Upsert applies a field-level set to the review with the given ID, creating
// the document when it does not exist. It reports whether a document was
// created. Map keys are column names.
func (r *GORMReviewRepository) Upsert(id string, fields map[string]interface{}) (*models.Review, bool, error) {
	var existing models.Review
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
		if err := r.db.Model(&models.Review{}).Create(doc).Error; err != nil {
			return nil, false, fmt.Errorf("failed to upsert review %s: %w", id, err)
		}
		created, err := r.GetByID(id)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load review %s for upsert: %w", id, err)
	}

	if len(fields) > 0 {
		if err := r.db.Model(&existing).Updates(fields).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update review %s: %w", id, err)
		}
	}
	updated, err := r.GetByID(id)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// Delete removes a review by its ID.
func (r *GORMReviewRepository) Delete(id string) error {
	res := r.db.Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
