package services

import (
	"encoding/json"
	"log"

	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
)

// EventPublisher publishes domain events. Satisfied by *rabbitmq.Client.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ReviewService handles business logic for the reviews collection.
type ReviewService struct {
	repo      repositories.ReviewRepository
	publisher EventPublisher
}

// NewReviewService creates a new ReviewService. The publisher may be nil, in
// which case event publication is skipped.
func NewReviewService(repo repositories.ReviewRepository, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddReview creates a new review and publishes a review.created event. A
// publish failure is logged, never surfaced to the caller: the review is
// already persisted.
func (s *ReviewService) AddReview(review *models.Review) error {
	if err := s.repo.Create(review); err != nil {
		return err
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"reviewID":   review.ID,
			"serviceID":  review.ServiceID,
			"ownerEmail": review.OwnerEmail,
			"rating":     review.Rating,
		}
		body, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal review event: %v", err)
		} else if err := s.publisher.Publish("review.created", body); err != nil {
			log.Printf("Warning: Failed to publish review created event for review %s: %v", review.ID, err)
		}
	}

	return nil
}

// ReviewsForService retrieves all reviews referencing the given service id.
func (s *ReviewService) ReviewsForService(serviceID string) ([]models.Review, error) {
	return s.repo.ListByService(serviceID)
}

// ReviewsByOwner retrieves all reviews posted by the given email.
func (s *ReviewService) ReviewsByOwner(email string) ([]models.Review, error) {
	return s.repo.ListByOwner(email)
}

// UpsertReview applies a partial update to the review with the given ID,
// creating it when absent. It reports whether a document was created.
func (s *ReviewService) UpsertReview(id string, fields map[string]interface{}) (*models.Review, bool, error) {
	return s.repo.Upsert(id, fields)
}

// DeleteReview deletes a review by its ID.
func (s *ReviewService) DeleteReview(id string) error {
	return s.repo.Delete(id)
}
