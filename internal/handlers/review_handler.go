package handlers

import (
	"errors"
	"log"

	"criticizeit/internal/middleware"
	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
	"criticizeit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for the reviews collection.
type ReviewHandler struct {
	reviews  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/add-review", auth, h.HandleAddReview)
	router.Get("/reviews/:serviceId", h.HandleReviewsForService)
	router.Get("/myReviews/:email", auth, middleware.OwnerRequired(), h.HandleMyReviews)
	router.Put("/update-review/:id", auth, h.HandleUpdateReview)
	router.Delete("/review/:id", auth, h.HandleDeleteReview)
}

// HandleAddReview creates a new review.
func (h *ReviewHandler) HandleAddReview(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		log.Printf("Error parsing add-review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.reviews.AddReview(&review); err != nil {
		log.Printf("Error creating review: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleReviewsForService lists all reviews referencing a service.
func (h *ReviewHandler) HandleReviewsForService(c *fiber.Ctx) error {
	serviceID := c.Params("serviceId")
	results, err := h.reviews.ReviewsForService(serviceID)
	if err != nil {
		log.Printf("Error listing reviews for service %s: %v", serviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
		})
	}
	return c.JSON(results)
}

// HandleMyReviews lists the authenticated owner's reviews.
func (h *ReviewHandler) HandleMyReviews(c *fiber.Ctx) error {
	email := c.Params("email")
	results, err := h.reviews.ReviewsByOwner(email)
	if err != nil {
		log.Printf("Error listing reviews for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
		})
	}
	return c.JSON(results)
}

// UpdateReviewRequest represents a partial review document for upsert.
type UpdateReviewRequest struct {
	ServiceID  *string  `json:"service_id"`
	OwnerEmail *string  `json:"owner_email" validate:"omitempty,email"`
	OwnerName  *string  `json:"owner_name" validate:"omitempty,max=200"`
	OwnerPhoto *string  `json:"owner_photo" validate:"omitempty,url"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Comment    *string  `json:"comment" validate:"omitempty,max=2000"`
}

// Fields returns the supplied fields keyed by column name.
func (r UpdateReviewRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.ServiceID != nil {
		fields["service_id"] = *r.ServiceID
	}
	if r.OwnerEmail != nil {
		fields["owner_email"] = *r.OwnerEmail
	}
	if r.OwnerName != nil {
		fields["owner_name"] = *r.OwnerName
	}
	if r.OwnerPhoto != nil {
		fields["owner_photo"] = *r.OwnerPhoto
	}
	if r.Rating != nil {
		fields["rating"] = *r.Rating
	}
	if r.Comment != nil {
		fields["comment"] = *r.Comment
	}
	return fields
}

// HandleUpdateReview applies a partial update to the review with the given
// ID, creating the document when it does not exist.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	review, created, err := h.reviews.UpsertReview(id, req.Fields())
	if err != nil {
		log.Printf("Error upserting review %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update review",
		})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"created": created,
		"review":  review,
	})
}

// HandleDeleteReview deletes a review by its ID.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.reviews.DeleteReview(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		}
		log.Printf("Error deleting review %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete review",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Review deleted successfully",
	})
}
