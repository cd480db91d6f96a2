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

// ServiceHandler handles HTTP requests for the services collection.
type ServiceHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(catalog *services.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the service routes with the Fiber app. auth guards
// mutating and owner-scoped routes; public reads stay public.
func (h *ServiceHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/add-service", auth, h.HandleAddService)
	router.Get("/all-services", h.HandleAllServices)
	router.Get("/services", h.HandleFeaturedServices)
	router.Get("/serviceDetails/:id", h.HandleServiceDetails)
	router.Get("/myServices/:email", auth, middleware.OwnerRequired(), h.HandleMyServices)
	router.Put("/update-service/:id", auth, h.HandleUpdateService)
	router.Delete("/service/:id", auth, h.HandleDeleteService)
}

// HandleAddService creates a new service listing.
func (h *ServiceHandler) HandleAddService(c *fiber.Ctx) error {
	var service models.Service
	if err := c.BodyParser(&service); err != nil {
		log.Printf("Error parsing add-service request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.catalog.AddService(&service); err != nil {
		log.Printf("Error creating service: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create service",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(service)
}

// HandleAllServices lists services, narrowed by the optional ?search (title,
// case-insensitive) and ?filter (exact category) parameters.
func (h *ServiceHandler) HandleAllServices(c *fiber.Ctx) error {
	search := c.Query("search")
	category := c.Query("filter")

	results, err := h.catalog.SearchServices(search, category)
	if err != nil {
		log.Printf("Error listing services: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve services",
		})
	}
	return c.JSON(results)
}

// HandleFeaturedServices lists the newest services, capped at six.
func (h *ServiceHandler) HandleFeaturedServices(c *fiber.Ctx) error {
	results, err := h.catalog.FeaturedServices()
	if err != nil {
		log.Printf("Error listing featured services: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve services",
		})
	}
	return c.JSON(results)
}

// HandleServiceDetails retrieves a single service by its ID.
func (h *ServiceHandler) HandleServiceDetails(c *fiber.Ctx) error {
	id := c.Params("id")
	service, err := h.catalog.GetServiceByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Service not found",
			})
		}
		log.Printf("Error getting service %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve service",
		})
	}
	return c.JSON(service)
}

// HandleMyServices lists the authenticated owner's services, optionally
// narrowed by ?search. OwnerRequired has already matched the path email
// against the token.
func (h *ServiceHandler) HandleMyServices(c *fiber.Ctx) error {
	email := c.Params("email")
	search := c.Query("search")

	results, err := h.catalog.ServicesByOwner(email, search)
	if err != nil {
		log.Printf("Error listing services for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve services",
		})
	}
	return c.JSON(results)
}

// UpdateServiceRequest represents a partial service document for upsert.
// Absent fields are left untouched on an existing document.
type UpdateServiceRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Company     *string  `json:"company" validate:"omitempty,max=200"`
	Website     *string  `json:"website" validate:"omitempty,url"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	OwnerEmail  *string  `json:"owner_email" validate:"omitempty,email"`
	OwnerName   *string  `json:"owner_name" validate:"omitempty,max=200"`
}

// Fields returns the supplied fields keyed by column name.
func (r UpdateServiceRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Company != nil {
		fields["company"] = *r.Company
	}
	if r.Website != nil {
		fields["website"] = *r.Website
	}
	if r.ImageURL != nil {
		fields["image_url"] = *r.ImageURL
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.OwnerEmail != nil {
		fields["owner_email"] = *r.OwnerEmail
	}
	if r.OwnerName != nil {
		fields["owner_name"] = *r.OwnerName
	}
	return fields
}

// HandleUpdateService applies a partial update to the service with the given
// ID, creating the document when it does not exist.
func (h *ServiceHandler) HandleUpdateService(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-service request body: %v", err)
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

	service, created, err := h.catalog.UpsertService(id, req.Fields())
	if err != nil {
		log.Printf("Error upserting service %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update service",
		})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"created": created,
		"service": service,
	})
}

// HandleDeleteService deletes a service by its ID.
func (h *ServiceHandler) HandleDeleteService(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalog.DeleteService(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Service not found",
			})
		}
		log.Printf("Error deleting service %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete service",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Service deleted successfully",
	})
}
