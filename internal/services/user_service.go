package services

import (
	"criticizeit/internal/models"
	"criticizeit/internal/repositories"
)

// UserService handles business logic for the users collection.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// CreateUser creates a new user profile.
func (s *UserService) CreateUser(user *models.User) error {
	return s.repo.Create(user)
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.GetAll()
}
