package service

import (
	"database/sql"
	"errors"
	"go-notes-api/model"
	"go-notes-api/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID looks up a user for profile display.
func (s *UserService) GetUserByID(id string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
