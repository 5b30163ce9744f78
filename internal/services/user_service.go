package services

import (
	"freshmart/internal/apperr"
	"freshmart/internal/models"
	"freshmart/internal/repositories"
)

// UserService handles profile and address management for signed-in users.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetProfile retrieves the user's profile.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(userID string, upd models.ProfileUpdate) error {
	if upd.Empty() {
		return &apperr.Invalid{Msg: "no fields to update"}
	}
	return s.userRepo.UpdateProfile(userID, upd)
}

// ListAddresses retrieves the user's saved addresses, default first.
func (s *UserService) ListAddresses(userID string) ([]models.Address, error) {
	return s.userRepo.ListAddresses(userID)
}

// AddAddress saves a new delivery address for the user.
func (s *UserService) AddAddress(userID string, address *models.Address) error {
	if address.AddressLine == "" {
		return apperr.Validation("address_line")
	}
	address.UserID = userID
	return s.userRepo.AddAddress(address)
}

// DeleteAddress removes one of the user's addresses.
func (s *UserService) DeleteAddress(userID, addressID string) error {
	return s.userRepo.DeleteAddress(userID, addressID)
}
