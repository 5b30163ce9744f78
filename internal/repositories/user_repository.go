package repositories

import "freshmart/internal/models"

// UserRepository defines the interface for user and address data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByLogin resolves a user by username or email, whichever matches.
	GetByLogin(login string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdateProfile(id string, upd models.ProfileUpdate) error

	ListAddresses(userID string) ([]models.Address, error)
	// AddAddress inserts the address; when it is flagged default, prior
	// defaults of the same user are cleared in the same transaction.
	AddAddress(address *models.Address) error
	DeleteAddress(userID, addressID string) error
}
