package repositories

import (
	"errors"
	"fmt"

	"freshmart/internal/apperr"
	"freshmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne("username = ?", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", email)
}

// GetByLogin retrieves a user whose username or email matches login.
func (r *GORMUserRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ? OR email = ?", login, login).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", login, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", login, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne("id = ?", id)
}

func (r *GORMUserRepository) getOne(query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", arg, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", arg, err)
	}
	return &user, nil
}

// UpdateProfile applies a partial update to the user's profile fields.
func (r *GORMUserRepository) UpdateProfile(id string, upd models.ProfileUpdate) error {
	fields := map[string]interface{}{}
	if upd.FullName != nil {
		fields["full_name"] = *upd.FullName
	}
	if upd.Phone != nil {
		fields["phone"] = *upd.Phone
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if len(fields) == 0 {
		return &apperr.Invalid{Msg: "no fields to update"}
	}

	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile of user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListAddresses retrieves a user's saved addresses, default first.
func (r *GORMUserRepository) ListAddresses(userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for user %s: %w", userID, err)
	}
	return addresses, nil
}

// AddAddress inserts a new address. Flagging it default clears any prior
// default of the same user inside the same transaction.
func (r *GORMUserRepository) AddAddress(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ?", address.UserID).
				Update("is_default", false).Error
			if err != nil {
				return fmt.Errorf("failed to clear default addresses: %w", err)
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to insert address: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("address transaction failed: %w", err)
	}
	return nil
}

// DeleteAddress removes an address owned by the given user.
func (r *GORMUserRepository) DeleteAddress(userID, addressID string) error {
	res := r.db.Delete(&models.Address{}, "id = ? AND user_id = ?", addressID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %s: %w", addressID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s: %w", addressID, apperr.ErrNotFound)
	}
	return nil
}
