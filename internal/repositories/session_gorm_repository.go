package repositories

import (
	"errors"
	"fmt"

	"freshmart/internal/apperr"
	"freshmart/internal/models"

	"gorm.io/gorm"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Create stores a new session.
func (r *GORMSessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByToken resolves a session by its token.
func (r *GORMSessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Delete removes a session; deleting a token that is already gone is a no-op.
func (r *GORMSessionRepository) Delete(token string) error {
	if err := r.db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
