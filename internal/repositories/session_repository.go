package repositories

import "freshmart/internal/models"

// SessionRepository defines the interface for the server-side session store.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	Delete(token string) error
}
