package repositories

import (
	"time"

	"freshmart/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order and its items in one transaction and applies
	// the conditional stock decrement for every item carrying a product
	// reference. Either everything is committed or nothing is.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	GetAllByUser(userID string) ([]models.Order, error)
	// UpdateStatus sets the order status and, when deliveredAt is non-nil,
	// stamps the delivery timestamp in the same update.
	UpdateStatus(id string, status string, deliveredAt *time.Time) error
}
