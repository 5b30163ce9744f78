package repositories

import (
	"errors"
	"fmt"
	"time"

	"freshmart/internal/apperr"
	"freshmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts the order with all its items and applies the conditional
// stock decrement inside one transaction. The decrement only fires while
// stock_quantity >= quantity, which is what keeps stock from going negative
// under concurrent checkouts; an insufficient decrement is skipped silently,
// it does not fail the order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		for _, item := range order.Items {
			if item.ProductID == "" {
				continue
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to adjust stock for product %s: %w", item.ProductID, res.Error)
			}
			// RowsAffected == 0 means not enough stock (or an unknown
			// product): the decrement is skipped, the order still stands.
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("order transaction failed: %w", err)
	}
	return nil
}

// GetByID retrieves an order and its items by internal ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.getOne("id = ?", id)
}

// GetByNumber retrieves an order and its items by its human-facing number.
func (r *GORMOrderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	return r.getOne("order_number = ?", orderNumber)
}

func (r *GORMOrderRepository) getOne(query string, arg string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", arg, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", arg, err)
	}
	return &order, nil
}

// GetAllByUser retrieves a user's orders, newest first, items included.
func (r *GORMOrderRepository) GetAllByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus sets the order status; a non-nil deliveredAt is written in the
// same UPDATE so status and timestamp can never drift apart.
func (r *GORMOrderRepository) UpdateStatus(id string, status string, deliveredAt *time.Time) error {
	fields := map[string]interface{}{"order_status": status}
	if deliveredAt != nil {
		fields["delivered_at"] = deliveredAt
	}

	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
