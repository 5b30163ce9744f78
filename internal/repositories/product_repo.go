package repositories

import (
	"freshmart/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll(activeOnly bool) ([]models.Product, error)
	GetByCategorySlug(slug string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(id string, upd models.ProductUpdate) error
	// SoftDelete marks the product inactive; the row is kept so order items
	// referencing it stay resolvable.
	SoftDelete(id string) error
}
