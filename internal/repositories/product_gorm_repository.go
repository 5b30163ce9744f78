package repositories

import (
	"errors"
	"fmt"

	"freshmart/internal/apperr"
	"freshmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products, restricted to active ones when activeOnly is set.
func (r *GORMProductRepository) GetAll(activeOnly bool) ([]models.Product, error) {
	var products []models.Product
	q := r.db.Order("category_name, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByCategorySlug retrieves active products belonging to a category.
func (r *GORMProductRepository) GetByCategorySlug(slug string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("category_slug = ? AND is_active = ?", slug, true).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for category %s: %w", slug, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, active or not.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update applies a partial update to an existing product.
func (r *GORMProductRepository) Update(id string, upd models.ProductUpdate) error {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.StockQuantity != nil {
		fields["stock_quantity"] = *upd.StockQuantity
	}
	if upd.ImageURL != nil {
		fields["image_url"] = *upd.ImageURL
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Unit != nil {
		fields["unit"] = *upd.Unit
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if len(fields) == 0 {
		return &apperr.Invalid{Msg: "no fields to update"}
	}

	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a product inactive instead of removing the row.
func (r *GORMProductRepository) SoftDelete(id string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
