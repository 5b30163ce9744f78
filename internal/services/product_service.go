package services

import (
	"freshmart/internal/models"
	"freshmart/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetActiveProducts retrieves the storefront catalog (active products only).
func (s *ProductService) GetActiveProducts() ([]models.Product, error) {
	return s.repo.GetAll(true)
}

// GetProductsByCategory retrieves active products in one category.
func (s *ProductService) GetProductsByCategory(slug string) ([]models.Product, error) {
	return s.repo.GetByCategorySlug(slug)
}

// GetProductByID retrieves a single product, active or not, so order history
// can still resolve deactivated items.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new catalog entry. New products default to active
// and unit "piece" when unspecified.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Unit == "" {
		product.Unit = "piece"
	}
	product.IsActive = true
	return s.repo.Create(product)
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(id string, upd models.ProductUpdate) error {
	return s.repo.Update(id, upd)
}

// DeactivateProduct soft-deletes a product: the entry stays in the table but
// disappears from the storefront.
func (s *ProductService) DeactivateProduct(id string) error {
	return s.repo.SoftDelete(id)
}
