package handlers

import (
	"fmt"
	"log"

	"freshmart/internal/models"
	"freshmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers catalog routes. Reads are public; mutations are
// staff-only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminGuard fiber.Handler) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/products", adminGuard, h.HandleCreateProduct)
	router.Put("/products/:id", adminGuard, h.HandleUpdateProduct)
	router.Delete("/products/:id", adminGuard, h.HandleDeleteProduct)
}

// HandleGetProducts serves the catalog: all active products, one category,
// or a single product by ID.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	if id := c.Query("product_id"); id != "" {
		product, err := h.service.GetProductByID(id)
		if err != nil {
			return respondError(c, err, "Failed to fetch product")
		}
		return c.JSON(fiber.Map{"success": true, "products": []models.Product{*product}})
	}

	var (
		products []models.Product
		err      error
	)
	if slug := c.Query("category_slug"); slug != "" {
		products, err = h.service.GetProductsByCategory(slug)
	} else {
		products, err = h.service.GetActiveProducts()
	}
	if err != nil {
		return respondError(c, err, "Failed to fetch products")
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

// HandleCreateProduct creates a new catalog entry.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, err, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Product created successfully",
		"product_id": product.ID,
	})
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var upd models.ProductUpdate
	if err := c.BodyParser(&upd); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateProduct(c.Params("id"), upd); err != nil {
		return respondError(c, err, "Failed to update product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
	})
}

// HandleDeleteProduct soft-deletes a product via its active flag.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeactivateProduct(c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete product")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}
