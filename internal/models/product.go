package models

import "gorm.io/gorm"

// Product represents a catalog entry in the store.
// Products are never hard-deleted: an administrator flips IsActive off so
// historical order items keep a valid reference.
type Product struct {
	ID            string  `json:"product_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string  `json:"product_name" validate:"required,min=2,max=100"`
	CategorySlug  string  `json:"category_slug" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	CategoryName  string  `json:"category_name" validate:"omitempty,max=100"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,max=255"`
	Description   string  `json:"description" validate:"omitempty,max=500"`
	Unit          string  `json:"unit" validate:"omitempty,max=20"` // e.g. "piece", "kg", "bunch"
	IsActive      bool    `json:"is_active"`
	gorm.Model    `json:"-"`
}

// ProductUpdate carries the mutable product fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProductUpdate struct {
	Name          *string  `json:"product_name"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	Description   *string  `json:"description"`
	Unit          *string  `json:"unit"`
	IsActive      *bool    `json:"is_active"`
}
