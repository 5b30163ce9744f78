package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Staff accounts get access to the admin API.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer (or staff member) of the store.
type User struct {
	ID           string `json:"user_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string `json:"-" gorm:"type:varchar(255)"`
	FullName     string `json:"full_name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	Role         string `json:"role" gorm:"type:varchar(20);default:customer"`
	gorm.Model   `json:"-"`
}

// Address is a saved delivery address belonging to a user. At most one
// address per user is the default.
type Address struct {
	ID          string    `json:"address_id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}
