package models

import "time"

// Order statuses. Any status may move to any other; the source system never
// guarded transitions and the storefront relies on that.
const (
	StatusPending        = "Pending"
	StatusProcessing     = "Processing"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// ValidStatuses is the closed set accepted by status updates.
var ValidStatuses = []string{
	StatusPending,
	StatusProcessing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValidStatus reports whether s is a member of the order status set.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order. It snapshots the product name and price at
// purchase time; it is never updated after the owning order is created.
type OrderItem struct {
	ID              string  `json:"-" gorm:"primaryKey;type:varchar(36)"`
	OrderID         string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID       string  `json:"product_id,omitempty" gorm:"type:varchar(36)"`
	ProductName     string  `json:"name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price"`
	Subtotal        float64 `json:"subtotal"`
}

// Order represents a customer order together with its items.
type Order struct {
	ID              string      `json:"order_id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;type:varchar(16)"`
	UserID          string      `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	DeliveryAddress string      `json:"delivery_address"`
	Subtotal        float64     `json:"subtotal"`
	DeliveryFee     float64     `json:"delivery_fee"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method"`
	OrderStatus     string      `json:"order_status"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItemRequest is one line of a checkout submission.
type OrderItemRequest struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"` // defaults to 1 when omitted
	ProductID string  `json:"product_id"`
}

// OrderRequest is the checkout payload submitted by the cart engine.
// TotalAmount is required to be present but is never trusted: the service
// recomputes all totals from the items.
type OrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress string             `json:"delivery_address"`
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	PaymentMethod   string             `json:"payment_method"`
	UserID          string             `json:"user_id,omitempty"`
}

// OrderConfirmation is what a successful checkout returns to the client.
type OrderConfirmation struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	TotalAmount float64 `json:"total_amount"`
}
