package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"freshmart/internal/apperr"
	"freshmart/internal/models"
	"freshmart/internal/pricing"
	"freshmart/internal/repositories"
	"freshmart/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil; event
// publication is then skipped.
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// CreateOrder validates the checkout payload, recomputes all totals from the
// submitted items (the client's total_amount is never trusted), and persists
// the order atomically. On success an order.created event is published;
// publication failures are logged, they do not fail the order.
func (s *OrderService) CreateOrder(req models.OrderRequest) (*models.OrderConfirmation, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
	}
	totals := pricing.Calculate(lines)

	order := &models.Order{
		ID:              uuid.New().String(),
		OrderNumber:     GenerateOrderNumber(),
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		TotalAmount:     totals.Total,
		PaymentMethod:   req.PaymentMethod,
		OrderStatus:     models.StatusPending,
	}
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:       item.ProductID,
			ProductName:     item.Name,
			Quantity:        qty,
			PriceAtPurchase: item.Price,
			Subtotal:        pricing.LineSubtotal(item.Price, qty),
		})
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"status":       order.OrderStatus,
		"total_amount": order.TotalAmount,
	})

	return &models.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	}, nil
}

// GetOrderByID fetches an order with its items. A missing order yields
// (nil, nil): absence is an answer here, not an error.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.lookup(s.orderRepo.GetByID, id)
}

// GetOrderByNumber fetches an order by its human-facing number, with the same
// absence semantics as GetOrderByID.
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	return s.lookup(s.orderRepo.GetByNumber, orderNumber)
}

func (s *OrderService) lookup(get func(string) (*models.Order, error), key string) (*models.Order, error) {
	order, err := get(key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", key, err)
	}
	return order, nil
}

// GetOrdersByUser retrieves all orders placed by a user, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}

// UpdateOrderStatus moves an order to newStatus. Transitions are permissive
// (any status to any status); moving to Delivered stamps delivered_at in the
// same update.
func (s *OrderService) UpdateOrderStatus(id string, newStatus string) error {
	if !models.IsValidStatus(newStatus) {
		return &apperr.Invalid{Msg: fmt.Sprintf("invalid order status: %s", newStatus)}
	}

	var deliveredAt *time.Time
	if newStatus == models.StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.orderRepo.UpdateStatus(id, newStatus, deliveredAt); err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"order_id": id,
		"status":   newStatus,
	})
	return nil
}

// GenerateOrderNumber builds a human-facing order code: the FM- prefix plus
// eight opaque uppercase characters drawn from a fresh UUID.
func GenerateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "FM-" + strings.ToUpper(suffix[:8])
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// validateOrderRequest reports every missing field of the payload at once.
// total_amount must be present even though the server recomputes it.
func validateOrderRequest(req models.OrderRequest) error {
	var missing []string
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		missing = append(missing, "customer_email")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		missing = append(missing, "customer_phone")
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		missing = append(missing, "delivery_address")
	}
	if len(req.Items) == 0 {
		missing = append(missing, "items")
	}
	if req.TotalAmount == 0 {
		missing = append(missing, "total_amount")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if len(missing) > 0 {
		return apperr.Validation(missing...)
	}
	return nil
}
