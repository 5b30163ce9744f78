package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"freshmart/internal/models"
	"freshmart/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrEmptyCart rejects a checkout with nothing in the cart.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrSubmitInFlight rejects a checkout while the previous one is still
	// on the wire, the equivalent of the disabled submit button.
	ErrSubmitInFlight = errors.New("an order submission is already in progress")
)

// CheckoutForm carries the customer fields from the checkout form.
type CheckoutForm struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   string
	UserID          string
}

// Receipt is the locally persisted confirmation of a placed order.
type Receipt struct {
	OrderNumber     string    `json:"order_number"`
	PlacedAt        time.Time `json:"placed_at"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	DeliveryAddress string    `json:"delivery_address"`
	Items           []Line    `json:"items"`
	TotalAmount     float64   `json:"total_amount"`
	Status          string    `json:"status"`
}

// OrderPlacer submits an order payload to the order placement service.
type OrderPlacer interface {
	PlaceOrder(req models.OrderRequest) (*models.OrderConfirmation, error)
}

// Checkout drives order submission: empty-cart guard, duplicate-submission
// guard, receipt and history persistence, cart clearing.
type Checkout struct {
	cart     *Cart
	store    Store
	api      OrderPlacer
	inFlight atomic.Bool
}

// NewCheckout creates a Checkout over the cart's store.
func NewCheckout(c *Cart, api OrderPlacer) *Checkout {
	return &Checkout{
		cart:  c,
		store: c.store,
		api:   api,
	}
}

// Submit places the order for the current cart. While a submission is in
// flight further calls fail fast with ErrSubmitInFlight. On success the
// receipt is stored under last_order, prepended to order_history, and the
// cart is cleared. On failure the cart is left untouched and the error
// carries the service's message verbatim, so the caller can show it and let
// the user retry.
func (co *Checkout) Submit(form CheckoutForm) (*Receipt, error) {
	if !co.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer co.inFlight.Store(false)

	lines, err := co.cart.Lines()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := pricing.Calculate(toPricingLines(lines))
	req := models.OrderRequest{
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		DeliveryAddress: form.DeliveryAddress,
		PaymentMethod:   form.PaymentMethod,
		UserID:          form.UserID,
		TotalAmount:     totals.Total,
	}
	for _, l := range lines {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		req.Items = append(req.Items, models.OrderItemRequest{
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  qty,
			ProductID: l.ProductID,
		})
	}

	confirmation, err := co.api.PlaceOrder(req)
	if err != nil {
		return nil, err
	}

	receipt := Receipt{
		OrderNumber:     confirmation.OrderNumber,
		PlacedAt:        time.Now(),
		CustomerName:    form.CustomerName,
		CustomerPhone:   form.CustomerPhone,
		DeliveryAddress: form.DeliveryAddress,
		Items:           lines,
		TotalAmount:     confirmation.TotalAmount,
		Status:          models.StatusPending,
	}
	if err := co.store.Put(keyLastOrder, receipt); err != nil {
		return nil, err
	}

	var history []Receipt
	if _, err := co.store.Get(keyHistory, &history); err != nil {
		return nil, err
	}
	history = append([]Receipt{receipt}, history...)
	if err := co.store.Put(keyHistory, history); err != nil {
		return nil, err
	}

	if err := co.cart.Clear(); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// LastReceipt returns the receipt of the most recently placed order, or nil
// when none was placed yet.
func (co *Checkout) LastReceipt() (*Receipt, error) {
	var receipt Receipt
	found, err := co.store.Get(keyLastOrder, &receipt)
	if err != nil || !found {
		return nil, err
	}
	return &receipt, nil
}

// History returns all locally recorded orders, newest first.
func (co *Checkout) History() ([]Receipt, error) {
	var history []Receipt
	if _, err := co.store.Get(keyHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// APIClient is the HTTP implementation of OrderPlacer, talking to the order
// placement service with a hard request timeout so a hung request cannot
// leave the checkout stuck in flight forever.
type APIClient struct {
	BaseURL string
	Timeout time.Duration
}

// NewAPIClient creates an APIClient with a 15s request timeout.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Timeout: 15 * time.Second,
	}
}

// PlaceOrder posts the payload to /orders. Non-201 responses surface the
// service's error message verbatim.
func (a *APIClient) PlaceOrder(req models.OrderRequest) (*models.OrderConfirmation, error) {
	agent := fiber.Post(a.BaseURL + "/api/v1/orders")
	agent.Timeout(a.Timeout)
	agent.JSON(req)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("order request failed: %v", errs[0])
	}

	if code != fiber.StatusCreated {
		var resp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &resp); err == nil {
			if resp.Error != "" {
				return nil, errors.New(resp.Error)
			}
			if resp.Message != "" {
				return nil, errors.New(resp.Message)
			}
		}
		return nil, fmt.Errorf("order request failed with status %d", code)
	}

	var confirmation models.OrderConfirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return nil, fmt.Errorf("failed to decode order confirmation: %w", err)
	}
	return &confirmation, nil
}
