package handlers

import (
	"log"

	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers order routes. Checkout and lookups are public
// (guest checkout is allowed); the status update is staff-only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminGuard fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/", adminGuard, h.HandleUpdateOrderStatus)
}

// HandleCreateOrder accepts a checkout payload and places the order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		middleware.RecordOrderOperation("create", false)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	confirmation, err := h.service.CreateOrder(req)
	if err != nil {
		middleware.RecordOrderOperation("create", false)
		return respondError(c, err, "Failed to create order")
	}

	middleware.RecordOrderOperation("create", true)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Order placed successfully",
		"order_id":     confirmation.OrderID,
		"order_number": confirmation.OrderNumber,
		"total_amount": confirmation.TotalAmount,
	})
}

// HandleGetOrders serves order lookups by order_id, order_number, or user_id.
// A lookup that matches nothing answers with a null order rather than 404.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	switch {
	case c.Query("order_id") != "":
		order, err := h.service.GetOrderByID(c.Query("order_id"))
		if err != nil {
			return respondError(c, err, "Failed to fetch order")
		}
		return c.JSON(fiber.Map{"success": true, "order": order})

	case c.Query("order_number") != "":
		order, err := h.service.GetOrderByNumber(c.Query("order_number"))
		if err != nil {
			return respondError(c, err, "Failed to fetch order")
		}
		return c.JSON(fiber.Map{"success": true, "order": order})

	case c.Query("user_id") != "":
		orders, err := h.service.GetOrdersByUser(c.Query("user_id"))
		if err != nil {
			return respondError(c, err, "Failed to fetch orders")
		}
		return c.JSON(fiber.Map{"success": true, "orders": orders})

	default:
		return badRequest(c, "Invalid request parameters")
	}
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		OrderID     string `json:"order_id"`
		OrderStatus string `json:"order_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.OrderID == "" {
		return badRequest(c, "Order ID is required")
	}
	if req.OrderStatus == "" {
		return badRequest(c, "Order status is required")
	}

	if err := h.service.UpdateOrderStatus(req.OrderID, req.OrderStatus); err != nil {
		middleware.RecordOrderOperation("update_status", false)
		return respondError(c, err, "Failed to update order")
	}

	middleware.RecordOrderOperation("update_status", true)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated successfully",
	})
}
