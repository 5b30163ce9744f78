package handlers

import (
	"log"

	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and address requests for signed-in users.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes on the session-guarded /users
// group.
func (h *UserHandler) RegisterRoutes(users fiber.Router) {
	users.Get("/profile", h.HandleGetProfile)
	users.Put("/profile", h.HandleUpdateProfile)
	users.Get("/addresses", h.HandleListAddresses)
	users.Post("/addresses", h.HandleAddAddress)
	users.Delete("/addresses", h.HandleDeleteAddress)
}

// HandleGetProfile returns the signed-in user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch profile")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// HandleUpdateProfile applies a partial update to the profile.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var upd models.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateProfile(middleware.UserID(c), upd); err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
	})
}

// HandleListAddresses returns the user's saved addresses, default first.
func (h *UserHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.ListAddresses(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch addresses")
	}
	return c.JSON(fiber.Map{"success": true, "addresses": addresses})
}

// HandleAddAddress saves a new delivery address.
func (h *UserHandler) HandleAddAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		log.Printf("Error parsing address body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.AddAddress(middleware.UserID(c), &address); err != nil {
		return respondError(c, err, "Failed to add address")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Address added successfully",
		"address_id": address.ID,
	})
}

// HandleDeleteAddress removes one of the user's addresses.
func (h *UserHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID := c.Query("address_id")
	if addressID == "" {
		return badRequest(c, "Address ID is required")
	}

	if err := h.service.DeleteAddress(middleware.UserID(c), addressID); err != nil {
		return respondError(c, err, "Failed to delete address")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Address deleted successfully",
	})
}
