package handlers

import (
	"fmt"
	"log"

	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// HandleRegister handles new customer registration. A session is opened
// right away so the new customer is signed in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
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

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if err := h.authService.RegisterUser(user, req.Password); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err, "Registration failed")
	}

	token, err := h.authService.CreateSession(user.ID)
	if err != nil {
		log.Printf("Error opening session after registration: %v", err)
		return respondError(c, err, "Registration failed")
	}

	setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Registration successful",
		"user":          user,
		"session_token": token,
	})
}

// LoginRequest represents the request body for login. Username may hold an
// email address as well.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and opens a session. Staff additionally
// receive a JWT for the admin API.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Username and password are required")
	}

	user, sessionToken, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Username, err)
		return respondError(c, err, "Login failed")
	}

	resp := fiber.Map{
		"success":       true,
		"message":       "Login successful",
		"user":          user,
		"session_token": sessionToken,
	}
	if user.Role == models.RoleAdmin {
		staffToken, err := h.authService.IssueStaffToken(user)
		if err != nil {
			log.Printf("Failed to issue staff token for %s: %v", user.Username, err)
		} else {
			resp["token"] = staffToken
		}
	}

	setSessionCookie(c, sessionToken)
	return c.JSON(resp)
}

// HandleLogout destroys the caller's session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	token := middleware.SessionToken(c)
	if token != "" {
		if err := h.authService.Logout(token); err != nil {
			log.Printf("Logout error: %v", err)
			return respondError(c, err, "Logout failed")
		}
	}
	c.ClearCookie(middleware.SessionCookieName)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   86400,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
