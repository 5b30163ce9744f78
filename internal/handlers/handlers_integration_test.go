package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"freshmart/internal/handlers"
	"freshmart/internal/middleware"
	"freshmart/internal/models"
	"freshmart/internal/repositories"
	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv bundles the app with the handles the tests poke at directly.
type testEnv struct {
	app         *fiber.App
	db          *gorm.DB
	authService *services.AuthService
	userRepo    repositories.UserRepository
}

// setupApp wires the full route table against an in-memory SQLite database,
// mirroring the production wiring minus RabbitMQ.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderItem{},
		&models.User{}, &models.Address{}, &models.Session{},
	))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, nil) // no event stream in tests
	authService := services.NewAuthService(userRepo, sessionRepo, "test_jwt_secret")
	userService := services.NewUserService(userRepo)

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	adminGuard := middleware.AdminRequired(authService)
	userRoutes := apiV1.Group("/users", middleware.SessionRequired(authService))

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, adminGuard)
	orderHandler.RegisterRoutes(apiV1, adminGuard)
	userHandler.RegisterRoutes(userRoutes)

	return &testEnv{app: app, db: db, authService: authService, userRepo: userRepo}
}

// seedAdmin creates a staff account directly and returns its admin JWT.
func (env *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	admin := &models.User{
		Username:     "storeadmin",
		Email:        "admin@freshmart.test",
		PasswordHash: string(hash),
		FullName:     "Store Administrator",
		Role:         models.RoleAdmin,
	}
	assert.NoError(t, env.userRepo.Create(admin))

	token, err := env.authService.IssueStaffToken(admin)
	assert.NoError(t, err)
	return token
}

// seedProduct inserts a catalog entry directly through the database.
func (env *testEnv) seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID: uuid.New().String(), Name: name,
		CategorySlug: "fruits", CategoryName: "Fruits",
		Price: price, StockQuantity: stock, Unit: "piece", IsActive: true,
	}
	assert.NoError(t, env.db.Create(product).Error)
	return product
}

// doJSON fires a request at the app and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, bearer string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func checkoutPayload() map[string]interface{} {
	return map[string]interface{}{
		"customer_name":    "Ama Mensah",
		"customer_email":   "ama@example.com",
		"customer_phone":   "+233200000000",
		"delivery_address": "12 Ring Road, Accra",
		"payment_method":   "cash",
		"total_amount":     26.75,
		"items": []map[string]interface{}{
			{"name": "Bananas", "price": 10.00, "quantity": 2},
			{"name": "Mangoes", "price": 5.00, "quantity": 1},
		},
	}
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	env := setupApp(t)

	register := map[string]string{
		"username":  "kofi",
		"email":     "kofi@example.com",
		"password":  "password123",
		"full_name": "Kofi Boateng",
	}
	status, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", register, "")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["session_token"])

	// Duplicate username is a conflict.
	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, status)

	// Login by username, then by email.
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "kofi", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, status)
	sessionToken, _ := body["session_token"].(string)
	assert.NotEmpty(t, sessionToken)
	assert.NotContains(t, body, "token", "customers never get an admin token")

	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "kofi@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, status)

	// Wrong password is refused without detail.
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "kofi", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication failed", body["message"])

	// The session works until logout.
	status, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, sessionToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/logout", nil, sessionToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, sessionToken)
	assert.Equal(t, http.StatusUnauthorized, status)
}

// The session guard covers /users only: registration, login, the catalog,
// and guest checkout must answer without any credentials.
func TestPublicRoutesNeedNoSession(t *testing.T) {
	env := setupApp(t)
	env.seedProduct(t, "Bananas", 10.00, 5)

	status, _ := doJSON(t, env.app, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", checkoutPayload(), "")
	assert.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "guest", "email": "guest@example.com",
		"password": "password123", "full_name": "Guest User",
	}, "")
	assert.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "guest", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, status)

	// The guard still holds where it belongs.
	status, _ = doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProfileAndAddresses(t *testing.T) {
	env := setupApp(t)

	_, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "abena", "email": "abena@example.com",
		"password": "password123", "full_name": "Abena Osei",
	}, "")
	token, _ := body["session_token"].(string)
	assert.NotEmpty(t, token)

	// Unauthenticated access is refused.
	status, _ := doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, token)
	assert.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "abena", user["username"])
	assert.NotContains(t, user, "password_hash")

	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/users/profile",
		map[string]string{"full_name": "Abena A. Osei", "phone": "+233201111111"}, token)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/users/profile", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Abena A. Osei", body["user"].(map[string]interface{})["full_name"])

	// Addresses: add two, the newest default wins, then delete one.
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/users/addresses", map[string]interface{}{
		"address_line": "12 Ring Road", "city": "Accra", "region": "Greater Accra", "is_default": true,
	}, token)
	assert.Equal(t, http.StatusCreated, status)
	firstID, _ := body["address_id"].(string)
	assert.NotEmpty(t, firstID)

	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/users/addresses", map[string]interface{}{
		"address_line": "5 Harbour View", "city": "Tema", "region": "Greater Accra", "is_default": true,
	}, token)
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/users/addresses", nil, token)
	assert.Equal(t, http.StatusOK, status)
	addresses := body["addresses"].([]interface{})
	assert.Len(t, addresses, 2)
	newest := addresses[0].(map[string]interface{})
	assert.Equal(t, "5 Harbour View", newest["address_line"])
	assert.Equal(t, true, newest["is_default"])

	status, _ = doJSON(t, env.app, http.MethodDelete, "/api/v1/users/addresses?address_id="+firstID, nil, token)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/users/addresses", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["addresses"].([]interface{}), 1)
}

func TestAdminProductCRUD(t *testing.T) {
	env := setupApp(t)
	adminToken := env.seedAdmin(t)

	// Mutations without a staff token bounce.
	status, _ := doJSON(t, env.app, http.MethodPost, "/api/v1/products",
		map[string]interface{}{"product_name": "Pineapple", "category_slug": "fruits", "price": 4.50}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// A session token is not a staff token.
	_, body := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "notstaff", "email": "notstaff@example.com",
		"password": "password123", "full_name": "Not Staff",
	}, "")
	sessionToken, _ := body["session_token"].(string)
	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/products",
		map[string]interface{}{"product_name": "Pineapple", "category_slug": "fruits", "price": 4.50}, sessionToken)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Create.
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"product_name": "Pineapple", "category_slug": "fruits", "category_name": "Fruits",
		"price": 4.50, "stock_quantity": 20,
	}, adminToken)
	assert.Equal(t, http.StatusCreated, status)
	productID, _ := body["product_id"].(string)
	assert.NotEmpty(t, productID)

	// Catalog reads are public and see the new product with its defaults.
	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, status)
	products := body["products"].([]interface{})
	assert.Len(t, products, 1)
	created := products[0].(map[string]interface{})
	assert.Equal(t, "Pineapple", created["product_name"])
	assert.Equal(t, "piece", created["unit"])
	assert.Equal(t, true, created["is_active"])

	// Missing required fields fail validation.
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/products",
		map[string]interface{}{"price": 4.50}, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	// Partial update touches only the sent fields.
	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/products/"+productID,
		map[string]interface{}{"price": 5.25}, adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products?product_id="+productID, nil, "")
	assert.Equal(t, http.StatusOK, status)
	fetched := body["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 5.25, fetched["price"])
	assert.Equal(t, "Pineapple", fetched["product_name"])

	// Delete only deactivates: gone from the listing, still loadable by ID.
	status, _ = doJSON(t, env.app, http.MethodDelete, "/api/v1/products/"+productID, nil, adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"].([]interface{}), 0)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/products?product_id="+productID, nil, "")
	assert.Equal(t, http.StatusOK, status)
	deactivated := body["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, false, deactivated["is_active"])

	// Updating a ghost product is a 404.
	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/products/ghost",
		map[string]interface{}{"price": 1.00}, adminToken)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlaceOrder(t *testing.T) {
	env := setupApp(t)
	product := env.seedProduct(t, "Bananas", 10.00, 5)

	payload := checkoutPayload()
	payload["items"].([]map[string]interface{})[0]["product_id"] = product.ID
	payload["items"].([]map[string]interface{})[0]["quantity"] = 2

	status, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload, "")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^FM-[0-9A-F]{8}$`, body["order_number"])
	assert.Equal(t, 26.75, body["total_amount"])

	var fresh models.Product
	assert.NoError(t, env.db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 3, fresh.StockQuantity)

	// The stored order is retrievable by id and by number.
	orderID, _ := body["order_id"].(string)
	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/orders?order_id="+orderID, nil, "")
	assert.Equal(t, http.StatusOK, status)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "Ama Mensah", order["customer_name"])
	assert.Equal(t, "Pending", order["order_status"])
	assert.Len(t, order["items"].([]interface{}), 2)

	status, body = doJSON(t, env.app, http.MethodGet,
		"/api/v1/orders?order_number="+order["order_number"].(string), nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, orderID, body["order"].(map[string]interface{})["order_id"])
}

func TestPlaceOrderValidation(t *testing.T) {
	env := setupApp(t)

	// An empty payload reports every missing field at once.
	status, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
	missing := body["missing"].([]interface{})
	assert.ElementsMatch(t, []interface{}{
		"customer_name", "customer_email", "customer_phone",
		"delivery_address", "items", "total_amount", "payment_method",
	}, missing)

	// A tampered client total is recomputed server-side.
	payload := checkoutPayload()
	payload["total_amount"] = 0.01
	status, body = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload, "")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 26.75, body["total_amount"])
}

func TestGetOrdersLookups(t *testing.T) {
	env := setupApp(t)

	// A lookup that matches nothing answers 200 with a null order.
	status, body := doJSON(t, env.app, http.MethodGet, "/api/v1/orders?order_number=FM-NOPE0000", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["order"])

	// No recognized parameter is a bad request.
	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/orders", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request parameters", body["message"])

	// Order history by user.
	payload := checkoutPayload()
	payload["user_id"] = "user-42"
	status, _ = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", payload, "")
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/orders?user_id=user-42", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"].([]interface{}), 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := setupApp(t)
	adminToken := env.seedAdmin(t)

	_, body := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", checkoutPayload(), "")
	orderID, _ := body["order_id"].(string)
	assert.NotEmpty(t, orderID)

	// Status updates are staff-only.
	status, _ := doJSON(t, env.app, http.MethodPut, "/api/v1/orders",
		map[string]string{"order_id": orderID, "order_status": "Processing"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/orders",
		map[string]string{"order_id": orderID, "order_status": "Processing"}, adminToken)
	assert.Equal(t, http.StatusOK, status)

	// An unknown status is refused.
	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/orders",
		map[string]string{"order_id": orderID, "order_status": "Shipped"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)

	// Delivered stamps the delivery timestamp.
	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/orders",
		map[string]string{"order_id": orderID, "order_status": "Delivered"}, adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, env.app, http.MethodGet, "/api/v1/orders?order_id="+orderID, nil, "")
	assert.Equal(t, http.StatusOK, status)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "Delivered", order["order_status"])
	assert.NotEmpty(t, order["delivered_at"])

	status, _ = doJSON(t, env.app, http.MethodPut, "/api/v1/orders",
		map[string]string{"order_id": "ghost", "order_status": "Pending"}, adminToken)
	assert.Equal(t, http.StatusNotFound, status)
}
