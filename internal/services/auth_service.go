package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"freshmart/internal/apperr"
	"freshmart/internal/models"
	"freshmart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and the two authentication
// mechanisms of the store: opaque session tokens for the storefront and JWTs
// for the admin API.
type AuthService struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	jwtSecret     []byte
	sessionTTL    time.Duration
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		jwtSecret:     []byte(jwtSecret),
		sessionTTL:    24 * time.Hour,
		tokenDuration: 24 * time.Hour,
	}
}

// RegisterUser registers a new customer, hashing the password before storage.
// A taken username or email yields a conflict error.
func (s *AuthService) RegisterUser(user *models.User, password string) error {
	if len(password) < 6 {
		return &apperr.Invalid{Msg: "password must be at least 6 characters"}
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s': %w", user.Username, apperr.ErrConflict)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s': %w", user.Email, apperr.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.Role = models.RoleCustomer

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates by username or email and opens a session. The
// failure message never reveals whether the account exists.
func (s *AuthService) LoginUser(login, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByLogin(login)
	if err != nil {
		return nil, "", fmt.Errorf("invalid username or password: %w", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid username or password: %w", apperr.ErrUnauthorized)
	}

	token, err := s.CreateSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CreateSession opens a new session for the user and returns its token.
func (s *AuthService) CreateSession(userID string) (string, error) {
	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return session.Token, nil
}

// Logout destroys the session. An unknown token is not an error.
func (s *AuthService) Logout(token string) error {
	return s.sessionRepo.Delete(token)
}

// ValidateSession resolves a session token to its session record. Unknown or
// expired tokens fail as unauthorized; expired sessions are cleaned up on the
// way out.
func (s *AuthService) ValidateSession(token string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("invalid session token: %w", apperr.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}
	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(token); err != nil {
			log.Printf("Failed to remove expired session: %v", err)
		}
		return nil, fmt.Errorf("session expired: %w", apperr.ErrUnauthorized)
	}
	return session, nil
}

// IssueStaffToken generates a JWT for the admin API. Only staff accounts get
// one; customers are limited to session tokens.
func (s *AuthService) IssueStaffToken(user *models.User) (string, error) {
	if user.Role != models.RoleAdmin {
		return "", fmt.Errorf("user %s is not staff: %w", user.Username, apperr.ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenDuration).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateStaffToken parses and validates an admin JWT, returning its claims.
func (s *AuthService) ValidateStaffToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}
	if claims["role"] != models.RoleAdmin {
		return nil, fmt.Errorf("token lacks staff role: %w", apperr.ErrUnauthorized)
	}
	return claims, nil
}
