package services

import (
	"context"
	"os"
	"strings"
	"time"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError)
}

type authService struct {
	users    repository.UserRepository
	notifier *Notifier
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, notifier *Notifier, logger *zap.Logger) AuthService {
	return &authService{users: users, notifier: notifier, logger: logger}
}

// Register creates a customer account and issues a token.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Password hash failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Company:      req.Company,
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to persist user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	token, err := GenerateToken(user)
	if err != nil {
		s.logger.Error("Token generation failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to issue token"}
	}

	s.notifier.Publish(ctx, models.EventPayload{
		EventType: models.TypeUserRegistered,
		UserID:    user.ID,
		Recipient: user.Email,
		Data:      map[string]interface{}{"name": user.Name},
	})

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Login verifies credentials and issues a token.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
		}
		s.logger.Error("Login lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Login failed"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}

	token, err := GenerateToken(user)
	if err != nil {
		s.logger.Error("Token generation failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to issue token"}
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// GenerateToken issues a signed access token for the given account.
func GenerateToken(user *models.User) (string, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return "", jwt.ErrInvalidKey
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"typ":  "access",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
