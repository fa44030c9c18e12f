package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore is the persistence surface the auth service needs.
type AccountStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordHash, role string) (int64, error)
	CreateUserWithClient(ctx context.Context, username, passwordHash, role, phone, email string) (int64, error)
	DeleteUser(ctx context.Context, username string) error
	GetClients(ctx context.Context) ([]models.Client, error)
	ResolveClientIDByUsername(ctx context.Context, username string) (int64, error)
	CreateClient(ctx context.Context, name, phone, email string) (int64, error)
	DeleteClient(ctx context.Context, id int64) error
}

// AuthService implements registration, login and the client directory.
type AuthService struct {
	store         AccountStore
	jwtSecret     string
	tokenTTL      time.Duration
	adminUsername string
	adminPassword string
	logger        *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store AccountStore, jwtSecret string, tokenTTL time.Duration, adminUsername, adminPassword string) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:         store,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        util.GetLogger(),
	}
}

// Register creates an account with role user and its paired client
// profile. Username, password, phone and email are all required.
func (s *AuthService) Register(ctx context.Context, username, password, phone, email string) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", models.ErrValidation)
	}
	if phone == "" || email == "" {
		return 0, fmt.Errorf("%w: phone and email are required", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	id, err := s.store.CreateUserWithClient(ctx, username, string(hash), models.RoleUser, phone, email)
	if err != nil {
		return 0, err
	}

	util.RegistrationsTotal.Inc()
	s.logger.Info("User registered", zap.String("username", username))
	return id, nil
}

// Login validates credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, models.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			util.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		util.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// EnsureAdmin seeds the admin account when it is absent. Exactly one
// admin exists at all times.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	_, err := s.store.GetUserByUsername(ctx, s.adminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.store.CreateUser(ctx, s.adminUsername, string(hash), models.RoleAdmin); err != nil {
		// Lost a race with another instance seeding the same account.
		if errors.Is(err, models.ErrUserExists) {
			return nil
		}
		return err
	}

	s.logger.Info("Admin account seeded", zap.String("username", s.adminUsername))
	return nil
}

// DeleteAccount removes an account and, through the cascade, its client
// profile and orders. The admin account is never deletable.
func (s *AuthService) DeleteAccount(ctx context.Context, username string) error {
	if username == s.adminUsername {
		return fmt.Errorf("%w: the admin account cannot be deleted", models.ErrValidation)
	}
	return s.store.DeleteUser(ctx, username)
}

// ResolveClientIDByUsername exposes the order-attribution join key.
func (s *AuthService) ResolveClientIDByUsername(ctx context.Context, username string) (int64, error) {
	return s.store.ResolveClientIDByUsername(ctx, username)
}

// ListClients returns all client profiles.
func (s *AuthService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.store.GetClients(ctx)
}

// AddClient creates a client profile for an existing account.
func (s *AuthService) AddClient(ctx context.Context, name, phone, email string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: client name is required", models.ErrValidation)
	}
	return s.store.CreateClient(ctx, name, phone, email)
}

// RemoveClient deletes a client profile; removing an absent id is a
// no-op.
func (s *AuthService) RemoveClient(ctx context.Context, id int64) error {
	return s.store.DeleteClient(ctx, id)
}
