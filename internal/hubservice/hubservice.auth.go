package hubservice

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	nuts "github.com/vaudience/go-nuts"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomsense/hub/internal/errors"
	"github.com/roomsense/hub/internal/models"
	"github.com/roomsense/hub/internal/store"
)

// Login verifies an admin user's credentials and issues a signed token
// carrying the username and role.
func (s *HubService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", errors.NewValidationError("username and password are required", nil)
	}

	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.NewAuthError("invalid credentials", nil)
	}

	hash := models.String(user["password"])
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", errors.NewAuthError("invalid credentials", nil)
	}

	userID, _ := models.Int64(user["id"])
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     models.String(user["role"]),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.NewInternalError("failed to sign token", err)
	}

	nuts.L.Infof("[HubService] User %s logged in", username)
	return token, nil
}

// CreateUser stores a user with a bcrypt-hashed password. Role defaults
// to "user" when empty.
func (s *HubService) CreateUser(ctx context.Context, username, password, role string) (int64, error) {
	if username == "" || password == "" {
		return 0, errors.NewValidationError("username and password are required", nil)
	}
	if role == "" {
		role = models.RoleUser
	}
	switch role {
	case models.RoleAdmin, models.RoleUser, models.RoleModerator:
	default:
		return 0, errors.NewValidationError("unknown role", nil)
	}

	existing, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, errors.NewValidationError("username already taken", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.NewInternalError("failed to hash password", err)
	}

	return s.Users.Create(ctx, store.Fields{
		"username": username,
		"password": string(hash),
		"role":     role,
	})
}
