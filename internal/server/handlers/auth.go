// Handles user authentication and registration.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
)

const tokenExpiration = 24 * time.Hour

// AuthHandler handles authentication requests.
type AuthHandler struct {
	Svc *Services
	Cfg *Config
}

// Login handles user login and returns a JWT token.
func (h *AuthHandler) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := h.Svc.User.Authenticate(req.Email, req.Password)
	if err != nil {
		return nil, dto.NewAPIError(http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Invalid credentials")
	}

	token, err := h.GenerateToken(user)
	if err != nil {
		return nil, dto.InternalWithError("Failed to generate token", err)
	}

	return &dto.AuthResponse{Token: token, User: userToInfo(user)}, nil
}

// Register handles user registration.
func (h *AuthHandler) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := h.Svc.User.GetByEmail(req.Email); err == nil {
		return nil, dto.Conflict("User already exists")
	}

	if maxUsers := h.Cfg.Quotas.MaxUsers; maxUsers > 0 && h.Svc.User.Len() >= maxUsers {
		return nil, dto.QuotaExceeded("users")
	}

	user, err := h.Svc.User.Create(req.Email, req.Password, req.Name)
	if err != nil {
		return nil, dto.InternalWithError("Failed to create user", err)
	}

	token, err := h.GenerateToken(user)
	if err != nil {
		return nil, dto.InternalWithError("Failed to generate token", err)
	}

	return &dto.AuthResponse{Token: token, User: userToInfo(user)}, nil
}

// Me returns the current user info.
func (h *AuthHandler) Me(ctx context.Context, user *identity.User, req *dto.MeRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{Success: true, Data: userToInfo(user)}, nil
}

// GenerateToken generates a JWT token for the given user.
func (h *AuthHandler) GenerateToken(user *identity.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(tokenExpiration).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Cfg.JWTSecret)
}

func userToInfo(user *identity.User) dto.UserInfo {
	return dto.UserInfo{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Created: user.Created,
	}
}
