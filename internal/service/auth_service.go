package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/store"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type authStore interface {
	Settings(ctx context.Context) models.SystemSettings
	FindUserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	InsertUser(ctx context.Context, user models.User) error
	AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	// BootstrapAdminUsername/ID name the identity allowed to log in while
	// maintenance mode is on, so an admin can always turn it back off.
	BootstrapAdminUsername string
	BootstrapAdminID       string
}

// LoginRequest carries the identifier login payload. The portal matches the
// identifier against username or id, case-sensitive.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// RegisterRequest carries the public registration payload.
type RegisterRequest struct {
	ID       string          `json:"id"`
	Username string          `json:"username" validate:"required"`
	FullName string          `json:"full_name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

// AuthService provides authentication and registration use cases, including
// the settings gates (maintenance mode, registration toggle).
type AuthService struct {
	store     authStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(st authStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{store: st, validator: validate, logger: logger, config: config}
}

// Login resolves the identifier to a user and issues an access token.
// Maintenance mode rejects everyone except the bootstrap admin identity.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	settings := s.store.Settings(ctx)
	if settings.MaintenanceMode && !s.isBootstrapAdmin(req.Identifier) {
		return nil, appErrors.Clone(appErrors.ErrMaintenanceMode, "system is in maintenance mode, please try again later")
	}

	user, err := s.store.FindUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}

	s.store.AppendAuditLog(ctx, user.ID, models.AuditActionLogin, fmt.Sprintf("User %s logged in", user.Username))

	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		User:        user,
	}, nil
}

// Register creates a public account when registration is enabled. The id and
// username must both be free; the duplicate check and insert run atomically
// inside the store.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	settings := s.store.Settings(ctx)
	if !settings.AllowRegistration {
		return nil, appErrors.Clone(appErrors.ErrRegistrationDisabled, "")
	}

	user := models.User{
		ID:       req.ID,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateUser, "username or user id already taken")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register user")
	}

	s.store.AppendAuditLog(ctx, user.ID, models.AuditActionRegister,
		fmt.Sprintf("New user registered: %s as %s", user.Username, user.Role))

	return &user, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) isBootstrapAdmin(identifier string) bool {
	return identifier == s.config.BootstrapAdminUsername || identifier == s.config.BootstrapAdminID
}

func (s *AuthService) generateAccessToken(user models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
