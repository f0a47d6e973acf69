package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/store"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type userStore interface {
	ListUsers(ctx context.Context) []models.User
	SearchUsers(ctx context.Context, filter models.UserFilter) []models.User
	InsertUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog
}

// CreateUserRequest represents the admin add-user payload.
type CreateUserRequest struct {
	ID       string          `json:"id"`
	Username string          `json:"username" validate:"required"`
	FullName string          `json:"full_name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

// UpdateUserRequest replaces a user's mutable fields wholesale.
type UpdateUserRequest struct {
	Username string          `json:"username" validate:"required"`
	FullName string          `json:"full_name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

// UserService handles account management workflows for the admin console.
type UserService struct {
	store     userStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(st userStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{store: st, validator: validate, logger: logger}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) []models.User {
	return s.store.ListUsers(ctx)
}

// Search filters accounts by a case-insensitive substring query and an
// optional role. An empty query returns all; role "ALL" means no role filter.
func (s *UserService) Search(ctx context.Context, query, role string) []models.User {
	filter := models.UserFilter{Query: query}
	if role != "" && role != "ALL" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	return s.store.SearchUsers(ctx, filter)
}

// Add creates an account from the admin console.
func (s *UserService) Add(ctx context.Context, req CreateUserRequest, actorID string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
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
			return nil, appErrors.Clone(appErrors.ErrDuplicateUser, "user id or username already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.store.AppendAuditLog(ctx, actorID, models.AuditActionUserAdd,
		fmt.Sprintf("Added user %s (%s)", user.Username, user.Role))

	return &user, nil
}

// Update replaces the account record wholesale; there is no partial patch.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest, actorID string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user := models.User{
		ID:       id,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.store.AppendAuditLog(ctx, actorID, models.AuditActionUserUpdate,
		fmt.Sprintf("Updated profile for %s", user.Username))

	return &user, nil
}

// Delete removes the account by id. Deleting an absent id succeeds without
// touching the collection; references from grades, attendance and subjects
// are left orphaned (there is no cascade).
func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.store.AppendAuditLog(ctx, actorID, models.AuditActionUserDelete,
		fmt.Sprintf("Deleted user %s", id))

	return nil
}
