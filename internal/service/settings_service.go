package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type settingsStore interface {
	Settings(ctx context.Context) models.SystemSettings
	UpdateSettings(ctx context.Context, settings models.SystemSettings) error
	AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog
}

// UpdateSettingsRequest replaces the system settings wholesale.
type UpdateSettingsRequest struct {
	SystemName              string `json:"system_name" validate:"required"`
	MaintenanceMode         bool   `json:"maintenance_mode"`
	AllowRegistration       bool   `json:"allow_registration"`
	GradeModificationWindow int    `json:"grade_modification_window" validate:"gte=0"`
	ThemeColor              string `json:"theme_color" validate:"required"`
}

// SettingsService reads and updates the system-wide settings document.
type SettingsService struct {
	store     settingsStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService creates an instance of SettingsService.
func NewSettingsService(st settingsStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{store: st, validator: validate, logger: logger}
}

// Get returns the current settings. Reads are open to any authenticated
// user; clients need the theme and system name before role checks apply.
func (s *SettingsService) Get(ctx context.Context) models.SystemSettings {
	return s.store.Settings(ctx)
}

// Update replaces the settings document and records an audit entry under
// the generic ADMIN actor.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.SystemSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings := models.SystemSettings{
		SystemName:              req.SystemName,
		MaintenanceMode:         req.MaintenanceMode,
		AllowRegistration:       req.AllowRegistration,
		GradeModificationWindow: req.GradeModificationWindow,
		ThemeColor:              req.ThemeColor,
	}

	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update settings")
	}

	s.store.AppendAuditLog(ctx, models.AuditActorAdmin, models.AuditActionSettingsUpdate, "System settings updated")

	return &settings, nil
}
