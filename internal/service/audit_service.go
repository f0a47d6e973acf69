package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

type auditStore interface {
	AuditLogs(ctx context.Context) []models.AuditLog
}

// AuditService exposes the audit trail to the admin console. Entries come
// back most recent first.
type AuditService struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditService creates an instance of AuditService.
func NewAuditService(st auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: st, logger: logger}
}

// List returns the full audit trail, newest entry first.
func (s *AuditService) List(ctx context.Context) []models.AuditLog {
	return s.store.AuditLogs(ctx)
}
