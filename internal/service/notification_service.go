package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/jobs"
)

type notificationStore interface {
	NotificationsForUser(ctx context.Context, userID string) []models.Notification
	InsertNotification(ctx context.Context, n models.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
}

// notificationPayload travels through the jobs queue.
type notificationPayload struct {
	UserID  string
	Message string
	Type    models.NotificationType
}

// NotificationService reads the per-user notification feed and fans out new
// notifications through a background worker queue. Delivery is best effort:
// a full or stopped queue drops the notification with a log line.
type NotificationService struct {
	store  notificationStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService creates an instance of NotificationService and its
// backing queue. Call Start before use and Stop on shutdown.
func NewNotificationService(st notificationStore, workers, bufferSize int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{store: st, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: bufferSize,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start() {
	s.queue.Start()
}

// Stop drains the queue and stops the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// ListForUser returns the notifications addressed to one user.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) []models.Notification {
	return s.store.NotificationsForUser(ctx, userID)
}

// MarkRead flags one notification as read. Marking an unknown id succeeds
// without effect.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// Notify enqueues a notification for asynchronous delivery.
func (s *NotificationService) Notify(userID, message string, t models.NotificationType) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(t),
		Payload: notificationPayload{UserID: userID, Message: message, Type: t},
	})
	if err != nil {
		s.logger.Warn("dropping notification", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	return s.store.InsertNotification(ctx, models.Notification{
		ID:        uuid.NewString(),
		UserID:    payload.UserID,
		Message:   payload.Message,
		Type:      payload.Type,
		IsRead:    false,
		Timestamp: time.Now().UTC(),
	})
}
