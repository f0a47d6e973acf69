package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

func TestNotificationServiceFanOut(t *testing.T) {
	st := &fakeStore{}
	svc := NewNotificationService(st, 2, 8, zap.NewNop())
	svc.Start()

	svc.Notify("3", "New grade posted for Calculus I", models.NotificationTypeGrade)
	svc.Notify("4", "You were marked ABSENT in Calculus I on 2023-10-06", models.NotificationTypeAttendance)

	// Stop drains the queue before returning.
	svc.Stop()

	alice := st.NotificationsForUser(context.Background(), "3")
	require.Len(t, alice, 1)
	assert.Equal(t, "New grade posted for Calculus I", alice[0].Message)
	assert.Equal(t, models.NotificationTypeGrade, alice[0].Type)
	assert.False(t, alice[0].IsRead)
	assert.NotEmpty(t, alice[0].ID)
	assert.False(t, alice[0].Timestamp.IsZero())

	bob := st.NotificationsForUser(context.Background(), "4")
	require.Len(t, bob, 1)
	assert.Equal(t, models.NotificationTypeAttendance, bob[0].Type)
}

func TestNotificationServiceNotifyAfterStop(t *testing.T) {
	st := &fakeStore{}
	svc := NewNotificationService(st, 1, 4, zap.NewNop())
	svc.Start()
	svc.Stop()

	// Dropped silently; delivery is best effort.
	svc.Notify("3", "too late", models.NotificationTypeSystem)
	assert.Empty(t, st.NotificationsForUser(context.Background(), "3"))
}

func TestNotificationServiceMarkRead(t *testing.T) {
	st := &fakeStore{
		notifications: []models.Notification{
			{ID: "n1", UserID: "3", Message: "hello", Type: models.NotificationTypeSystem},
		},
	}
	svc := NewNotificationService(st, 1, 4, zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), "n1"))
	feed := svc.ListForUser(context.Background(), "3")
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsRead)

	// Unknown ids succeed without effect.
	require.NoError(t, svc.MarkRead(context.Background(), "nope"))
}
