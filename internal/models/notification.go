package models

import "time"

// NotificationType classifies portal notifications.
type NotificationType string

const (
	NotificationTypeGrade      NotificationType = "GRADE"
	NotificationTypeAttendance NotificationType = "ATTENDANCE"
	NotificationTypeSystem     NotificationType = "SYSTEM"
)

// Notification is a per-user message. Only IsRead is ever mutated.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	Timestamp time.Time        `json:"timestamp"`
}
