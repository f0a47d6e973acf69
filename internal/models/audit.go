package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionSystemInit       = "SYSTEM_INIT"
	AuditActionLogin            = "LOGIN"
	AuditActionRegister         = "REGISTER"
	AuditActionUserAdd          = "USER_ADD"
	AuditActionUserUpdate       = "USER_UPDATE"
	AuditActionUserDelete       = "USER_DELETE"
	AuditActionSubjectRequest   = "SUBJECT_REQUEST"
	AuditActionGradeUpdate      = "GRADE_UPDATE"
	AuditActionAssignmentCreate = "ASSIGNMENT_CREATE"
	AuditActionSettingsUpdate   = "SETTINGS_UPDATE"
)

// AuditActorAdmin is the literal actor tag used by admin console mutations
// that are not attributed to a concrete user id.
const AuditActorAdmin = "ADMIN"

// AuditLog represents an audit trail record. The sequence is append-only,
// most-recent-first, and never truncated.
type AuditLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	Details   string    `json:"details"`
}
