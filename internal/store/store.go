// Package store holds the portal's collections in memory and mirrors every
// mutation to a durable document store. It is the only writer; services go
// through its methods and never touch collections directly.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/pkg/kv"
)

// Collection names double as durable-store document keys.
const (
	CollectionUsers         = "users"
	CollectionSubjects      = "subjects"
	CollectionGrades        = "grades"
	CollectionAttendance    = "attendance"
	CollectionAuditLogs     = "audit_logs"
	CollectionNotifications = "notifications"
	CollectionSettings      = "settings"
)

// Sentinel errors surfaced by store operations. Services map these onto the
// typed API errors.
var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
)

// FlushObserver receives timings for durable-store writes.
type FlushObserver interface {
	ObserveFlush(collection string, duration time.Duration, err error)
}

// Store owns the in-memory collections. All read-modify-write sequences run
// under the write lock, so duplicate checks and upserts cannot race.
type Store struct {
	mu       sync.RWMutex
	kv       kv.Store
	logger   *zap.Logger
	observer FlushObserver

	users         []models.User
	subjects      []models.Subject
	grades        []models.Grade
	attendance    []models.Attendance
	auditLogs     []models.AuditLog
	notifications []models.Notification
	settings      models.SystemSettings
}

// Option customises store construction.
type Option func(*Store)

// WithFlushObserver wires durable-write metrics.
func WithFlushObserver(observer FlushObserver) Option {
	return func(s *Store) { s.observer = observer }
}

// Open loads every collection from the durable store, falling back to seed
// data when a document is absent or unreadable. Seeded collections are
// flushed immediately so the durable copy matches memory.
func Open(ctx context.Context, backend kv.Store, logger *zap.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: backend, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	loadCollection(s, ctx, CollectionUsers, &s.users, seedUsers)
	loadCollection(s, ctx, CollectionSubjects, &s.subjects, seedSubjects)
	loadCollection(s, ctx, CollectionGrades, &s.grades, seedGrades)
	loadCollection(s, ctx, CollectionAttendance, &s.attendance, seedAttendance)
	loadCollection(s, ctx, CollectionAuditLogs, &s.auditLogs, seedAuditLogs)
	loadCollection(s, ctx, CollectionNotifications, &s.notifications, seedNotifications)

	if err := s.kv.Load(ctx, CollectionSettings, &s.settings); err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("unreadable settings document, falling back to defaults", zap.Error(err))
		}
		s.settings = seedSettings()
		s.flush(ctx, CollectionSettings, s.settings)
	}

	return s, nil
}

func loadCollection[T any](s *Store, ctx context.Context, name string, dest *[]T, seed func() []T) {
	if err := s.kv.Load(ctx, name, dest); err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("unreadable collection document, falling back to seed data",
				zap.String("collection", name), zap.Error(err))
		}
		*dest = seed()
		s.flush(ctx, name, *dest)
	}
}

// flush persists the full collection. Failures are logged and swallowed: the
// in-memory state stays authoritative even when durable storage is down, at
// the cost of losing that write.
func (s *Store) flush(ctx context.Context, collection string, value interface{}) {
	start := time.Now()
	err := s.kv.Save(ctx, collection, value)
	if s.observer != nil {
		s.observer.ObserveFlush(collection, time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("failed to persist collection",
			zap.String("collection", collection), zap.Error(err))
	}
}

// --- Users ---

// ListUsers returns a copy of the users collection.
func (s *Store) ListUsers(_ context.Context) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// FindUserByIdentifier matches username or id, case-sensitive exact.
func (s *Store) FindUserByIdentifier(_ context.Context, identifier string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == identifier || u.ID == identifier {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// SearchUsers applies a case-insensitive substring query over
// username/full name/email/id, intersected with an optional role filter.
// An empty query matches everything.
func (s *Store) SearchUsers(_ context.Context, filter models.UserFilter) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(u.Username), query) &&
			!strings.Contains(strings.ToLower(u.FullName), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) &&
			!strings.Contains(strings.ToLower(u.ID), query) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// InsertUser appends a user after checking id/username uniqueness. The check
// and the insert share the write lock.
func (s *Store) InsertUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == user.ID || u.Username == user.Username {
			return ErrDuplicate
		}
	}
	s.users = append(s.users, user)
	s.flush(ctx, CollectionUsers, s.users)
	return nil
}

// UpdateUser replaces the record wholesale; there are no partial patches.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user
			s.flush(ctx, CollectionUsers, s.users)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteUser removes by id. Deleting an absent id is a no-op success; grade,
// attendance and subject references to the id are left orphaned.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	s.flush(ctx, CollectionUsers, s.users)
	return nil
}

// --- Subjects ---

// ListSubjects returns a copy of the subjects collection.
func (s *Store) ListSubjects(_ context.Context) []models.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subject, len(s.subjects))
	copy(out, s.subjects)
	return out
}

// ListSubjectsByTeacher filters on exact teacher id.
func (s *Store) ListSubjectsByTeacher(_ context.Context, teacherID string) []models.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subject, 0)
	for _, sub := range s.subjects {
		if sub.TeacherID == teacherID {
			out = append(out, sub)
		}
	}
	return out
}

// InsertSubject appends a subject.
func (s *Store) InsertSubject(ctx context.Context, subject models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	s.flush(ctx, CollectionSubjects, s.subjects)
	return nil
}

// --- Grades ---

// ListGrades returns a copy of the grades collection.
func (s *Store) ListGrades(_ context.Context) []models.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Grade, len(s.grades))
	copy(out, s.grades)
	return out
}

// GradesByStudent filters on exact student id.
func (s *Store) GradesByStudent(_ context.Context, studentID string) []models.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Grade, 0)
	for _, g := range s.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out
}

// GradesBySubject filters on exact subject id.
func (s *Store) GradesBySubject(_ context.Context, subjectID string) []models.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Grade, 0)
	for _, g := range s.grades {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	return out
}

// UpdateGradeScore replaces only the score of an existing grade.
func (s *Store) UpdateGradeScore(ctx context.Context, gradeID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.grades {
		if g.ID == gradeID {
			s.grades[i].Score = score
			s.flush(ctx, CollectionGrades, s.grades)
			return nil
		}
	}
	return ErrNotFound
}

// InsertGrades appends a batch of grades with a single flush. Uniqueness of
// the logical (student, subject, term, assessment) key is NOT enforced.
func (s *Store) InsertGrades(ctx context.Context, grades []models.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades = append(s.grades, grades...)
	s.flush(ctx, CollectionGrades, s.grades)
	return nil
}

// --- Attendance ---

// AttendanceByStudent filters on exact student id.
func (s *Store) AttendanceByStudent(_ context.Context, studentID string) []models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Attendance, 0)
	for _, a := range s.attendance {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out
}

// AttendanceBySubjectAndDate filters on exact subject id and ISO date.
func (s *Store) AttendanceBySubjectAndDate(_ context.Context, subjectID, date string) []models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Attendance, 0)
	for _, a := range s.attendance {
		if a.SubjectID == subjectID && a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// UpsertAttendance writes at most one record per (student, subject, date):
// an existing record gets its status overwritten in place, otherwise the
// record is appended with a fresh id. Returns the stored record.
func (s *Store) UpsertAttendance(ctx context.Context, record models.Attendance) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.attendance {
		if a.StudentID == record.StudentID && a.SubjectID == record.SubjectID && a.Date == record.Date {
			s.attendance[i].Status = record.Status
			stored := s.attendance[i]
			s.flush(ctx, CollectionAttendance, s.attendance)
			return stored, nil
		}
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.attendance = append(s.attendance, record)
	s.flush(ctx, CollectionAttendance, s.attendance)
	return record, nil
}

// --- Audit log ---

// AppendAuditLog prepends an entry so the sequence stays most-recent-first.
// There is no rotation or retention; the log grows for the store's lifetime.
func (s *Store) AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog {
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		UserID:    userID,
		Details:   details,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append([]models.AuditLog{entry}, s.auditLogs...)
	s.flush(ctx, CollectionAuditLogs, s.auditLogs)
	return entry
}

// AuditLogs returns a copy of the full sequence, most recent first.
func (s *Store) AuditLogs(_ context.Context) []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditLog, len(s.auditLogs))
	copy(out, s.auditLogs)
	return out
}

// --- Notifications ---

// NotificationsForUser filters on exact recipient id.
func (s *Store) NotificationsForUser(_ context.Context, userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// InsertNotification appends a notification.
func (s *Store) InsertNotification(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	s.flush(ctx, CollectionNotifications, s.notifications)
	return nil
}

// MarkNotificationRead flips the flag when found and silently no-ops
// otherwise.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			if !s.notifications[i].IsRead {
				s.notifications[i].IsRead = true
				s.flush(ctx, CollectionNotifications, s.notifications)
			}
			return nil
		}
	}
	return nil
}

// --- Settings ---

// Settings returns a copy of the singleton.
func (s *Store) Settings(_ context.Context) models.SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the singleton wholesale.
func (s *Store) UpdateSettings(ctx context.Context, settings models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.flush(ctx, CollectionSettings, s.settings)
	return nil
}
