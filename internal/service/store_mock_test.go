package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/store"
)

// fakeStore mirrors the store's in-memory semantics without the durable
// layer. One fake serves every service because they all share the same
// backing store in production.
type fakeStore struct {
	mu            sync.Mutex
	users         []models.User
	subjects      []models.Subject
	grades        []models.Grade
	attendance    []models.Attendance
	auditLogs     []models.AuditLog
	notifications []models.Notification
	settings      models.SystemSettings

	insertUserErr error
}

func (f *fakeStore) ListUsers(context.Context) []models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...)
}

func (f *fakeStore) FindUserByIdentifier(_ context.Context, identifier string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == identifier || u.ID == identifier {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) SearchUsers(_ context.Context, filter models.UserFilter) []models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	query := strings.ToLower(filter.Query)
	out := make([]models.User, 0)
	for _, u := range f.users {
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

func (f *fakeStore) InsertUser(_ context.Context, user models.User) error {
	if f.insertUserErr != nil {
		return f.insertUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == user.ID || u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.users[:0]
	for _, u := range f.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return nil
}

func (f *fakeStore) ListSubjects(context.Context) []models.Subject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Subject(nil), f.subjects...)
}

func (f *fakeStore) ListSubjectsByTeacher(_ context.Context, teacherID string) []models.Subject {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Subject, 0)
	for _, s := range f.subjects {
		if s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStore) InsertSubject(_ context.Context, subject models.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeStore) ListGrades(context.Context) []models.Grade {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Grade(nil), f.grades...)
}

func (f *fakeStore) GradesByStudent(_ context.Context, studentID string) []models.Grade {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Grade, 0)
	for _, g := range f.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out
}

func (f *fakeStore) GradesBySubject(_ context.Context, subjectID string) []models.Grade {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Grade, 0)
	for _, g := range f.grades {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	return out
}

func (f *fakeStore) UpdateGradeScore(_ context.Context, gradeID string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.grades {
		if g.ID == gradeID {
			f.grades[i].Score = score
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) InsertGrades(_ context.Context, grades []models.Grade) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grades = append(f.grades, grades...)
	return nil
}

func (f *fakeStore) AttendanceByStudent(_ context.Context, studentID string) []models.Attendance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Attendance, 0)
	for _, a := range f.attendance {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeStore) AttendanceBySubjectAndDate(_ context.Context, subjectID, date string) []models.Attendance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Attendance, 0)
	for _, a := range f.attendance {
		if a.SubjectID == subjectID && a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeStore) UpsertAttendance(_ context.Context, record models.Attendance) (models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.attendance {
		if a.StudentID == record.StudentID && a.SubjectID == record.SubjectID && a.Date == record.Date {
			f.attendance[i].Status = record.Status
			return f.attendance[i], nil
		}
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	f.attendance = append(f.attendance, record)
	return record, nil
}

func (f *fakeStore) AppendAuditLog(_ context.Context, userID, action, details string) models.AuditLog {
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		UserID:    userID,
		Details:   details,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditLogs = append([]models.AuditLog{entry}, f.auditLogs...)
	return entry
}

func (f *fakeStore) AuditLogs(context.Context) []models.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AuditLog(nil), f.auditLogs...)
}

func (f *fakeStore) NotificationsForUser(_ context.Context, userID string) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, 0)
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeStore) InsertNotification(_ context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeStore) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return nil
}

func (f *fakeStore) Settings(context.Context) models.SystemSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

func (f *fakeStore) UpdateSettings(_ context.Context, settings models.SystemSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = settings
	return nil
}

// recordingNotifier captures fan-out calls synchronously.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []models.Notification
}

func (r *recordingNotifier) Notify(userID, message string, t models.NotificationType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, models.Notification{UserID: userID, Message: message, Type: t})
}
