package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

type rosterStore interface {
	ListSubjectsByTeacher(ctx context.Context, teacherID string) []models.Subject
	ListUsers(ctx context.Context) []models.User
}

// RosterService builds class rosters. There is no enrollment table; every
// student account is considered enrolled in every subject, so a roster is
// the cross product of the teacher's subjects with all students.
type RosterService struct {
	store  rosterStore
	logger *zap.Logger
}

// NewRosterService creates an instance of RosterService.
func NewRosterService(st rosterStore, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: st, logger: logger}
}

// StudentsByClass returns one entry per (student, subject) pair for the
// teacher's subjects. A non-empty subjectID narrows the roster to that
// subject; an unknown subjectID yields an empty roster.
func (s *RosterService) StudentsByClass(ctx context.Context, teacherID, subjectID string) []models.ClassRosterEntry {
	subjects := s.store.ListSubjectsByTeacher(ctx, teacherID)
	if subjectID != "" {
		narrowed := subjects[:0:0]
		for _, subject := range subjects {
			if subject.ID == subjectID {
				narrowed = append(narrowed, subject)
			}
		}
		subjects = narrowed
	}

	entries := make([]models.ClassRosterEntry, 0)
	for _, subject := range subjects {
		for _, user := range s.store.ListUsers(ctx) {
			if user.Role != models.RoleStudent {
				continue
			}
			entries = append(entries, models.ClassRosterEntry{Student: user, Subject: subject})
		}
	}
	return entries
}
