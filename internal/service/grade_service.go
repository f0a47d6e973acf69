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

type gradeStore interface {
	GradesByStudent(ctx context.Context, studentID string) []models.Grade
	GradesBySubject(ctx context.Context, subjectID string) []models.Grade
	UpdateGradeScore(ctx context.Context, gradeID string, score float64) error
	InsertGrades(ctx context.Context, grades []models.Grade) error
	ListSubjects(ctx context.Context) []models.Subject
	AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog
}

// rosterProvider resolves which students sit in a teacher's class.
type rosterProvider interface {
	StudentsByClass(ctx context.Context, teacherID, subjectID string) []models.ClassRosterEntry
}

// notifier delivers a message to one user asynchronously. Delivery is best
// effort; failures never surface to the caller.
type notifier interface {
	Notify(userID, message string, t models.NotificationType)
}

// UpsertGradeRequest carries a single grade mutation from the teacher
// gradebook. GradeID selects an existing record; when it matches, only the
// score changes. Anything else creates a new record.
type UpsertGradeRequest struct {
	GradeID        string  `json:"grade_id"`
	StudentID      string  `json:"student_id" validate:"required"`
	SubjectID      string  `json:"subject_id" validate:"required"`
	Score          float64 `json:"score" validate:"gte=0"`
	Term           string  `json:"term" validate:"required"`
	AssessmentName string  `json:"assessment_name"`
}

// CreateAssignmentRequest seeds a zero-score grade for every student in the
// class.
type CreateAssignmentRequest struct {
	SubjectID      string  `json:"subject_id" validate:"required"`
	Term           string  `json:"term" validate:"required"`
	AssessmentName string  `json:"assessment_name" validate:"required"`
	MaxScore       float64 `json:"max_score" validate:"gt=0"`
}

// GradeService implements the teacher gradebook workflows.
type GradeService struct {
	store     gradeStore
	roster    rosterProvider
	notifier  notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService creates an instance of GradeService. The notifier may be
// nil, in which case grade changes produce no notifications.
func NewGradeService(st gradeStore, roster rosterProvider, n notifier, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{store: st, roster: roster, notifier: n, validator: validate, logger: logger}
}

// ListByStudent returns all grades recorded for one student.
func (s *GradeService) ListByStudent(ctx context.Context, studentID string) []models.Grade {
	return s.store.GradesByStudent(ctx, studentID)
}

// ListBySubject returns all grades recorded for one subject.
func (s *GradeService) ListBySubject(ctx context.Context, subjectID string) []models.Grade {
	return s.store.GradesBySubject(ctx, subjectID)
}

// Upsert updates the score of an existing grade when GradeID matches a
// record, otherwise appends a new grade. Either way the student receives a
// notification and the change is audited under the teacher's id.
func (s *GradeService) Upsert(ctx context.Context, teacherID string, req UpsertGradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	updated := false
	if req.GradeID != "" {
		switch err := s.store.UpdateGradeScore(ctx, req.GradeID, req.Score); {
		case err == nil:
			updated = true
		case errors.Is(err, store.ErrNotFound):
			// Fall through to create.
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
		}
	}

	if !updated {
		grade := models.Grade{
			ID:             uuid.NewString(),
			StudentID:      req.StudentID,
			SubjectID:      req.SubjectID,
			Score:          req.Score,
			Term:           req.Term,
			AssessmentName: req.AssessmentName,
		}
		if err := s.store.InsertGrades(ctx, []models.Grade{grade}); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
		}
	}

	s.store.AppendAuditLog(ctx, teacherID, models.AuditActionGradeUpdate,
		fmt.Sprintf("Updated grade for %s", req.StudentID))

	if s.notifier != nil {
		s.notifier.Notify(req.StudentID,
			fmt.Sprintf("New grade posted for %s", s.subjectName(ctx, req.SubjectID)),
			models.NotificationTypeGrade)
	}

	return nil
}

// CreateClassAssignment inserts one zero-score grade per distinct student in
// the class, stamped with the assignment name and maximum score. A single
// audit entry covers the whole batch.
func (s *GradeService) CreateClassAssignment(ctx context.Context, teacherID string, req CreateAssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	entries := s.roster.StudentsByClass(ctx, teacherID, req.SubjectID)

	seen := make(map[string]struct{}, len(entries))
	grades := make([]models.Grade, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Student.ID]; ok {
			continue
		}
		seen[entry.Student.ID] = struct{}{}
		maxScore := req.MaxScore
		grades = append(grades, models.Grade{
			ID:             uuid.NewString(),
			StudentID:      entry.Student.ID,
			SubjectID:      req.SubjectID,
			Score:          0,
			Term:           req.Term,
			AssessmentName: req.AssessmentName,
			MaxScore:       &maxScore,
		})
	}

	if len(grades) > 0 {
		if err := s.store.InsertGrades(ctx, grades); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment grades")
		}
	}

	s.store.AppendAuditLog(ctx, teacherID, models.AuditActionAssignmentCreate,
		fmt.Sprintf("Created %s for %s", req.AssessmentName, req.SubjectID))

	return nil
}

func (s *GradeService) subjectName(ctx context.Context, subjectID string) string {
	for _, subject := range s.store.ListSubjects(ctx) {
		if subject.ID == subjectID {
			return subject.Name
		}
	}
	return subjectID
}
