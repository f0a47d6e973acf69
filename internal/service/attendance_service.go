package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type attendanceStore interface {
	AttendanceByStudent(ctx context.Context, studentID string) []models.Attendance
	AttendanceBySubjectAndDate(ctx context.Context, subjectID, date string) []models.Attendance
	UpsertAttendance(ctx context.Context, record models.Attendance) (models.Attendance, error)
	ListSubjects(ctx context.Context) []models.Subject
}

// RecordAttendanceRequest marks one student for one subject on one date.
type RecordAttendanceRequest struct {
	StudentID string                  `json:"student_id" validate:"required"`
	SubjectID string                  `json:"subject_id" validate:"required"`
	Date      string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT LATE CUTTING"`
}

// AttendanceService records and reads attendance. Recording is an upsert
// keyed on (student, subject, date): marking the same slot twice keeps a
// single record with the latest status. Attendance changes are not audited.
type AttendanceService struct {
	store     attendanceStore
	notifier  notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService creates an instance of AttendanceService. The
// notifier may be nil.
func NewAttendanceService(st attendanceStore, n notifier, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{store: st, notifier: n, validator: validate, logger: logger}
}

// Record marks attendance for a student. Absences and cutting notify the
// student.
func (s *AttendanceService) Record(ctx context.Context, req RecordAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	record, err := s.store.UpsertAttendance(ctx, models.Attendance{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Status:    req.Status,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	if s.notifier != nil && (req.Status == models.AttendanceStatusAbsent || req.Status == models.AttendanceStatusCutting) {
		s.notifier.Notify(req.StudentID,
			fmt.Sprintf("You were marked %s in %s on %s", req.Status, s.subjectName(ctx, req.SubjectID), req.Date),
			models.NotificationTypeAttendance)
	}

	return &record, nil
}

// ListByStudent returns the attendance history for one student.
func (s *AttendanceService) ListByStudent(ctx context.Context, studentID string) []models.Attendance {
	return s.store.AttendanceByStudent(ctx, studentID)
}

// ListBySubjectAndDate returns the records for one subject on one date.
func (s *AttendanceService) ListBySubjectAndDate(ctx context.Context, subjectID, date string) []models.Attendance {
	return s.store.AttendanceBySubjectAndDate(ctx, subjectID, date)
}

func (s *AttendanceService) subjectName(ctx context.Context, subjectID string) string {
	for _, subject := range s.store.ListSubjects(ctx) {
		if subject.ID == subjectID {
			return subject.Name
		}
	}
	return subjectID
}
