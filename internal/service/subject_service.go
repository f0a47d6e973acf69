package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type subjectStore interface {
	ListSubjects(ctx context.Context) []models.Subject
	ListSubjectsByTeacher(ctx context.Context, teacherID string) []models.Subject
	InsertSubject(ctx context.Context, subject models.Subject) error
	AppendAuditLog(ctx context.Context, userID, action, details string) models.AuditLog
}

// RequestSubjectRequest is the teacher's subject creation payload. Despite
// the name there is no review workflow: requests are approved immediately.
type RequestSubjectRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	store     subjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates an instance of SubjectService.
func NewSubjectService(st subjectStore, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{store: st, validator: validate, logger: logger}
}

// List returns the full subject catalogue.
func (s *SubjectService) List(ctx context.Context) []models.Subject {
	return s.store.ListSubjects(ctx)
}

// ListByTeacher returns the subjects owned by one teacher.
func (s *SubjectService) ListByTeacher(ctx context.Context, teacherID string) []models.Subject {
	return s.store.ListSubjectsByTeacher(ctx, teacherID)
}

// Request creates a subject for the teacher with a fresh short token id.
// The teacher id is not checked against the users collection.
func (s *SubjectService) Request(ctx context.Context, teacherID string, req RequestSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := models.Subject{
		ID:        newSubjectToken(),
		Name:      req.Name,
		Code:      req.Code,
		TeacherID: teacherID,
	}

	if err := s.store.InsertSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.store.AppendAuditLog(ctx, teacherID, models.AuditActionSubjectRequest,
		fmt.Sprintf("Teacher requested/created subject %s", subject.Code))

	return &subject, nil
}

const subjectTokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newSubjectToken returns a short random uppercase identifier.
func newSubjectToken() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(fmt.Sprintf("subject token: %v", err))
	}
	for i, b := range buf {
		buf[i] = subjectTokenCharset[int(b)%len(subjectTokenCharset)]
	}
	return string(buf)
}
