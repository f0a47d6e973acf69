package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/store"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/export"
)

type reportStore interface {
	FindUserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	GradesByStudent(ctx context.Context, studentID string) []models.Grade
	ListSubjects(ctx context.Context) []models.Subject
}

// ReportService renders downloadable student transcripts.
type ReportService struct {
	store    reportStore
	exporter *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService creates an instance of ReportService.
func NewReportService(st reportStore, exporter *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewPDFExporter()
	}
	return &ReportService{store: st, exporter: exporter, logger: logger}
}

// StudentTranscript renders the student's grades as a PDF transcript.
func (s *ReportService) StudentTranscript(ctx context.Context, studentID string) ([]byte, error) {
	student, err := s.store.FindUserByIdentifier(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student")
	}

	subjectNames := make(map[string]string)
	for _, subject := range s.store.ListSubjects(ctx) {
		subjectNames[subject.ID] = subject.Name
	}

	grades := s.store.GradesByStudent(ctx, student.ID)
	data := export.Dataset{
		Headers: []string{"Subject", "Assessment", "Term", "Score"},
		Rows:    make([]map[string]string, 0, len(grades)),
	}
	for _, g := range grades {
		name, ok := subjectNames[g.SubjectID]
		if !ok {
			name = g.SubjectID
		}
		assessment := g.AssessmentName
		if assessment == "" {
			assessment = "-"
		}
		score := strconv.FormatFloat(g.Score, 'f', -1, 64)
		if g.MaxScore != nil {
			score = fmt.Sprintf("%s / %s", score, strconv.FormatFloat(*g.MaxScore, 'f', -1, 64))
		}
		data.Rows = append(data.Rows, map[string]string{
			"Subject":    name,
			"Assessment": assessment,
			"Term":       g.Term,
			"Score":      score,
		})
	}

	title := fmt.Sprintf("Transcript - %s", student.FullName)
	pdf, err := s.exporter.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}
	return pdf, nil
}
