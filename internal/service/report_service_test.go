package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/export"
)

func TestReportServiceStudentTranscript(t *testing.T) {
	maxScore := 100.0
	st := &fakeStore{
		users: []models.User{
			{ID: "3", Username: "student", FullName: "Alice Johnson", Role: models.RoleStudent},
		},
		subjects: []models.Subject{
			{ID: "101", Code: "MATH101", Name: "Calculus I", TeacherID: "2"},
		},
		grades: []models.Grade{
			{ID: "g1", StudentID: "3", SubjectID: "101", Score: 85, Term: "Midterm"},
			{ID: "g2", StudentID: "3", SubjectID: "101", Score: 0, Term: "Final", AssessmentName: "Essay", MaxScore: &maxScore},
		},
	}
	svc := NewReportService(st, export.NewPDFExporter(), zap.NewNop())

	pdf, err := svc.StudentTranscript(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestReportServiceStudentTranscriptUnknownStudent(t *testing.T) {
	svc := NewReportService(&fakeStore{}, export.NewPDFExporter(), zap.NewNop())

	_, err := svc.StudentTranscript(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
