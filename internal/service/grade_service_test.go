package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

func seededGradeStore() *fakeStore {
	return &fakeStore{
		users: []models.User{
			{ID: "2", Username: "teacher", FullName: "John Keating", Role: models.RoleTeacher},
			{ID: "3", Username: "student", FullName: "Alice Johnson", Role: models.RoleStudent},
			{ID: "4", Username: "student2", FullName: "Bob Smith", Role: models.RoleStudent},
		},
		subjects: []models.Subject{
			{ID: "101", Code: "MATH101", Name: "Calculus I", TeacherID: "2"},
		},
		grades: []models.Grade{
			{ID: "g1", StudentID: "3", SubjectID: "101", Score: 85, Term: "Midterm"},
		},
	}
}

func newGradeService(st *fakeStore, n notifier) *GradeService {
	roster := NewRosterService(st, zap.NewNop())
	return NewGradeService(st, roster, n, validator.New(), zap.NewNop())
}

func TestGradeServiceUpsertUpdatesScoreOnly(t *testing.T) {
	st := seededGradeStore()
	svc := newGradeService(st, nil)

	err := svc.Upsert(context.Background(), "2", UpsertGradeRequest{
		GradeID:   "g1",
		StudentID: "3",
		SubjectID: "101",
		Score:     91,
		Term:      "Changed Term",
	})
	require.NoError(t, err)

	grades := st.ListGrades(context.Background())
	require.Len(t, grades, 1)
	assert.Equal(t, 91.0, grades[0].Score)
	// Only the score changes on a matched id.
	assert.Equal(t, "Midterm", grades[0].Term)

	logs := st.AuditLogs(context.Background())
	require.NotEmpty(t, logs)
	assert.Equal(t, models.AuditActionGradeUpdate, logs[0].Action)
	assert.Equal(t, "Updated grade for 3", logs[0].Details)
	assert.Equal(t, "2", logs[0].UserID)
}

func TestGradeServiceUpsertCreatesWhenUnmatched(t *testing.T) {
	st := seededGradeStore()
	svc := newGradeService(st, nil)

	err := svc.Upsert(context.Background(), "2", UpsertGradeRequest{
		GradeID:        "missing",
		StudentID:      "4",
		SubjectID:      "101",
		Score:          70,
		Term:           "Final",
		AssessmentName: "Final Exam",
	})
	require.NoError(t, err)

	grades := st.ListGrades(context.Background())
	require.Len(t, grades, 2)
	created := grades[1]
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "missing", created.ID)
	assert.Equal(t, "4", created.StudentID)
	assert.Equal(t, 70.0, created.Score)
	assert.Equal(t, "Final Exam", created.AssessmentName)
}

func TestGradeServiceUpsertNotifiesStudent(t *testing.T) {
	st := seededGradeStore()
	n := &recordingNotifier{}
	svc := newGradeService(st, n)

	err := svc.Upsert(context.Background(), "2", UpsertGradeRequest{
		StudentID: "3",
		SubjectID: "101",
		Score:     88,
		Term:      "Final",
	})
	require.NoError(t, err)

	require.Len(t, n.calls, 1)
	assert.Equal(t, "3", n.calls[0].UserID)
	assert.Equal(t, models.NotificationTypeGrade, n.calls[0].Type)
	assert.Equal(t, "New grade posted for Calculus I", n.calls[0].Message)
}

func TestGradeServiceCreateClassAssignment(t *testing.T) {
	st := seededGradeStore()
	svc := newGradeService(st, nil)

	err := svc.CreateClassAssignment(context.Background(), "2", CreateAssignmentRequest{
		SubjectID:      "101",
		Term:           "Final",
		AssessmentName: "Essay",
		MaxScore:       100,
	})
	require.NoError(t, err)

	created := make(map[string]models.Grade)
	for _, g := range st.GradesBySubject(context.Background(), "101") {
		if g.AssessmentName == "Essay" {
			_, dup := created[g.StudentID]
			require.False(t, dup, "expected exactly one grade per student")
			created[g.StudentID] = g
		}
	}
	require.Len(t, created, 2)
	for _, g := range created {
		assert.Equal(t, 0.0, g.Score)
		assert.Equal(t, "Final", g.Term)
		require.NotNil(t, g.MaxScore)
		assert.Equal(t, 100.0, *g.MaxScore)
	}

	logs := st.AuditLogs(context.Background())
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionAssignmentCreate, logs[0].Action)
	assert.Equal(t, "Created Essay for 101", logs[0].Details)
}

func TestGradeServiceListByStudent(t *testing.T) {
	svc := newGradeService(seededGradeStore(), nil)

	grades := svc.ListByStudent(context.Background(), "3")
	require.Len(t, grades, 1)
	assert.Equal(t, "g1", grades[0].ID)

	assert.Empty(t, svc.ListByStudent(context.Background(), "4"))
}
