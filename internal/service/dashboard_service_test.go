package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

func TestDashboardServiceStats(t *testing.T) {
	st := &fakeStore{
		users: []models.User{
			{ID: "1", Username: "admin", Role: models.RoleAdmin},
			{ID: "2", Username: "teacher", Role: models.RoleTeacher},
			{ID: "s1", Username: "low", Role: models.RoleStudent},
			{ID: "s2", Username: "high", Role: models.RoleStudent},
			{ID: "s3", Username: "ungraded", Role: models.RoleStudent},
		},
		subjects: []models.Subject{
			{ID: "101", TeacherID: "2"},
			{ID: "102", TeacherID: "2"},
		},
		grades: []models.Grade{
			{ID: "g1", StudentID: "s1", SubjectID: "101", Score: 60},
			{ID: "g2", StudentID: "s2", SubjectID: "101", Score: 90},
		},
	}
	svc := NewDashboardService(st, zap.NewNop())

	stats := svc.Stats(context.Background())
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalTeachers)
	assert.Equal(t, 2, stats.TotalSubjects)

	// Only the student averaging below the threshold is flagged; the
	// student with no grades is excluded rather than treated as zero.
	require.Len(t, stats.AtRiskStudents, 1)
	assert.Equal(t, "s1", stats.AtRiskStudents[0].ID)
	assert.Equal(t, 1, stats.ActiveAlerts)
}

func TestDashboardServiceAtRiskThresholdIsStrict(t *testing.T) {
	st := &fakeStore{
		users: []models.User{
			{ID: "s1", Username: "edge", Role: models.RoleStudent},
		},
		grades: []models.Grade{
			{ID: "g1", StudentID: "s1", SubjectID: "101", Score: 75},
		},
	}
	svc := NewDashboardService(st, zap.NewNop())

	stats := svc.Stats(context.Background())
	assert.Empty(t, stats.AtRiskStudents)
	assert.Equal(t, 0, stats.ActiveAlerts)
}

func TestDashboardServiceAtRiskUsesMean(t *testing.T) {
	st := &fakeStore{
		users: []models.User{
			{ID: "s1", Username: "mixed", Role: models.RoleStudent},
		},
		grades: []models.Grade{
			{ID: "g1", StudentID: "s1", SubjectID: "101", Score: 50},
			{ID: "g2", StudentID: "s1", SubjectID: "102", Score: 100},
		},
	}
	svc := NewDashboardService(st, zap.NewNop())

	// Mean of 75 is not strictly below 75.
	stats := svc.Stats(context.Background())
	assert.Empty(t, stats.AtRiskStudents)
}
