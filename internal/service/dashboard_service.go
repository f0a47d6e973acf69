package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
)

type dashboardStore interface {
	ListUsers(ctx context.Context) []models.User
	ListSubjects(ctx context.Context) []models.Subject
	ListGrades(ctx context.Context) []models.Grade
}

// DashboardService computes the admin dashboard aggregates.
type DashboardService struct {
	store  dashboardStore
	logger *zap.Logger
}

// NewDashboardService creates an instance of DashboardService.
func NewDashboardService(st dashboardStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: st, logger: logger}
}

// Stats returns headcounts plus the at-risk student list. A student is at
// risk when their mean score across all grades is strictly below the
// threshold; students with no grades are excluded.
func (s *DashboardService) Stats(ctx context.Context) models.SystemStats {
	users := s.store.ListUsers(ctx)
	grades := s.store.ListGrades(ctx)

	stats := models.SystemStats{
		TotalSubjects: len(s.store.ListSubjects(ctx)),
		AtRiskStudents: []models.User{},
	}

	type acc struct {
		sum   float64
		count int
	}
	byStudent := make(map[string]acc)
	for _, g := range grades {
		a := byStudent[g.StudentID]
		a.sum += g.Score
		a.count++
		byStudent[g.StudentID] = a
	}

	for _, user := range users {
		switch user.Role {
		case models.RoleStudent:
			stats.TotalStudents++
			if a, ok := byStudent[user.ID]; ok && a.count > 0 && a.sum/float64(a.count) < models.AtRiskThreshold {
				stats.AtRiskStudents = append(stats.AtRiskStudents, user)
			}
		case models.RoleTeacher:
			stats.TotalTeachers++
		}
	}

	stats.ActiveAlerts = len(stats.AtRiskStudents)
	return stats
}
