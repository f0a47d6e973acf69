package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/spms-api/internal/models"
)

// Seed data populates a collection whose durable document is absent or
// unreadable at startup.

func seedUsers() []models.User {
	return []models.User{
		{ID: "1", Username: "admin", FullName: "System Administrator", Role: models.RoleAdmin, Email: "admin@spms.edu"},
		{ID: "2", Username: "teacher", FullName: "John Keating", Role: models.RoleTeacher, Email: "jkeating@spms.edu"},
		{ID: "3", Username: "student", FullName: "Alice Johnson", Role: models.RoleStudent, Email: "alice@spms.edu"},
		{ID: "4", Username: "student2", FullName: "Bob Smith", Role: models.RoleStudent, Email: "bob@spms.edu"},
	}
}

func seedSubjects() []models.Subject {
	return []models.Subject{
		{ID: "101", Code: "MATH101", Name: "Calculus I", TeacherID: "2"},
		{ID: "102", Code: "PHY101", Name: "Physics I", TeacherID: "2"},
		{ID: "103", Code: "CS101", Name: "Intro to CS", TeacherID: "2"},
	}
}

func seedGrades() []models.Grade {
	return []models.Grade{
		{ID: "g1", StudentID: "3", SubjectID: "101", Score: 85, Term: "Midterm"},
		{ID: "g2", StudentID: "3", SubjectID: "101", Score: 92, Term: "Final"},
		{ID: "g3", StudentID: "3", SubjectID: "102", Score: 78, Term: "Midterm"},
		{ID: "g4", StudentID: "3", SubjectID: "103", Score: 95, Term: "Final"},
		{ID: "g5", StudentID: "4", SubjectID: "101", Score: 65, Term: "Midterm"},
	}
}

func seedAttendance() []models.Attendance {
	return []models.Attendance{
		{ID: "a1", StudentID: "3", SubjectID: "101", Date: "2023-10-01", Status: models.AttendanceStatusPresent},
		{ID: "a2", StudentID: "3", SubjectID: "101", Date: "2023-10-02", Status: models.AttendanceStatusPresent},
		{ID: "a3", StudentID: "3", SubjectID: "101", Date: "2023-10-03", Status: models.AttendanceStatusLate},
		{ID: "a4", StudentID: "3", SubjectID: "101", Date: "2023-10-04", Status: models.AttendanceStatusAbsent},
		{ID: "a5", StudentID: "3", SubjectID: "101", Date: "2023-10-05", Status: models.AttendanceStatusPresent},
	}
}

func seedAuditLogs() []models.AuditLog {
	return []models.AuditLog{
		{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			Action:    models.AuditActionSystemInit,
			UserID:    "1",
			Details:   "System initialized",
		},
	}
}

func seedNotifications() []models.Notification {
	now := time.Now().UTC()
	return []models.Notification{
		{ID: "n1", UserID: "3", Message: "New grade posted for Calculus I", Type: models.NotificationTypeGrade, Timestamp: now},
		{ID: "n2", UserID: "2", Message: "Attendance report due for Physics I", Type: models.NotificationTypeSystem, Timestamp: now},
	}
}

func seedSettings() models.SystemSettings {
	return models.SystemSettings{
		SystemName:              "SPMS - Student Performance Monitoring",
		MaintenanceMode:         false,
		AllowRegistration:       true,
		GradeModificationWindow: 14,
		ThemeColor:              "blue",
	}
}
