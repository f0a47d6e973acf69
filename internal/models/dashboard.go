package models

// ClassRosterEntry pairs a student with one of a teacher's subjects. There is
// no enrollment table: every student is considered enrolled in every subject
// the teacher owns.
type ClassRosterEntry struct {
	Student User    `json:"student"`
	Subject Subject `json:"subject"`
}

// SystemStats summarises the portal for the admin dashboard.
type SystemStats struct {
	TotalStudents  int    `json:"total_students"`
	TotalTeachers  int    `json:"total_teachers"`
	TotalSubjects  int    `json:"total_subjects"`
	ActiveAlerts   int    `json:"active_alerts"`
	AtRiskStudents []User `json:"at_risk_students"`
}
