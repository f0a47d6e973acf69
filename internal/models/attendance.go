package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusCutting AttendanceStatus = "CUTTING"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusCutting:
		return true
	default:
		return false
	}
}

// Attendance represents one student's attendance for a subject on a date.
// Invariant: at most one record per (StudentID, SubjectID, Date); the record
// operation upserts on that key. Date is an ISO date string (YYYY-MM-DD).
type Attendance struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	SubjectID string           `json:"subject_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}
