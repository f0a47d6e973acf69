package models

// Subject represents an academic subject owned by one teacher. TeacherID is
// not checked against the users collection; deleting a teacher leaves the
// subject orphaned.
type Subject struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
}
