package models

// SystemSettings is the singleton configuration record. It is created once
// at initialization, replaced wholesale by admin saves, and never deleted.
// GradeModificationWindow is advisory only; no operation enforces it.
type SystemSettings struct {
	SystemName              string `json:"system_name"`
	MaintenanceMode         bool   `json:"maintenance_mode"`
	AllowRegistration       bool   `json:"allow_registration"`
	GradeModificationWindow int    `json:"grade_modification_window"`
	ThemeColor              string `json:"theme_color"`
}
