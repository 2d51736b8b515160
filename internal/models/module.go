package models

// Module is a course section, ordered by OrderIndex within its course.
type Module struct {
	ID           string     `json:"id"`
	CourseID     string     `json:"course_id"`
	Title        string     `json:"title"`
	OrderIndex   int        `json:"order_index"`
	IsActive     bool       `json:"is_active"`
	TimeToFinish int        `json:"timetofinish"`
	Materials    []Material `json:"materials,omitempty"`
}

// ModuleProgress summarises material completion inside one module.
type ModuleProgress struct {
	ModuleID        string `json:"module_id"`
	CompletedCount  int    `json:"completed_count"`
	TotalCount      int    `json:"total_count"`
	Percentage      int    `json:"percentage"`
	ModuleCompleted bool   `json:"module_completed"`
}
