package models

// Learning is an enrollment row mirrored from the upstream API. Progress is
// computed server side and only displayed by the gateway.
type Learning struct {
	CourseID     string     `json:"courseId"`
	EnrollmentID string     `json:"enrollmentId"`
	CourseName   string     `json:"courseName,omitempty"`
	Progress     int        `json:"progress"`
	AssignLimit  int        `json:"assignLimit"`
	AssignCount  int        `json:"assignCount"`
	CourseType   AccessType `json:"courseType"`
}

// UserDetails identifies the purchasing user on enroll calls.
type UserDetails struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// ProgressUpdate is the upstream payload for a material status change.
type ProgressUpdate struct {
	EnrollmentID string         `json:"enrollment_id"`
	MaterialID   string         `json:"material_id"`
	Status       MaterialStatus `json:"status"`
}
