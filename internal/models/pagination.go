package models

// Pagination mirrors the paging metadata returned by the upstream catalog
// endpoints and is passed through to clients unchanged.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalCourses int  `json:"total_courses"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}
