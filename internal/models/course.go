package models

import "strconv"

// Course is the catalog record mirrored from the upstream API. The gateway
// never owns or persists it beyond the response cache.
type Course struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	DifficultyLevel string        `json:"difficulty_level"`
	Language        string        `json:"language"`
	ThumbnailURL    string        `json:"thumbnail_url,omitempty"`
	Pricing         CoursePricing `json:"pricing"`
	Rating          float64       `json:"rating"`
	EnrollmentCount int           `json:"enrollment_count"`
}

// CourseDetail enriches a Course with its ordered modules and the resolved
// pricing options for the requesting client.
type CourseDetail struct {
	Course
	Modules        []Module          `json:"modules,omitempty"`
	TimeToFinish   int               `json:"timetofinish,omitempty"`
	PricingOptions PricingResolution `json:"pricing_options"`
}

// CourseFilter captures catalog listing parameters forwarded upstream.
type CourseFilter struct {
	Query string
	Page  int
	All   bool
}

// CacheKey derives the redis key for a catalog page.
func (f CourseFilter) CacheKey() string {
	if f.All {
		return "catalog:all:" + f.Query
	}
	return "catalog:" + f.Query + ":" + strconv.Itoa(f.Page)
}
