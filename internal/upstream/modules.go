package upstream

import (
	"context"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

// ListModules fetches the ordered modules of a course, materials included.
func (c *Client) ListModules(ctx context.Context, courseID string) ([]models.Module, error) {
	var out []models.Module
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/courses/course/" + courseID + "/modules")
	if apiErr := c.apiError("list modules", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return out, nil
}

// ModuleRequest carries module attributes for create and update calls.
type ModuleRequest struct {
	CourseID     string `json:"course_id,omitempty"`
	Title        string `json:"title"`
	OrderIndex   int    `json:"order_index"`
	IsActive     bool   `json:"is_active"`
	TimeToFinish int    `json:"timetofinish"`
}

// CreateModule creates a module under its course.
func (c *Client) CreateModule(ctx context.Context, req ModuleRequest) (*models.Module, error) {
	var out models.Module
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/modules")
	if apiErr := c.apiError("create module", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// UpdateModule updates a module by id.
func (c *Client) UpdateModule(ctx context.Context, id string, req ModuleRequest) (*models.Module, error) {
	var out models.Module
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/modules/" + id)
	if apiErr := c.apiError("update module", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// DeleteModule removes a module by id.
func (c *Client) DeleteModule(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/modules/" + id)
	return c.apiError("delete module", resp, err)
}

// ListMaterials fetches the ordered materials of a module.
func (c *Client) ListMaterials(ctx context.Context, moduleID string) ([]models.Material, error) {
	var out []models.Material
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/modules/" + moduleID + "/materials")
	if apiErr := c.apiError("list materials", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return out, nil
}

// CreateMaterial creates a material under its module. The payload is the
// tagged material variant, validated by the service layer beforehand.
func (c *Client) CreateMaterial(ctx context.Context, moduleID string, material models.Material) (*models.Material, error) {
	var out models.Material
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(material).
		SetResult(&out).
		Post("/modules/" + moduleID + "/materials")
	if apiErr := c.apiError("create material", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// UpdateMaterial updates a material by id.
func (c *Client) UpdateMaterial(ctx context.Context, id string, material models.Material) (*models.Material, error) {
	var out models.Material
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(material).
		SetResult(&out).
		Put("/materials/" + id)
	if apiErr := c.apiError("update material", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// DeleteMaterial removes a material by id.
func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/materials/" + id)
	return c.apiError("delete material", resp, err)
}
