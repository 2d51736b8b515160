package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// ModuleHandler exposes module and material endpoints.
type ModuleHandler struct {
	modules *service.ModuleService
}

// NewModuleHandler constructs ModuleHandler.
func NewModuleHandler(modules *service.ModuleService) *ModuleHandler {
	return &ModuleHandler{modules: modules}
}

// ListByCourse godoc
// @Summary List the modules of a course
// @Tags Modules
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/modules [get]
func (h *ModuleHandler) ListByCourse(c *gin.Context) {
	modules, err := h.modules.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// Create godoc
// @Summary Create a module
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.ModuleInput true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /admin/modules [post]
func (h *ModuleHandler) Create(c *gin.Context) {
	var req service.ModuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.modules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// Update godoc
// @Summary Update a module
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body service.ModuleInput true "Module payload"
// @Success 200 {object} response.Envelope
// @Router /admin/modules/{id} [put]
func (h *ModuleHandler) Update(c *gin.Context) {
	var req service.ModuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.modules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// Delete godoc
// @Summary Delete a module
// @Tags Admin
// @Param id path string true "Module ID"
// @Success 204
// @Router /admin/modules/{id} [delete]
func (h *ModuleHandler) Delete(c *gin.Context) {
	if err := h.modules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMaterials godoc
// @Summary List the materials of a module
// @Tags Modules
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Router /modules/{id}/materials [get]
func (h *ModuleHandler) ListMaterials(c *gin.Context) {
	materials, err := h.modules.Materials(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, nil)
}

// CreateMaterial godoc
// @Summary Add a material to a module
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body models.Material true "Material payload"
// @Success 201 {object} response.Envelope
// @Router /admin/modules/{id}/materials [post]
func (h *ModuleHandler) CreateMaterial(c *gin.Context) {
	var material models.Material
	if err := c.ShouldBindJSON(&material); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.modules.CreateMaterial(c.Request.Context(), c.Param("id"), material)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateMaterial godoc
// @Summary Update a material
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param payload body models.Material true "Material payload"
// @Success 200 {object} response.Envelope
// @Router /admin/materials/{id} [put]
func (h *ModuleHandler) UpdateMaterial(c *gin.Context) {
	var material models.Material
	if err := c.ShouldBindJSON(&material); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.modules.UpdateMaterial(c.Request.Context(), c.Param("id"), material)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DeleteMaterial godoc
// @Summary Delete a material
// @Tags Admin
// @Param id path string true "Material ID"
// @Success 204
// @Router /admin/materials/{id} [delete]
func (h *ModuleHandler) DeleteMaterial(c *gin.Context) {
	if err := h.modules.DeleteMaterial(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
