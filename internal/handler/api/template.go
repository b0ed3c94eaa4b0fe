package api

import (
	"errors"
	"net/http"

	reqdto "coupon-manager/internal/handler/dto/request"
	resdto "coupon-manager/internal/handler/dto/response"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	templateCommands commands.TemplateCommands
	templateQueries  queries.TemplateQueries
}

func NewTemplateHandler(templateCommands commands.TemplateCommands, templateQueries queries.TemplateQueries) *TemplateHandler {
	return &TemplateHandler{
		templateCommands: templateCommands,
		templateQueries:  templateQueries,
	}
}

// @Summary List SMS templates
// @Tags sms-templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.TemplateListResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /sms-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	items, err := h.templateQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.TemplateListResponse{Items: items})
}

// @Summary Create SMS template
// @Tags sms-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateTemplateRequest true "Template"
// @Success 201 {object} queries.TemplateView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /sms-templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req reqdto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.templateCommands.Create(c.Request.Context(), req)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Update SMS template content
// @Tags sms-templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param request body reqdto.UpdateTemplateContentRequest true "New content"
// @Success 200 {object} queries.TemplateView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sms-templates/{id} [patch]
func (h *TemplateHandler) UpdateContent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	var req reqdto.UpdateTemplateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.templateCommands.UpdateContent(c.Request.Context(), id, req)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Set default SMS template
// @Description Make this template the default for its type
// @Tags sms-templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} queries.TemplateView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sms-templates/{id}/default [post]
func (h *TemplateHandler) SetDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	view, err := h.templateCommands.SetDefault(c.Request.Context(), id)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func respondTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
	case errors.Is(err, commands.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
