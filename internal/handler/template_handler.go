package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/template"
)

// TemplateHandler 评估模板处理器
type TemplateHandler struct {
	svc *service.Services
}

// NewTemplateHandler 创建评估模板处理器
func NewTemplateHandler(svc *service.Services) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// templateResponse 模板响应，附带非阻断提示
type templateResponse struct {
	Template interface{}       `json:"template"`
	Warnings template.Warnings `json:"warnings,omitempty"`
}

// Create 创建模板
func (h *TemplateHandler) Create(c *gin.Context) {
	var req template.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}
	req.OrganizationID = middleware.GetOrganizationID(c)

	tpl, warnings, err := h.svc.Template.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, templateResponse{Template: tpl, Warnings: warnings})
}

// Get 获取模板详情（含维度与参数）
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.svc.Template.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, tpl)
}

// GetActive 获取组织当前启用模板
func (h *TemplateHandler) GetActive(c *gin.Context) {
	tpl, err := h.svc.Template.GetActive(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, tpl)
}

// List 模板列表
func (h *TemplateHandler) List(c *gin.Context) {
	page, size := getPagination(c)
	orgID := middleware.GetOrganizationID(c)

	templates, total, err := h.svc.Template.List(c.Request.Context(), orgID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, templates, total, page, size)
}

// Update 更新草稿模板
func (h *TemplateHandler) Update(c *gin.Context) {
	var req template.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	tpl, warnings, err := h.svc.Template.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, template.ErrTemplateLocked) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, templateResponse{Template: tpl, Warnings: warnings})
}

// Activate 启用模板，同组织其他启用模板自动归档
func (h *TemplateHandler) Activate(c *gin.Context) {
	tpl, err := h.svc.Template.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, tpl)
}

// Archive 归档模板
func (h *TemplateHandler) Archive(c *gin.Context) {
	if err := h.svc.Template.Archive(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// Delete 删除草稿模板
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.Template.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, template.ErrTemplateLocked) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	NoContent(c)
}
