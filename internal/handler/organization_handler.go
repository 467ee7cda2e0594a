package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/organization"
)

// OrganizationHandler 组织处理器
type OrganizationHandler struct {
	svc *service.Services
}

// NewOrganizationHandler 创建组织处理器
func NewOrganizationHandler(svc *service.Services) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

// Create 创建组织
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req organization.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	org, err := h.svc.Organization.Create(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, org)
}

// Get 获取组织详情
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.svc.Organization.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, org)
}

// List 组织列表
func (h *OrganizationHandler) List(c *gin.Context) {
	page, size := getPagination(c)

	orgs, total, err := h.svc.Organization.List(c.Request.Context(), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, orgs, total, page, size)
}

// Update 更新组织
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req organization.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	org, err := h.svc.Organization.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, org)
}

// Delete 删除组织
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.svc.Organization.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// CreateProcess 创建业务流程
func (h *OrganizationHandler) CreateProcess(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	process, err := h.svc.Organization.CreateProcess(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, process)
}

// ListProcesses 业务流程列表
func (h *OrganizationHandler) ListProcesses(c *gin.Context) {
	processes, err := h.svc.Organization.ListProcesses(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, processes)
}

type permissionRequest struct {
	Role       string `json:"role" binding:"required"`
	Permission string `json:"permission" binding:"required"`
}

// GrantPermission 授予角色权限
func (h *OrganizationHandler) GrantPermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	if err := h.svc.Organization.GrantPermission(c.Request.Context(), c.Param("id"), req.Role, req.Permission); err != nil {
		BadRequest(c, err.Error())
		return
	}

	Success(c, gin.H{"role": req.Role, "permission": req.Permission})
}

// RevokePermission 撤销角色权限
func (h *OrganizationHandler) RevokePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	if err := h.svc.Organization.RevokePermission(c.Request.Context(), c.Param("id"), req.Role, req.Permission); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// ListPermissions 角色权限列表
func (h *OrganizationHandler) ListPermissions(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		BadRequest(c, "role is required")
		return
	}

	perms, err := h.svc.Organization.ListPermissions(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, perms)
}

// ListUsers 按角色查询组织用户
func (h *OrganizationHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.Organization.ListUsersByRole(c.Request.Context(), c.Param("id"), c.Query("role"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, users)
}
