// Package organization 提供组织、业务流程与角色权限的管理
package organization

import (
	"context"
	"fmt"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
)

// Service 组织服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建组织服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// CreateRequest 创建组织请求
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create 创建组织并授予默认权限
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*model.Organization, error) {
	org := &model.Organization{
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
	}
	if err := s.repo.Organization.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	// 默认权限：培训师管批次/测验/模板，质检分配并评估，坐席无管理权限
	defaults := map[string][]string{
		model.RoleTrainer: {
			model.PermissionManageBatches,
			model.PermissionManageQuizzes,
			model.PermissionManageTemplates,
			model.PermissionEvaluate,
			model.PermissionReviewFeedback,
		},
		model.RoleQualityAnalyst: {
			model.PermissionAllocateAudio,
			model.PermissionEvaluate,
		},
	}
	for role, permissions := range defaults {
		for _, p := range permissions {
			grant := &model.RolePermission{
				OrganizationID: org.ID,
				Role:           role,
				Permission:     p,
			}
			if err := s.repo.Organization.GrantPermission(grant); err != nil {
				return nil, fmt.Errorf("failed to grant default permission: %w", err)
			}
		}
	}
	return org, nil
}

// Get 获取组织
func (s *Service) Get(ctx context.Context, id string) (*model.Organization, error) {
	return s.repo.Organization.GetByID(id)
}

// List 列出组织
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.Organization, int64, error) {
	return s.repo.Organization.List(limit, offset)
}

// Update 更新组织
func (s *Service) Update(ctx context.Context, id string, req *CreateRequest) (*model.Organization, error) {
	org, err := s.repo.Organization.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Description != "" {
		org.Description = req.Description
	}
	if err := s.repo.Organization.Update(org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete 删除组织
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Organization.GetByID(id); err != nil {
		return err
	}
	return s.repo.Organization.Delete(id)
}

// CreateProcess 创建业务流程
func (s *Service) CreateProcess(ctx context.Context, orgID, name, description string) (*model.Process, error) {
	if _, err := s.repo.Organization.GetByID(orgID); err != nil {
		return nil, err
	}
	p := &model.Process{
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
	}
	if err := s.repo.Organization.CreateProcess(p); err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}
	return p, nil
}

// ListProcesses 列出业务流程
func (s *Service) ListProcesses(ctx context.Context, orgID string) ([]*model.Process, error) {
	return s.repo.Organization.ListProcesses(orgID)
}

var knownPermissions = map[string]bool{
	model.PermissionManageUsers:     true,
	model.PermissionManageBatches:   true,
	model.PermissionManageQuizzes:   true,
	model.PermissionManageTemplates: true,
	model.PermissionAllocateAudio:   true,
	model.PermissionEvaluate:        true,
	model.PermissionReviewFeedback:  true,
}

// GrantPermission 授予角色权限
func (s *Service) GrantPermission(ctx context.Context, orgID, role, permission string) error {
	if !knownPermissions[permission] {
		return fmt.Errorf("unknown permission %q", permission)
	}
	return s.repo.Organization.GrantPermission(&model.RolePermission{
		OrganizationID: orgID,
		Role:           role,
		Permission:     permission,
	})
}

// RevokePermission 收回角色权限
func (s *Service) RevokePermission(ctx context.Context, orgID, role, permission string) error {
	return s.repo.Organization.RevokePermission(orgID, role, permission)
}

// ListPermissions 列出角色权限
func (s *Service) ListPermissions(ctx context.Context, orgID, role string) ([]string, error) {
	return s.repo.Organization.ListPermissions(orgID, role)
}

// ListUsersByRole 列出组织内指定角色的用户
func (s *Service) ListUsersByRole(ctx context.Context, orgID, role string) ([]*model.User, error) {
	return s.repo.Auth.ListUsersByRole(orgID, role)
}
