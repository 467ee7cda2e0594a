package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// OrganizationRepository 组织数据访问
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository 创建组织仓库
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create 创建组织
func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.db.Create(org).Error
}

// GetByID 获取组织
func (r *OrganizationRepository) GetByID(id string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// List 列出组织
func (r *OrganizationRepository) List(limit, offset int) ([]*model.Organization, int64, error) {
	var orgs []*model.Organization
	var total int64

	query := r.db.Model(&model.Organization{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&orgs).Error
	return orgs, total, err
}

// Update 更新组织
func (r *OrganizationRepository) Update(org *model.Organization) error {
	return r.db.Save(org).Error
}

// Delete 删除组织
func (r *OrganizationRepository) Delete(id string) error {
	return r.db.Delete(&model.Organization{}, "id = ?", id).Error
}

// CreateProcess 创建业务流程
func (r *OrganizationRepository) CreateProcess(p *model.Process) error {
	return r.db.Create(p).Error
}

// GetProcessByID 获取业务流程
func (r *OrganizationRepository) GetProcessByID(id string) (*model.Process, error) {
	var p model.Process
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProcesses 列出组织的业务流程
func (r *OrganizationRepository) ListProcesses(orgID string) ([]*model.Process, error) {
	var processes []*model.Process
	err := r.db.Where("organization_id = ?", orgID).Order("name").Find(&processes).Error
	return processes, err
}

// GrantPermission 授予角色权限（幂等）
func (r *OrganizationRepository) GrantPermission(p *model.RolePermission) error {
	return r.db.Where("organization_id = ? AND role = ? AND permission = ?",
		p.OrganizationID, p.Role, p.Permission).FirstOrCreate(p).Error
}

// RevokePermission 收回角色权限
func (r *OrganizationRepository) RevokePermission(orgID, role, permission string) error {
	return r.db.Where("organization_id = ? AND role = ? AND permission = ?", orgID, role, permission).
		Delete(&model.RolePermission{}).Error
}

// ListPermissions 列出角色的全部权限
func (r *OrganizationRepository) ListPermissions(orgID, role string) ([]string, error) {
	var permissions []string
	err := r.db.Model(&model.RolePermission{}).
		Where("organization_id = ? AND role = ?", orgID, role).
		Pluck("permission", &permissions).Error
	return permissions, err
}

// HasPermission 判断角色是否拥有权限
func (r *OrganizationRepository) HasPermission(orgID, role, permission string) (bool, error) {
	var count int64
	err := r.db.Model(&model.RolePermission{}).
		Where("organization_id = ? AND role = ? AND permission = ?", orgID, role, permission).
		Count(&count).Error
	return count > 0, err
}
