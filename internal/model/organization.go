// Package model 提供组织相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization 组织
type Organization struct {
	ID          string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Status      string         `json:"status" gorm:"type:varchar(50);default:'active'"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Organization) TableName() string {
	return "organizations"
}

// Process 业务流程（评估模板、批次归属的业务线）
type Process struct {
	ID             string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string         `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Description    string         `json:"description" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (p *Process) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Process) TableName() string {
	return "processes"
}

// 权限项
const (
	PermissionManageUsers     = "manage_users"     // 用户管理
	PermissionManageBatches   = "manage_batches"   // 批次管理
	PermissionManageQuizzes   = "manage_quizzes"   // 测验管理
	PermissionManageTemplates = "manage_templates" // 评估模板管理
	PermissionAllocateAudio   = "allocate_audio"   // 录音分配
	PermissionEvaluate        = "evaluate"         // 提交评估
	PermissionReviewFeedback  = "review_feedback"  // 反馈审批
)

// RolePermission 角色权限
type RolePermission struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"type:varchar(36);not null;index:idx_role_permission,unique"`
	Role           string    `json:"role" gorm:"type:varchar(50);not null;index:idx_role_permission,unique"`
	Permission     string    `json:"permission" gorm:"type:varchar(100);not null;index:idx_role_permission,unique"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子
func (p *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (RolePermission) TableName() string {
	return "role_permissions"
}
