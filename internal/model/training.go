// Package model 提供培训批次相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchStatus 批次状态
type BatchStatus string

const (
	BatchStatusPlanned   BatchStatus = "planned"   // 未开始
	BatchStatusOngoing   BatchStatus = "ongoing"   // 进行中
	BatchStatusCompleted BatchStatus = "completed" // 已结束
)

// Batch 培训批次
type Batch struct {
	ID             string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string      `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	ProcessID      string      `json:"process_id" gorm:"type:varchar(36);index"`
	Name           string      `json:"name" gorm:"type:varchar(255);not null"`
	TrainerID      string      `json:"trainer_id" gorm:"type:varchar(36);index"`
	Status         BatchStatus `json:"status" gorm:"type:varchar(20);default:'planned'"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	EndDate        *time.Time  `json:"end_date,omitempty"`

	Phases   []BatchPhase `json:"phases,omitempty" gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	Trainees []Trainee    `json:"trainees,omitempty" gorm:"foreignKey:BatchID"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Batch) TableName() string {
	return "batches"
}

// PhaseStatus 阶段状态
type PhaseStatus string

const (
	PhaseStatusPending   PhaseStatus = "pending"   // 未开始
	PhaseStatusActive    PhaseStatus = "active"    // 进行中
	PhaseStatusCompleted PhaseStatus = "completed" // 已完成
)

// BatchPhase 培训阶段（按序推进）
type BatchPhase struct {
	ID           string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	BatchID      string      `json:"batch_id" gorm:"type:varchar(36);not null;index"`
	Name         string      `json:"name" gorm:"type:varchar(255);not null"`
	Sequence     int         `json:"sequence" gorm:"not null;default:0"` // 阶段顺序
	DurationDays int         `json:"duration_days" gorm:"default:0"`
	Status       PhaseStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate GORM 钩子
func (p *BatchPhase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (BatchPhase) TableName() string {
	return "batch_phases"
}

// TraineeStatus 学员状态
type TraineeStatus string

const (
	TraineeStatusActive    TraineeStatus = "active"    // 在训
	TraineeStatusCertified TraineeStatus = "certified" // 已认证
	TraineeStatusDropped   TraineeStatus = "dropped"   // 已退出
)

// Trainee 学员
type Trainee struct {
	ID             string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string        `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	BatchID        string        `json:"batch_id" gorm:"type:varchar(36);index"`
	UserID         string        `json:"user_id" gorm:"type:varchar(36);index"` // 关联用户（可为空）
	Name           string        `json:"name" gorm:"type:varchar(255);not null"`
	Email          string        `json:"email" gorm:"type:varchar(255);index"`
	EmployeeCode   string        `json:"employee_code" gorm:"type:varchar(100);index"`
	ManagerID      string        `json:"manager_id" gorm:"type:varchar(36);index"` // 汇报上级
	Status         TraineeStatus `json:"status" gorm:"type:varchar(20);default:'active'"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (t *Trainee) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Trainee) TableName() string {
	return "trainees"
}
