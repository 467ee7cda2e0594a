// Package model 提供录音文件相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AudioFileStatus 录音文件状态
type AudioFileStatus string

const (
	AudioFileStatusPending   AudioFileStatus = "pending"   // 待分配
	AudioFileStatusAllocated AudioFileStatus = "allocated" // 已分配
	AudioFileStatusEvaluated AudioFileStatus = "evaluated" // 已评估
	AudioFileStatusArchived  AudioFileStatus = "archived"  // 已归档
)

// AudioFile 通话录音文件
type AudioFile struct {
	ID             string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string          `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	BatchID        string          `json:"batch_id" gorm:"type:varchar(36);index"`
	Filename       string          `json:"filename" gorm:"type:varchar(500);not null;index"`
	ContainerName  string          `json:"container_name" gorm:"type:varchar(255);index"`
	StorageURL     string          `json:"storage_url" gorm:"type:text"`
	DurationSecs   float64         `json:"duration_secs" gorm:"default:0"`
	Language       string          `json:"language" gorm:"type:varchar(50)"`
	Version        string          `json:"version" gorm:"type:varchar(50)"`
	CallDate       *time.Time      `json:"call_date,omitempty"`
	Metadata       JSONMap         `json:"metadata" gorm:"type:jsonb"` // 规范化后的通话元数据
	Status         AudioFileStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	EvaluationID   string          `json:"evaluation_id" gorm:"type:varchar(36);index"` // 评分后回填

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (f *AudioFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (AudioFile) TableName() string {
	return "audio_files"
}

// AllocationStatus 分配记录状态
type AllocationStatus string

const (
	AllocationStatusAllocated AllocationStatus = "allocated" // 待评估
	AllocationStatusEvaluated AllocationStatus = "evaluated" // 已评估
	AllocationStatusCancelled AllocationStatus = "cancelled" // 已取消
)

// AudioFileAllocation 录音分配记录
// 约束：同一录音最多存在一条未取消的分配
type AudioFileAllocation struct {
	ID           string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	AudioFileID  string           `json:"audio_file_id" gorm:"type:varchar(36);not null;index"`
	AnalystID    string           `json:"analyst_id" gorm:"type:varchar(36);not null;index"` // 质检分析师
	AllocatedBy  string           `json:"allocated_by" gorm:"type:varchar(36);not null"`
	TemplateID   string           `json:"template_id" gorm:"type:varchar(36);index"`
	EvaluationID string           `json:"evaluation_id" gorm:"type:varchar(36);index"` // 提交评估后回填
	DueDate      *time.Time       `json:"due_date,omitempty"`
	Status       AllocationStatus `json:"status" gorm:"type:varchar(20);default:'allocated';index"`

	AudioFile *AudioFile `json:"audio_file,omitempty" gorm:"foreignKey:AudioFileID"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (a *AudioFileAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (AudioFileAllocation) TableName() string {
	return "audio_file_allocations"
}
