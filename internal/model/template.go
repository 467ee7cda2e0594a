// Package model 提供评估模板相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateStatus 模板状态
type TemplateStatus string

const (
	TemplateStatusDraft    TemplateStatus = "draft"    // 草稿
	TemplateStatusActive   TemplateStatus = "active"   // 启用
	TemplateStatusArchived TemplateStatus = "archived" // 已归档
)

// RatingType 参数评分类型
type RatingType string

const (
	RatingTypeYesNoNA RatingType = "yes_no_na" // 是/否/不适用
	RatingTypeNumeric RatingType = "numeric"   // 1-5 数值
	RatingTypeCustom  RatingType = "custom"    // 自定义映射
)

// yes_no_na 评分值
const (
	RatingYes = "yes"
	RatingNo  = "no"
	RatingNA  = "na"
)

// EvaluationTemplate 评估模板
type EvaluationTemplate struct {
	ID             string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string         `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	ProcessID      string         `json:"process_id" gorm:"type:varchar(36);index"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Status         TemplateStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// 反馈阈值 0-100，为空表示从不触发反馈
	FeedbackThreshold *float64 `json:"feedback_threshold,omitempty"`

	Pillars []Pillar `json:"pillars,omitempty" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (t *EvaluationTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (EvaluationTemplate) TableName() string {
	return "evaluation_templates"
}

// Pillar 评估维度（加权类别）
// 各维度权重合计按约定为 100，不做强制校验
type Pillar struct {
	ID         string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	TemplateID string  `json:"template_id" gorm:"type:varchar(36);not null;index"`
	Name       string  `json:"name" gorm:"type:varchar(255);not null"`
	Weightage  float64 `json:"weightage" gorm:"default:0"` // 0-100
	Sequence   int     `json:"sequence" gorm:"default:0"`

	Parameters []Parameter `json:"parameters,omitempty" gorm:"foreignKey:PillarID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate GORM 钩子
func (p *Pillar) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Pillar) TableName() string {
	return "pillars"
}

// Parameter 评估参数（单项评分标准）
type Parameter struct {
	ID               string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	PillarID         string     `json:"pillar_id" gorm:"type:varchar(36);not null;index"`
	Name             string     `json:"name" gorm:"type:varchar(255);not null"`
	RatingType       RatingType `json:"rating_type" gorm:"type:varchar(20);default:'yes_no_na'"`
	Weightage        float64    `json:"weightage" gorm:"default:0"` // 0-100
	WeightageEnabled bool       `json:"weightage_enabled" gorm:"default:true"`
	IsFatal          bool       `json:"is_fatal" gorm:"default:false"`         // 致命项
	RequiresComment  bool       `json:"requires_comment" gorm:"default:false"` // 必须填写备注
	NoReasons        StringList `json:"no_reasons,omitempty" gorm:"type:jsonb"`
	CustomRatings    ScoreMap   `json:"custom_ratings,omitempty" gorm:"type:jsonb"` // custom 类型的评分映射
	Sequence         int        `json:"sequence" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate GORM 钩子
func (p *Parameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Parameter) TableName() string {
	return "parameters"
}
