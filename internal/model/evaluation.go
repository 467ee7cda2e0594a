// Package model 提供评估相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationType 评估类型
type EvaluationType string

const (
	EvaluationTypeTrainee EvaluationType = "trainee" // 学员评估
	EvaluationTypeAudio   EvaluationType = "audio"   // 录音评估
)

// EvaluationStatus 评估状态
type EvaluationStatus string

const (
	EvaluationStatusSubmitted EvaluationStatus = "submitted" // 已提交
	EvaluationStatusFailed    EvaluationStatus = "failed"    // 低于阈值或触发致命项
)

// Evaluation 一次评估实例
type Evaluation struct {
	ID             string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string           `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	TemplateID     string           `json:"template_id" gorm:"type:varchar(36);not null;index"`
	Type           EvaluationType   `json:"type" gorm:"type:varchar(20);default:'trainee'"`
	TraineeID      string           `json:"trainee_id" gorm:"type:varchar(36);index"`
	AgentID        string           `json:"agent_id" gorm:"type:varchar(36);index"` // 录音评估时从通话元数据推断
	BatchID        string           `json:"batch_id" gorm:"type:varchar(36);index"`
	EvaluatorID    string           `json:"evaluator_id" gorm:"type:varchar(36);not null;index"`
	AudioFileID    string           `json:"audio_file_id" gorm:"type:varchar(36);index"`
	FinalScore     float64          `json:"final_score" gorm:"default:0"` // 0-100，两位小数
	RawScore       float64          `json:"raw_score" gorm:"default:0"`   // 致命项覆盖前的加权得分
	HasFatalError  bool             `json:"has_fatal_error" gorm:"default:false"`
	Status         EvaluationStatus `json:"status" gorm:"type:varchar(20);default:'submitted'"`

	Scores []EvaluationScore `json:"scores,omitempty" gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Evaluation) TableName() string {
	return "evaluations"
}

// EvaluationScore 单参数评分
type EvaluationScore struct {
	ID           string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	EvaluationID string  `json:"evaluation_id" gorm:"type:varchar(36);not null;index"`
	ParameterID  string  `json:"parameter_id" gorm:"type:varchar(36);not null;index"`
	Rating       string  `json:"rating" gorm:"type:varchar(100);not null"` // 原始评分值
	Achieved     float64 `json:"achieved" gorm:"default:0"`                // 换算后的 0-100 得分
	Excluded     bool    `json:"excluded" gorm:"default:false"`            // N/A 等被排除的参数
	Comment      string  `json:"comment,omitempty" gorm:"type:text"`
	NoReason     string  `json:"no_reason,omitempty" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子
func (s *EvaluationScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (EvaluationScore) TableName() string {
	return "evaluation_scores"
}

// FeedbackStatus 反馈状态
type FeedbackStatus string

const (
	FeedbackStatusPending  FeedbackStatus = "pending"  // 待处理
	FeedbackStatusAccepted FeedbackStatus = "accepted" // 上级通过
	FeedbackStatusRejected FeedbackStatus = "rejected" // 上级驳回
)

// EvaluationFeedback 低分评估触发的反馈流程
// 状态机：pending →（坐席回复，状态不变）→ accepted | rejected（上级操作为终态）
type EvaluationFeedback struct {
	ID              string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	EvaluationID    string         `json:"evaluation_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	TraineeID       string         `json:"trainee_id" gorm:"type:varchar(36);index"`
	AgentID         string         `json:"agent_id" gorm:"type:varchar(36);index"` // 反馈对象
	ReportingHeadID string         `json:"reporting_head_id" gorm:"type:varchar(36);not null;index"`
	Status          FeedbackStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	AgentResponse    string     `json:"agent_response,omitempty" gorm:"type:text"`
	AgentRespondedAt *time.Time `json:"agent_responded_at,omitempty"`
	HeadResponse     string     `json:"head_response,omitempty" gorm:"type:text"`
	HeadRespondedAt  *time.Time `json:"head_responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate GORM 钩子
func (f *EvaluationFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (EvaluationFeedback) TableName() string {
	return "evaluation_feedbacks"
}
