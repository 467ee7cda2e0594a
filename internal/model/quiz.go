// Package model 提供测验相关的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizStatus 测验状态
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"     // 草稿
	QuizStatusPublished QuizStatus = "published" // 已发布
	QuizStatusArchived  QuizStatus = "archived"  // 已归档
)

// Quiz 测验
type Quiz struct {
	ID             string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationID string     `json:"organization_id" gorm:"type:varchar(36);not null;index"`
	BatchID        string     `json:"batch_id" gorm:"type:varchar(36);index"`
	PhaseID        string     `json:"phase_id" gorm:"type:varchar(36);index"`
	Title          string     `json:"title" gorm:"type:varchar(255);not null"`
	Description    string     `json:"description" gorm:"type:text"`
	PassPercentage float64    `json:"pass_percentage" gorm:"default:60"` // 及格线 0-100
	Status         QuizStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目（单选）
type QuizQuestion struct {
	ID            string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	QuizID        string     `json:"quiz_id" gorm:"type:varchar(36);not null;index"`
	Text          string     `json:"text" gorm:"type:text;not null"`
	Options       StringList `json:"options" gorm:"type:jsonb;not null"`
	CorrectOption int        `json:"-" gorm:"not null"` // 正确选项下标，不下发给学员
	Marks         float64    `json:"marks" gorm:"default:1"`
	Sequence      int        `json:"sequence" gorm:"default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate GORM 钩子
func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt 测验作答记录
type QuizAttempt struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	QuizID      string    `json:"quiz_id" gorm:"type:varchar(36);not null;index"`
	TraineeID   string    `json:"trainee_id" gorm:"type:varchar(36);not null;index"`
	Score       float64   `json:"score" gorm:"default:0"` // 得分
	TotalMarks  float64   `json:"total_marks" gorm:"default:0"`
	Percentage  float64   `json:"percentage" gorm:"default:0"` // 百分比 0-100
	Passed      bool      `json:"passed" gorm:"default:false"`
	SubmittedAt time.Time `json:"submitted_at"`

	Answers []QuizAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子
func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAnswer 单题作答
type QuizAnswer struct {
	ID             string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	AttemptID      string  `json:"attempt_id" gorm:"type:varchar(36);not null;index"`
	QuestionID     string  `json:"question_id" gorm:"type:varchar(36);not null"`
	SelectedOption int     `json:"selected_option"`
	Correct        bool    `json:"correct" gorm:"default:false"`
	MarksAwarded   float64 `json:"marks_awarded" gorm:"default:0"`
}

// BeforeCreate GORM 钩子
func (a *QuizAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
