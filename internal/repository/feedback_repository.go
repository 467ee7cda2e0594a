package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// FeedbackRepository 评估反馈数据访问
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建反馈仓库
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateTx 在事务内创建反馈
func (r *FeedbackRepository) CreateTx(tx *gorm.DB, feedback *model.EvaluationFeedback) error {
	return tx.Create(feedback).Error
}

// GetByID 获取反馈
func (r *FeedbackRepository) GetByID(id string) (*model.EvaluationFeedback, error) {
	var feedback model.EvaluationFeedback
	err := r.db.Where("id = ?", id).First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// GetByEvaluationID 按评估获取反馈
func (r *FeedbackRepository) GetByEvaluationID(evaluationID string) (*model.EvaluationFeedback, error) {
	var feedback model.EvaluationFeedback
	err := r.db.Where("evaluation_id = ?", evaluationID).First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListByAgent 列出坐席名下的反馈
func (r *FeedbackRepository) ListByAgent(agentID string, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return r.list(r.db.Where("agent_id = ?", agentID), status, limit, offset)
}

// ListByReportingHead 列出上级名下的反馈
func (r *FeedbackRepository) ListByReportingHead(headID string, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return r.list(r.db.Where("reporting_head_id = ?", headID), status, limit, offset)
}

// ListByTrainee 列出学员名下的反馈
func (r *FeedbackRepository) ListByTrainee(traineeID string, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return r.list(r.db.Where("trainee_id = ?", traineeID), status, limit, offset)
}

func (r *FeedbackRepository) list(query *gorm.DB, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	var feedbacks []*model.EvaluationFeedback
	var total int64

	query = query.Model(&model.EvaluationFeedback{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&feedbacks).Error
	return feedbacks, total, err
}

// Update 更新反馈
func (r *FeedbackRepository) Update(feedback *model.EvaluationFeedback) error {
	return r.db.Save(feedback).Error
}
