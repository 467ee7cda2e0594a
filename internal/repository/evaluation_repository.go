package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// EvaluationRepository 评估数据访问
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository 创建评估仓库
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// DB 返回底层连接，供服务层开启事务
func (r *EvaluationRepository) DB() *gorm.DB {
	return r.db
}

// CreateTx 在事务内创建评估及其明细
func (r *EvaluationRepository) CreateTx(tx *gorm.DB, evaluation *model.Evaluation) error {
	return tx.Create(evaluation).Error
}

// GetByID 获取评估（含明细）
func (r *EvaluationRepository) GetByID(id string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.Preload("Scores").Where("id = ?", id).First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// List 列出组织的评估
func (r *EvaluationRepository) List(orgID string, filter EvaluationFilter, limit, offset int) ([]*model.Evaluation, int64, error) {
	var evaluations []*model.Evaluation
	var total int64

	query := r.db.Model(&model.Evaluation{}).Where("organization_id = ?", orgID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.TraineeID != "" {
		query = query.Where("trainee_id = ?", filter.TraineeID)
	}
	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.EvaluatorID != "" {
		query = query.Where("evaluator_id = ?", filter.EvaluatorID)
	}
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&evaluations).Error
	return evaluations, total, err
}

// EvaluationFilter 评估列表过滤条件
type EvaluationFilter struct {
	Type        string
	TraineeID   string
	AgentID     string
	EvaluatorID string
	BatchID     string
}

// AverageScoreByTrainee 学员的平均最终得分
func (r *EvaluationRepository) AverageScoreByTrainee(traineeID string) (float64, error) {
	var avg float64
	err := r.db.Model(&model.Evaluation{}).
		Where("trainee_id = ?", traineeID).
		Select("COALESCE(AVG(final_score), 0)").
		Scan(&avg).Error
	return avg, err
}
