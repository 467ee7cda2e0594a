package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// TrainingRepository 培训批次数据访问
type TrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository 创建培训仓库
func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// ========== 批次 ==========

// CreateBatch 创建批次
func (r *TrainingRepository) CreateBatch(batch *model.Batch) error {
	return r.db.Create(batch).Error
}

// GetBatchByID 获取批次（含阶段）
func (r *TrainingRepository) GetBatchByID(id string) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.Preload("Phases", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence")
	}).Where("id = ?", id).First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches 列出组织的批次
func (r *TrainingRepository) ListBatches(orgID string, status string, limit, offset int) ([]*model.Batch, int64, error) {
	var batches []*model.Batch
	var total int64

	query := r.db.Model(&model.Batch{}).Where("organization_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&batches).Error
	return batches, total, err
}

// UpdateBatch 更新批次
func (r *TrainingRepository) UpdateBatch(batch *model.Batch) error {
	return r.db.Save(batch).Error
}

// DeleteBatch 删除批次
func (r *TrainingRepository) DeleteBatch(id string) error {
	return r.db.Delete(&model.Batch{}, "id = ?", id).Error
}

// ========== 阶段 ==========

// CreatePhase 创建批次阶段
func (r *TrainingRepository) CreatePhase(phase *model.BatchPhase) error {
	return r.db.Create(phase).Error
}

// GetPhaseByID 获取阶段
func (r *TrainingRepository) GetPhaseByID(id string) (*model.BatchPhase, error) {
	var phase model.BatchPhase
	err := r.db.Where("id = ?", id).First(&phase).Error
	if err != nil {
		return nil, err
	}
	return &phase, nil
}

// ListPhases 按顺序列出批次的阶段
func (r *TrainingRepository) ListPhases(batchID string) ([]*model.BatchPhase, error) {
	var phases []*model.BatchPhase
	err := r.db.Where("batch_id = ?", batchID).Order("sequence").Find(&phases).Error
	return phases, err
}

// UpdatePhase 更新阶段
func (r *TrainingRepository) UpdatePhase(phase *model.BatchPhase) error {
	return r.db.Save(phase).Error
}

// ========== 学员 ==========

// CreateTrainee 创建学员
func (r *TrainingRepository) CreateTrainee(trainee *model.Trainee) error {
	return r.db.Create(trainee).Error
}

// CreateTrainees 批量创建学员
func (r *TrainingRepository) CreateTrainees(trainees []*model.Trainee) error {
	if len(trainees) == 0 {
		return nil
	}
	return r.db.Create(trainees).Error
}

// GetTraineeByID 获取学员
func (r *TrainingRepository) GetTraineeByID(id string) (*model.Trainee, error) {
	var trainee model.Trainee
	err := r.db.Where("id = ?", id).First(&trainee).Error
	if err != nil {
		return nil, err
	}
	return &trainee, nil
}

// ListTrainees 列出批次的学员
func (r *TrainingRepository) ListTrainees(batchID string, status string, limit, offset int) ([]*model.Trainee, int64, error) {
	var trainees []*model.Trainee
	var total int64

	query := r.db.Model(&model.Trainee{}).Where("batch_id = ?", batchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&trainees).Error
	return trainees, total, err
}

// UpdateTrainee 更新学员
func (r *TrainingRepository) UpdateTrainee(trainee *model.Trainee) error {
	return r.db.Save(trainee).Error
}

// DeleteTrainee 删除学员
func (r *TrainingRepository) DeleteTrainee(id string) error {
	return r.db.Delete(&model.Trainee{}, "id = ?", id).Error
}
