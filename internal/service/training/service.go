// Package training 提供培训批次、阶段与学员的管理
package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
)

var (
	// ErrBatchNotOngoing 批次不在进行中
	ErrBatchNotOngoing = errors.New("batch is not ongoing")
	// ErrPhaseOrder 阶段必须按顺序推进
	ErrPhaseOrder = errors.New("phases must be completed in sequence")
)

// Service 培训服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建培训服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// ========== 批次 ==========

// PhaseInput 阶段定义
type PhaseInput struct {
	Name         string `json:"name" binding:"required"`
	DurationDays int    `json:"duration_days"`
}

// CreateBatchRequest 创建批次请求
type CreateBatchRequest struct {
	OrganizationID string
	ProcessID      string       `json:"process_id"`
	Name           string       `json:"name" binding:"required"`
	TrainerID      string       `json:"trainer_id"`
	StartDate      *time.Time   `json:"start_date"`
	EndDate        *time.Time   `json:"end_date"`
	Phases         []PhaseInput `json:"phases"`
}

// CreateBatch 创建批次及其阶段
func (s *Service) CreateBatch(ctx context.Context, req *CreateBatchRequest) (*model.Batch, error) {
	batch := &model.Batch{
		OrganizationID: req.OrganizationID,
		ProcessID:      req.ProcessID,
		Name:           req.Name,
		TrainerID:      req.TrainerID,
		Status:         model.BatchStatusPlanned,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	for i, p := range req.Phases {
		batch.Phases = append(batch.Phases, model.BatchPhase{
			Name:         p.Name,
			Sequence:     i,
			DurationDays: p.DurationDays,
			Status:       model.PhaseStatusPending,
		})
	}

	if err := s.repo.Training.CreateBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// GetBatch 获取批次
func (s *Service) GetBatch(ctx context.Context, id string) (*model.Batch, error) {
	return s.repo.Training.GetBatchByID(id)
}

// ListBatches 列出批次
func (s *Service) ListBatches(ctx context.Context, orgID, status string, limit, offset int) ([]*model.Batch, int64, error) {
	return s.repo.Training.ListBatches(orgID, status, limit, offset)
}

// StartBatch 开始批次，第一个阶段进入进行中
func (s *Service) StartBatch(ctx context.Context, id string) (*model.Batch, error) {
	batch, err := s.repo.Training.GetBatchByID(id)
	if err != nil {
		return nil, err
	}
	if batch.Status != model.BatchStatusPlanned {
		return nil, fmt.Errorf("batch is %s, only planned batches can start", batch.Status)
	}

	now := time.Now()
	batch.Status = model.BatchStatusOngoing
	if batch.StartDate == nil {
		batch.StartDate = &now
	}
	if len(batch.Phases) > 0 {
		first := &batch.Phases[0]
		first.Status = model.PhaseStatusActive
		first.StartedAt = &now
		if err := s.repo.Training.UpdatePhase(first); err != nil {
			return nil, err
		}
	}

	batch.Phases = nil
	batch.Trainees = nil
	if err := s.repo.Training.UpdateBatch(batch); err != nil {
		return nil, err
	}
	return s.repo.Training.GetBatchByID(id)
}

// CompleteBatch 结束批次
func (s *Service) CompleteBatch(ctx context.Context, id string) (*model.Batch, error) {
	batch, err := s.repo.Training.GetBatchByID(id)
	if err != nil {
		return nil, err
	}
	if batch.Status != model.BatchStatusOngoing {
		return nil, ErrBatchNotOngoing
	}

	now := time.Now()
	batch.Status = model.BatchStatusCompleted
	if batch.EndDate == nil {
		batch.EndDate = &now
	}
	batch.Phases = nil
	batch.Trainees = nil
	if err := s.repo.Training.UpdateBatch(batch); err != nil {
		return nil, err
	}
	return s.repo.Training.GetBatchByID(id)
}

// CompletePhase 完成当前阶段并激活下一阶段
// 只有处于进行中的阶段可以完成，保证阶段按顺序推进
func (s *Service) CompletePhase(ctx context.Context, phaseID string) (*model.BatchPhase, error) {
	phase, err := s.repo.Training.GetPhaseByID(phaseID)
	if err != nil {
		return nil, err
	}
	if phase.Status != model.PhaseStatusActive {
		return nil, ErrPhaseOrder
	}

	now := time.Now()
	phase.Status = model.PhaseStatusCompleted
	phase.CompletedAt = &now
	if err := s.repo.Training.UpdatePhase(phase); err != nil {
		return nil, err
	}

	// 激活下一阶段
	phases, err := s.repo.Training.ListPhases(phase.BatchID)
	if err != nil {
		return phase, nil
	}
	for _, p := range phases {
		if p.Sequence == phase.Sequence+1 && p.Status == model.PhaseStatusPending {
			p.Status = model.PhaseStatusActive
			p.StartedAt = &now
			if err := s.repo.Training.UpdatePhase(p); err != nil {
				return nil, err
			}
			break
		}
	}
	return phase, nil
}

// ========== 学员 ==========

// TraineeInput 学员定义
type TraineeInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_code"`
	ManagerID    string `json:"manager_id"`
	UserID       string `json:"user_id"`
}

// AddTrainees 批量向批次添加学员
func (s *Service) AddTrainees(ctx context.Context, batchID string, inputs []TraineeInput) ([]*model.Trainee, error) {
	batch, err := s.repo.Training.GetBatchByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status == model.BatchStatusCompleted {
		return nil, errors.New("cannot add trainees to a completed batch")
	}

	trainees := make([]*model.Trainee, 0, len(inputs))
	for _, in := range inputs {
		trainees = append(trainees, &model.Trainee{
			OrganizationID: batch.OrganizationID,
			BatchID:        batchID,
			UserID:         in.UserID,
			Name:           in.Name,
			Email:          in.Email,
			EmployeeCode:   in.EmployeeCode,
			ManagerID:      in.ManagerID,
			Status:         model.TraineeStatusActive,
		})
	}
	if err := s.repo.Training.CreateTrainees(trainees); err != nil {
		return nil, fmt.Errorf("failed to add trainees: %w", err)
	}
	return trainees, nil
}

// GetTrainee 获取学员
func (s *Service) GetTrainee(ctx context.Context, id string) (*model.Trainee, error) {
	return s.repo.Training.GetTraineeByID(id)
}

// ListTrainees 列出批次学员
func (s *Service) ListTrainees(ctx context.Context, batchID, status string, limit, offset int) ([]*model.Trainee, int64, error) {
	return s.repo.Training.ListTrainees(batchID, status, limit, offset)
}

// UpdateTraineeStatus 更新学员状态（认证/退出）
func (s *Service) UpdateTraineeStatus(ctx context.Context, id string, status model.TraineeStatus) (*model.Trainee, error) {
	switch status {
	case model.TraineeStatusActive, model.TraineeStatusCertified, model.TraineeStatusDropped:
	default:
		return nil, fmt.Errorf("invalid trainee status %q", status)
	}

	trainee, err := s.repo.Training.GetTraineeByID(id)
	if err != nil {
		return nil, err
	}
	trainee.Status = status
	if err := s.repo.Training.UpdateTrainee(trainee); err != nil {
		return nil, err
	}
	return trainee, nil
}

// RemoveTrainee 从批次移除学员
func (s *Service) RemoveTrainee(ctx context.Context, id string) error {
	if _, err := s.repo.Training.GetTraineeByID(id); err != nil {
		return err
	}
	return s.repo.Training.DeleteTrainee(id)
}
