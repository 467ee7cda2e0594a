// Package evaluation 提供评估提交与查询
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
	"github.com/ashwinyue/next-qa/internal/service/audioimport"
	"github.com/ashwinyue/next-qa/internal/service/scoring"
	"github.com/ashwinyue/next-qa/internal/service/session"
)

var (
	// ErrTemplateNotActive 模板未启用，不能用于评估
	ErrTemplateNotActive = errors.New("evaluation template is not active")
	// ErrAllocationNotOpen 分配记录不在待评估状态
	ErrAllocationNotOpen = errors.New("allocation is not open for evaluation")
	// ErrNotAllocationOwner 评估人不是该分配的质检分析师
	ErrNotAllocationOwner = errors.New("evaluator does not own this allocation")
)

// Service 评估服务
type Service struct {
	repo   *repository.Repositories
	drafts *session.Manager
}

// NewService 创建评估服务
func NewService(repo *repository.Repositories, drafts *session.Manager) *Service {
	return &Service{repo: repo, drafts: drafts}
}

// SubmitRequest 评估提交请求
type SubmitRequest struct {
	OrganizationID string
	EvaluatorID    string
	TemplateID     string           `json:"template_id"` // 为空时取组织当前启用模板
	Type           string           `json:"type"`        // trainee | audio
	TraineeID      string           `json:"trainee_id"`
	BatchID        string           `json:"batch_id"`
	AllocationID   string           `json:"allocation_id"` // 录音评估必填
	Ratings        []scoring.Rating `json:"ratings" binding:"required"`
}

// SubmitResponse 评估提交结果
type SubmitResponse struct {
	Evaluation    *model.Evaluation `json:"evaluation"`
	FinalScore    float64           `json:"final_score"`
	RawScore      float64           `json:"raw_score"`
	HasFatalError bool              `json:"has_fatal_error"`
	FeedbackID    string            `json:"feedback_id,omitempty"`
}

// Submit 提交评估
// 评分、评估落库、分配与文件状态流转、低分反馈创建在同一事务内完成
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	if req.Type == string(model.EvaluationTypeAudio) && req.AllocationID == "" {
		return nil, fmt.Errorf("%w: allocation_id is required for audio evaluations", scoring.ErrValidation)
	}

	template, err := s.resolveTemplate(req)
	if err != nil {
		return nil, err
	}
	if template.Status != model.TemplateStatusActive {
		return nil, ErrTemplateNotActive
	}

	result, err := scoring.Score(template, req.Ratings)
	if err != nil {
		return nil, err
	}

	evaluation := &model.Evaluation{
		OrganizationID: req.OrganizationID,
		TemplateID:     template.ID,
		Type:           model.EvaluationTypeTrainee,
		TraineeID:      req.TraineeID,
		BatchID:        req.BatchID,
		EvaluatorID:    req.EvaluatorID,
		FinalScore:     result.FinalScore,
		RawScore:       result.RawScore,
		HasFatalError:  result.HasFatalError,
		Status:         model.EvaluationStatusSubmitted,
	}
	for _, p := range result.Parameters {
		evaluation.Scores = append(evaluation.Scores, model.EvaluationScore{
			ParameterID: p.ParameterID,
			Rating:      p.Rating,
			Achieved:    p.Achieved,
			Excluded:    p.Excluded,
			Comment:     p.Comment,
			NoReason:    p.NoReason,
		})
	}

	// 录音评估：校验分配记录并补充坐席信息
	var alloc *model.AudioFileAllocation
	var audioFile *model.AudioFile
	if req.AllocationID != "" {
		alloc, err = s.repo.Audio.GetAllocationByID(req.AllocationID)
		if err != nil {
			return nil, err
		}
		if alloc.Status != model.AllocationStatusAllocated {
			return nil, ErrAllocationNotOpen
		}
		if alloc.AnalystID != req.EvaluatorID {
			return nil, ErrNotAllocationOwner
		}
		audioFile, err = s.repo.Audio.GetByID(alloc.AudioFileID)
		if err != nil {
			return nil, err
		}
		evaluation.Type = model.EvaluationTypeAudio
		evaluation.AudioFileID = audioFile.ID
		evaluation.AgentID = s.resolveAgentID(req.OrganizationID, audioFile)
	}

	lowScore := feedbackTriggered(template.FeedbackThreshold, result.FinalScore)
	if lowScore || result.HasFatalError {
		evaluation.Status = model.EvaluationStatusFailed
	}

	var feedbackID string
	err = s.repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Evaluation.CreateTx(tx, evaluation); err != nil {
			return err
		}

		if alloc != nil {
			alloc.Status = model.AllocationStatusEvaluated
			alloc.EvaluationID = evaluation.ID
			if err := s.repo.Audio.UpdateAllocationTx(tx, alloc); err != nil {
				return err
			}
			if err := tx.Model(&model.AudioFile{}).Where("id = ?", audioFile.ID).
				Updates(map[string]interface{}{
					"status":        model.AudioFileStatusEvaluated,
					"evaluation_id": evaluation.ID,
				}).Error; err != nil {
				return err
			}
		}

		// 低于阈值才触发反馈，等于阈值不触发
		if lowScore {
			feedback := s.buildFeedback(evaluation)
			if feedback != nil {
				if err := s.repo.Feedback.CreateTx(tx, feedback); err != nil {
					return err
				}
				feedbackID = feedback.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist evaluation: %w", err)
	}

	// 提交成功后清除草稿
	if s.drafts != nil && req.AllocationID != "" {
		_ = s.drafts.Clear(ctx, req.AllocationID)
	}

	return &SubmitResponse{
		Evaluation:    evaluation,
		FinalScore:    result.FinalScore,
		RawScore:      result.RawScore,
		HasFatalError: result.HasFatalError,
		FeedbackID:    feedbackID,
	}, nil
}

// feedbackTriggered 判断最终得分是否触发反馈流程
// 阈值为空时永不触发，得分等于阈值不触发
func feedbackTriggered(threshold *float64, finalScore float64) bool {
	return threshold != nil && finalScore < *threshold
}

// resolveTemplate 取指定模板或组织当前启用模板
func (s *Service) resolveTemplate(req *SubmitRequest) (*model.EvaluationTemplate, error) {
	if req.TemplateID != "" {
		return s.repo.Template.GetByID(req.TemplateID)
	}
	return s.repo.Template.GetActive(req.OrganizationID)
}

// resolveAgentID 从录音元数据解析坐席用户
func (s *Service) resolveAgentID(orgID string, file *model.AudioFile) string {
	code := audioimport.AgentIdentifier(file.Metadata)
	if code == "" {
		return ""
	}
	agent, err := s.repo.Auth.GetUserByEmployeeCode(orgID, code)
	if err != nil {
		return ""
	}
	return agent.ID
}

// buildFeedback 构造反馈记录并解析接收人
// 解析失败时不创建反馈，只记录日志
func (s *Service) buildFeedback(evaluation *model.Evaluation) *model.EvaluationFeedback {
	feedback := &model.EvaluationFeedback{
		EvaluationID: evaluation.ID,
		TraineeID:    evaluation.TraineeID,
		AgentID:      evaluation.AgentID,
		Status:       model.FeedbackStatusPending,
	}

	switch {
	case evaluation.TraineeID != "":
		trainee, err := s.repo.Training.GetTraineeByID(evaluation.TraineeID)
		if err != nil {
			log.Printf("feedback skipped: trainee %s not found: %v", evaluation.TraineeID, err)
			return nil
		}
		if trainee.ManagerID != "" {
			feedback.ReportingHeadID = trainee.ManagerID
		} else {
			feedback.ReportingHeadID = evaluation.EvaluatorID
		}
	case evaluation.AgentID != "":
		agent, err := s.repo.Auth.GetUserByID(evaluation.AgentID)
		if err != nil {
			log.Printf("feedback skipped: agent %s not found: %v", evaluation.AgentID, err)
			return nil
		}
		if agent.ManagerID != "" {
			feedback.ReportingHeadID = agent.ManagerID
		} else {
			feedback.ReportingHeadID = evaluation.EvaluatorID
		}
	default:
		log.Printf("feedback skipped: evaluation %s has no trainee or resolvable agent", evaluation.ID)
		return nil
	}

	return feedback
}

// Get 获取评估详情
func (s *Service) Get(ctx context.Context, id string) (*model.Evaluation, error) {
	return s.repo.Evaluation.GetByID(id)
}

// List 按条件列出评估
func (s *Service) List(ctx context.Context, orgID string, filter repository.EvaluationFilter, limit, offset int) ([]*model.Evaluation, int64, error) {
	return s.repo.Evaluation.List(orgID, filter, limit, offset)
}

// TraineeAverage 学员平均分
func (s *Service) TraineeAverage(ctx context.Context, traineeID string) (float64, error) {
	return s.repo.Evaluation.AverageScoreByTrainee(traineeID)
}

// SaveDraft 保存单项评分草稿
func (s *Service) SaveDraft(ctx context.Context, allocationID, analystID string, rating session.DraftRating) error {
	if s.drafts == nil {
		return errors.New("draft store is not configured")
	}
	return s.drafts.SaveRating(ctx, allocationID, analystID, rating)
}

// GetDraft 获取已保存的评分草稿
func (s *Service) GetDraft(ctx context.Context, allocationID string) ([]session.DraftRating, error) {
	if s.drafts == nil {
		return nil, errors.New("draft store is not configured")
	}
	return s.drafts.GetRatings(ctx, allocationID)
}
