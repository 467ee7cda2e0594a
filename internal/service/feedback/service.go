// Package feedback 提供低分评估反馈的处理流程
package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
)

var (
	// ErrFeedbackClosed 反馈已被上级处理，进入终态
	ErrFeedbackClosed = errors.New("feedback is already closed")
	// ErrNotRecipient 操作人不是反馈的接收人
	ErrNotRecipient = errors.New("user is not the recipient of this feedback")
	// ErrInvalidDecision 上级处理结果只能是 accepted 或 rejected
	ErrInvalidDecision = errors.New("decision must be accepted or rejected")
)

// Service 反馈服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建反馈服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// Get 获取反馈
func (s *Service) Get(ctx context.Context, id string) (*model.EvaluationFeedback, error) {
	return s.repo.Feedback.GetByID(id)
}

// ListForAgent 坐席名下的反馈
func (s *Service) ListForAgent(ctx context.Context, agentID, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return s.repo.Feedback.ListByAgent(agentID, status, limit, offset)
}

// ListForHead 上级名下的反馈
func (s *Service) ListForHead(ctx context.Context, headID, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return s.repo.Feedback.ListByReportingHead(headID, status, limit, offset)
}

// ListForTrainee 学员名下的反馈
func (s *Service) ListForTrainee(ctx context.Context, traineeID, status string, limit, offset int) ([]*model.EvaluationFeedback, int64, error) {
	return s.repo.Feedback.ListByTrainee(traineeID, status, limit, offset)
}

// applyAgentResponse 坐席回复的状态转移，状态保持 pending
func applyAgentResponse(feedback *model.EvaluationFeedback, userID, response string, now time.Time) error {
	if feedback.Status != model.FeedbackStatusPending {
		return ErrFeedbackClosed
	}
	if feedback.AgentID != userID && feedback.TraineeID != userID {
		return ErrNotRecipient
	}
	feedback.AgentResponse = response
	feedback.AgentRespondedAt = &now
	return nil
}

// applyReview 上级处理的状态转移，accepted 或 rejected 为终态
func applyReview(feedback *model.EvaluationFeedback, headID, decision, response string, now time.Time) error {
	if decision != string(model.FeedbackStatusAccepted) && decision != string(model.FeedbackStatusRejected) {
		return ErrInvalidDecision
	}
	if feedback.Status != model.FeedbackStatusPending {
		return ErrFeedbackClosed
	}
	if feedback.ReportingHeadID != headID {
		return ErrNotRecipient
	}
	feedback.Status = model.FeedbackStatus(decision)
	feedback.HeadResponse = response
	feedback.HeadRespondedAt = &now
	return nil
}

// Respond 坐席回复反馈
func (s *Service) Respond(ctx context.Context, feedbackID, userID, response string) (*model.EvaluationFeedback, error) {
	feedback, err := s.repo.Feedback.GetByID(feedbackID)
	if err != nil {
		return nil, err
	}
	if err := applyAgentResponse(feedback, userID, response, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Feedback.Update(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Review 上级处理反馈
func (s *Service) Review(ctx context.Context, feedbackID, headID, decision, response string) (*model.EvaluationFeedback, error) {
	feedback, err := s.repo.Feedback.GetByID(feedbackID)
	if err != nil {
		return nil, err
	}
	if err := applyReview(feedback, headID, decision, response, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Feedback.Update(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}
