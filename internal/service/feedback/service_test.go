// Package feedback 提供反馈状态机单元测试
package feedback

import (
	"errors"
	"testing"
	"time"

	"github.com/ashwinyue/next-qa/internal/model"
)

func pendingFeedback() *model.EvaluationFeedback {
	return &model.EvaluationFeedback{
		ID:              "fb-1",
		EvaluationID:    "eval-1",
		AgentID:         "agent-1",
		TraineeID:       "trainee-1",
		ReportingHeadID: "head-1",
		Status:          model.FeedbackStatusPending,
	}
}

// ========== 坐席回复测试 ==========

func TestApplyAgentResponse(t *testing.T) {
	fb := pendingFeedback()
	now := time.Now()

	err := applyAgentResponse(fb, "agent-1", "acknowledged, will improve greeting", now)

	if err != nil {
		t.Fatalf("applyAgentResponse() unexpected error: %v", err)
	}
	if fb.Status != model.FeedbackStatusPending {
		t.Errorf("Status = %q, agent response must not change status", fb.Status)
	}
	if fb.AgentResponse != "acknowledged, will improve greeting" {
		t.Errorf("AgentResponse = %q", fb.AgentResponse)
	}
	if fb.AgentRespondedAt == nil || !fb.AgentRespondedAt.Equal(now) {
		t.Error("AgentRespondedAt should be set to now")
	}
}

func TestApplyAgentResponse_TraineeRecipient(t *testing.T) {
	fb := pendingFeedback()

	// 学员评估的反馈对象是学员本人
	err := applyAgentResponse(fb, "trainee-1", "understood", time.Now())

	if err != nil {
		t.Errorf("applyAgentResponse() unexpected error: %v", err)
	}
}

func TestApplyAgentResponse_NotRecipient(t *testing.T) {
	fb := pendingFeedback()

	err := applyAgentResponse(fb, "stranger", "hi", time.Now())

	if !errors.Is(err, ErrNotRecipient) {
		t.Errorf("error = %v, want ErrNotRecipient", err)
	}
	if fb.AgentResponse != "" {
		t.Error("AgentResponse should not be set on error")
	}
}

func TestApplyAgentResponse_Closed(t *testing.T) {
	fb := pendingFeedback()
	fb.Status = model.FeedbackStatusAccepted

	err := applyAgentResponse(fb, "agent-1", "too late", time.Now())

	if !errors.Is(err, ErrFeedbackClosed) {
		t.Errorf("error = %v, want ErrFeedbackClosed", err)
	}
}

// ========== 上级处理测试 ==========

func TestApplyReview_Accept(t *testing.T) {
	fb := pendingFeedback()
	now := time.Now()

	err := applyReview(fb, "head-1", "accepted", "coaching scheduled", now)

	if err != nil {
		t.Fatalf("applyReview() unexpected error: %v", err)
	}
	if fb.Status != model.FeedbackStatusAccepted {
		t.Errorf("Status = %q, want accepted", fb.Status)
	}
	if fb.HeadResponse != "coaching scheduled" {
		t.Errorf("HeadResponse = %q", fb.HeadResponse)
	}
	if fb.HeadRespondedAt == nil {
		t.Error("HeadRespondedAt should be set")
	}
}

func TestApplyReview_Reject(t *testing.T) {
	fb := pendingFeedback()

	err := applyReview(fb, "head-1", "rejected", "score disputed", time.Now())

	if err != nil {
		t.Fatalf("applyReview() unexpected error: %v", err)
	}
	if fb.Status != model.FeedbackStatusRejected {
		t.Errorf("Status = %q, want rejected", fb.Status)
	}
}

func TestApplyReview_InvalidDecision(t *testing.T) {
	fb := pendingFeedback()

	err := applyReview(fb, "head-1", "maybe", "", time.Now())

	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("error = %v, want ErrInvalidDecision", err)
	}
	if fb.Status != model.FeedbackStatusPending {
		t.Error("Status should stay pending on invalid decision")
	}
}

func TestApplyReview_NotHead(t *testing.T) {
	fb := pendingFeedback()

	err := applyReview(fb, "agent-1", "accepted", "", time.Now())

	if !errors.Is(err, ErrNotRecipient) {
		t.Errorf("error = %v, want ErrNotRecipient", err)
	}
}

func TestApplyReview_Terminal(t *testing.T) {
	fb := pendingFeedback()

	if err := applyReview(fb, "head-1", "accepted", "", time.Now()); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	// 终态后任何操作都被拒绝
	err := applyReview(fb, "head-1", "rejected", "", time.Now())
	if !errors.Is(err, ErrFeedbackClosed) {
		t.Errorf("error = %v, want ErrFeedbackClosed", err)
	}

	err = applyAgentResponse(fb, "agent-1", "late reply", time.Now())
	if !errors.Is(err, ErrFeedbackClosed) {
		t.Errorf("agent response after close: error = %v, want ErrFeedbackClosed", err)
	}
}

// ========== 回复与处理相互独立 ==========

func TestAgentResponseThenReview(t *testing.T) {
	fb := pendingFeedback()

	if err := applyAgentResponse(fb, "agent-1", "noted", time.Now()); err != nil {
		t.Fatalf("agent response failed: %v", err)
	}
	if err := applyReview(fb, "head-1", "accepted", "ok", time.Now()); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	if fb.AgentResponse != "noted" {
		t.Error("agent response should survive review")
	}
	if fb.Status != model.FeedbackStatusAccepted {
		t.Errorf("Status = %q, want accepted", fb.Status)
	}
}

func TestReviewWithoutAgentResponse(t *testing.T) {
	fb := pendingFeedback()

	// 上级可以不等坐席回复直接处理
	err := applyReview(fb, "head-1", "rejected", "", time.Now())

	if err != nil {
		t.Fatalf("applyReview() unexpected error: %v", err)
	}
	if fb.AgentRespondedAt != nil {
		t.Error("AgentRespondedAt should remain nil")
	}
}
