package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/repository"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/evaluation"
	"github.com/ashwinyue/next-qa/internal/service/scoring"
	"github.com/ashwinyue/next-qa/internal/service/session"
)

// EvaluationHandler 评估处理器
type EvaluationHandler struct {
	svc *service.Services
}

// NewEvaluationHandler 创建评估处理器
func NewEvaluationHandler(svc *service.Services) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

// Submit 提交评估
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req evaluation.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}
	req.OrganizationID = middleware.GetOrganizationID(c)
	if userID, ok := middleware.GetUserID(c); ok {
		req.EvaluatorID = userID
	}

	resp, err := h.svc.Evaluation.Submit(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrValidation):
			BadRequest(c, err.Error())
		case errors.Is(err, evaluation.ErrTemplateNotActive),
			errors.Is(err, evaluation.ErrAllocationNotOpen):
			Conflict(c, err.Error())
		case errors.Is(err, evaluation.ErrNotAllocationOwner):
			Forbidden(c, err.Error())
		default:
			Error(c, err)
		}
		return
	}

	Created(c, resp)
}

// Get 获取评估详情（含逐参数得分）
func (h *EvaluationHandler) Get(c *gin.Context) {
	eval, err := h.svc.Evaluation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, eval)
}

// List 评估列表，支持按类型、学员、坐席、评估人、批次过滤
func (h *EvaluationHandler) List(c *gin.Context) {
	page, size := getPagination(c)
	orgID := middleware.GetOrganizationID(c)

	filter := repository.EvaluationFilter{
		Type:        c.Query("type"),
		TraineeID:   c.Query("trainee_id"),
		AgentID:     c.Query("agent_id"),
		EvaluatorID: c.Query("evaluator_id"),
		BatchID:     c.Query("batch_id"),
	}

	evals, total, err := h.svc.Evaluation.List(c.Request.Context(), orgID, filter, size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, evals, total, page, size)
}

// TraineeAverage 学员平均分
func (h *EvaluationHandler) TraineeAverage(c *gin.Context) {
	traineeID := c.Param("id")

	avg, err := h.svc.Evaluation.TraineeAverage(c.Request.Context(), traineeID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"trainee_id": traineeID, "average_score": avg})
}

// SaveDraft 保存单项评分草稿
func (h *EvaluationHandler) SaveDraft(c *gin.Context) {
	var rating session.DraftRating
	if err := c.ShouldBindJSON(&rating); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	analystID, _ := middleware.GetUserID(c)
	if err := h.svc.Evaluation.SaveDraft(c.Request.Context(), c.Param("allocationId"), analystID, rating); err != nil {
		Error(c, err)
		return
	}

	Success(c, rating)
}

// GetDraft 读取评分草稿
func (h *EvaluationHandler) GetDraft(c *gin.Context) {
	ratings, err := h.svc.Evaluation.GetDraft(c.Request.Context(), c.Param("allocationId"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"allocation_id": c.Param("allocationId"), "ratings": ratings})
}
