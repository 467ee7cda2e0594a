package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/feedback"
)

// FeedbackHandler 评估反馈处理器
type FeedbackHandler struct {
	svc *service.Services
}

// NewFeedbackHandler 创建反馈处理器
func NewFeedbackHandler(svc *service.Services) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// feedbackError 反馈错误到 HTTP 状态的映射
func feedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feedback.ErrFeedbackClosed):
		Conflict(c, err.Error())
	case errors.Is(err, feedback.ErrNotRecipient):
		Forbidden(c, err.Error())
	case errors.Is(err, feedback.ErrInvalidDecision):
		BadRequest(c, err.Error())
	default:
		Error(c, err)
	}
}

// Get 获取反馈详情
func (h *FeedbackHandler) Get(c *gin.Context) {
	fb, err := h.svc.Feedback.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, fb)
}

// ListMine 当前用户收到的反馈
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	page, size := getPagination(c)
	userID, _ := middleware.GetUserID(c)

	items, total, err := h.svc.Feedback.ListForAgent(c.Request.Context(), userID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, items, total, page, size)
}

// ListForReview 当前用户作为汇报上级待审阅的反馈
func (h *FeedbackHandler) ListForReview(c *gin.Context) {
	page, size := getPagination(c)
	userID, _ := middleware.GetUserID(c)

	items, total, err := h.svc.Feedback.ListForHead(c.Request.Context(), userID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, items, total, page, size)
}

// ListByTrainee 学员相关反馈
func (h *FeedbackHandler) ListByTrainee(c *gin.Context) {
	page, size := getPagination(c)

	items, total, err := h.svc.Feedback.ListForTrainee(c.Request.Context(), c.Param("id"), c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, items, total, page, size)
}

// Respond 被评估人回应反馈
func (h *FeedbackHandler) Respond(c *gin.Context) {
	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	userID, _ := middleware.GetUserID(c)
	fb, err := h.svc.Feedback.Respond(c.Request.Context(), c.Param("id"), userID, req.Response)
	if err != nil {
		feedbackError(c, err)
		return
	}

	Success(c, fb)
}

// Review 汇报上级审阅反馈，接受或驳回
func (h *FeedbackHandler) Review(c *gin.Context) {
	var req struct {
		Decision string `json:"decision" binding:"required"`
		Response string `json:"response"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	userID, _ := middleware.GetUserID(c)
	fb, err := h.svc.Feedback.Review(c.Request.Context(), c.Param("id"), userID, req.Decision, req.Response)
	if err != nil {
		feedbackError(c, err)
		return
	}

	Success(c, fb)
}
