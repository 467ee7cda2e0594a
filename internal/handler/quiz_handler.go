package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/quiz"
)

// QuizHandler 测验处理器
type QuizHandler struct {
	svc *service.Services
}

// NewQuizHandler 创建测验处理器
func NewQuizHandler(svc *service.Services) *QuizHandler {
	return &QuizHandler{svc: svc}
}

// Create 创建测验
func (h *QuizHandler) Create(c *gin.Context) {
	var req quiz.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}
	req.OrganizationID = middleware.GetOrganizationID(c)

	q, err := h.svc.Quiz.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, q)
}

// Get 获取测验详情（含题目）
func (h *QuizHandler) Get(c *gin.Context) {
	q, err := h.svc.Quiz.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, q)
}

// List 测验列表
func (h *QuizHandler) List(c *gin.Context) {
	page, size := getPagination(c)

	quizzes, total, err := h.svc.Quiz.List(c.Request.Context(), c.Query("phase_id"), c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, quizzes, total, page, size)
}

// Publish 发布测验
func (h *QuizHandler) Publish(c *gin.Context) {
	q, err := h.svc.Quiz.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotPublished) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, q)
}

// Archive 归档测验
func (h *QuizHandler) Archive(c *gin.Context) {
	if err := h.svc.Quiz.Archive(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// Delete 删除草稿测验
func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.svc.Quiz.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// SubmitAttempt 提交作答
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	var req quiz.AttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	attempt, err := h.svc.Quiz.SubmitAttempt(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrQuizNotPublished):
			Conflict(c, err.Error())
		case errors.Is(err, quiz.ErrAnswerMismatch):
			BadRequest(c, err.Error())
		default:
			Error(c, err)
		}
		return
	}

	Created(c, attempt)
}

// GetAttempt 获取作答详情
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.svc.Quiz.GetAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, attempt)
}

// ListAttempts 学员作答记录
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	traineeID := c.Query("trainee_id")
	if traineeID == "" {
		BadRequest(c, "trainee_id is required")
		return
	}

	attempts, err := h.svc.Quiz.ListAttempts(c.Request.Context(), traineeID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, attempts)
}
