package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/training"
)

// TrainingHandler 培训批次处理器
type TrainingHandler struct {
	svc *service.Services
}

// NewTrainingHandler 创建培训批次处理器
func NewTrainingHandler(svc *service.Services) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

// CreateBatch 创建批次
func (h *TrainingHandler) CreateBatch(c *gin.Context) {
	var req training.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}
	req.OrganizationID = middleware.GetOrganizationID(c)

	batch, err := h.svc.Training.CreateBatch(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, batch)
}

// GetBatch 获取批次详情（含阶段）
func (h *TrainingHandler) GetBatch(c *gin.Context) {
	batch, err := h.svc.Training.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, batch)
}

// ListBatches 批次列表
func (h *TrainingHandler) ListBatches(c *gin.Context) {
	page, size := getPagination(c)
	orgID := middleware.GetOrganizationID(c)

	batches, total, err := h.svc.Training.ListBatches(c.Request.Context(), orgID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, batches, total, page, size)
}

// StartBatch 启动批次
func (h *TrainingHandler) StartBatch(c *gin.Context) {
	batch, err := h.svc.Training.StartBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, training.ErrBatchNotOngoing) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, batch)
}

// CompleteBatch 完成批次
func (h *TrainingHandler) CompleteBatch(c *gin.Context) {
	batch, err := h.svc.Training.CompleteBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, training.ErrBatchNotOngoing) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, batch)
}

// CompletePhase 完成阶段并自动流转到下一阶段
func (h *TrainingHandler) CompletePhase(c *gin.Context) {
	phase, err := h.svc.Training.CompletePhase(c.Request.Context(), c.Param("phaseId"))
	if err != nil {
		if errors.Is(err, training.ErrPhaseOrder) {
			Conflict(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, phase)
}

// AddTrainees 批量添加学员
func (h *TrainingHandler) AddTrainees(c *gin.Context) {
	var req struct {
		Trainees []training.TraineeInput `json:"trainees" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	trainees, err := h.svc.Training.AddTrainees(c.Request.Context(), c.Param("id"), req.Trainees)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, trainees)
}

// ListTrainees 学员列表
func (h *TrainingHandler) ListTrainees(c *gin.Context) {
	page, size := getPagination(c)

	trainees, total, err := h.svc.Training.ListTrainees(c.Request.Context(), c.Param("id"), c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, trainees, total, page, size)
}

// GetTrainee 获取学员详情
func (h *TrainingHandler) GetTrainee(c *gin.Context) {
	trainee, err := h.svc.Training.GetTrainee(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, trainee)
}

// UpdateTraineeStatus 更新学员状态
func (h *TrainingHandler) UpdateTraineeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	trainee, err := h.svc.Training.UpdateTraineeStatus(c.Request.Context(), c.Param("id"), model.TraineeStatus(req.Status))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, trainee)
}

// RemoveTrainee 移除学员
func (h *TrainingHandler) RemoveTrainee(c *gin.Context) {
	if err := h.svc.Training.RemoveTrainee(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}
