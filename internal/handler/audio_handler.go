package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/allocation"
	"github.com/ashwinyue/next-qa/internal/service/audioimport"
	"github.com/ashwinyue/next-qa/internal/service/storage"
)

// AudioHandler 录音文件与分配处理器
type AudioHandler struct {
	svc *service.Services
}

// NewAudioHandler 创建录音处理器
func NewAudioHandler(svc *service.Services) *AudioHandler {
	return &AudioHandler{svc: svc}
}

// Import 上传元数据表格并登记录音文件
func (h *AudioHandler) Import(c *gin.Context) {
	if !h.svc.AudioImport.StorageEnabled() {
		ServiceUnavailable(c, "object storage is not configured")
		return
	}

	container := c.Param("container")
	if err := storage.ValidateContainerName(container); err != nil {
		BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "metadata file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "failed to open uploaded file: "+err.Error())
		return
	}
	defer f.Close()

	opts := audioimport.ImportOptions{
		OrganizationID: middleware.GetOrganizationID(c),
		Container:      container,
		BatchID:        c.PostForm("batch_id"),
		Language:       c.PostForm("language"),
		Version:        c.PostForm("version"),
	}

	// 可选的分配指令，导入成功后直接把新文件分配出去
	var targets []allocation.Target
	if raw := c.PostForm("targets"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &targets); err != nil {
			BadRequest(c, "targets must be a JSON array: "+err.Error())
			return
		}
	}

	result, err := h.svc.AudioImport.Import(c.Request.Context(), f, opts)
	if err != nil {
		if errors.Is(err, audioimport.ErrNoFilenameColumn) || errors.Is(err, audioimport.ErrEmptySheet) {
			BadRequest(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	if len(targets) == 0 || len(result.ImportedIDs) == 0 {
		Success(c, gin.H{"import": result})
		return
	}

	allocReq := &allocation.AllocateRequest{
		OrganizationID: opts.OrganizationID,
		FileIDs:        result.ImportedIDs,
		Targets:        targets,
		Strategy:       allocation.Strategy(c.PostForm("strategy")),
		Shuffle:        c.PostForm("shuffle") == "true",
	}
	if userID, ok := middleware.GetUserID(c); ok {
		allocReq.AllocatedBy = userID
	}

	allocResult, err := h.svc.Allocation.Allocate(c.Request.Context(), allocReq)
	if err != nil {
		// 导入已经生效，分配失败单独上报
		Success(c, gin.H{"import": result, "allocation_error": err.Error()})
		return
	}

	Success(c, gin.H{"import": result, "allocation": allocResult})
}

// DownloadTemplate 下载元数据导入模板
func (h *AudioHandler) DownloadTemplate(c *gin.Context) {
	buf, err := audioimport.BuildTemplate()
	if err != nil {
		InternalServerError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="audio_metadata_template.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ListFiles 录音文件列表
func (h *AudioHandler) ListFiles(c *gin.Context) {
	page, size := getPagination(c)
	orgID := middleware.GetOrganizationID(c)

	files, total, err := h.svc.AudioImport.ListFiles(c.Request.Context(), orgID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, files, total, page, size)
}

// GetFile 录音文件详情
func (h *AudioHandler) GetFile(c *gin.Context) {
	file, err := h.svc.AudioImport.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, file)
}

// SignedURL 录音文件的预签名下载链接
func (h *AudioHandler) SignedURL(c *gin.Context) {
	if !h.svc.AudioImport.StorageEnabled() {
		ServiceUnavailable(c, "object storage is not configured")
		return
	}

	expiry := storage.DefaultSignedURLExpiry
	if raw := c.Query("expiry_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			BadRequest(c, "expiry_minutes must be a positive integer")
			return
		}
		expiry = time.Duration(minutes) * time.Minute
	}

	url, contentType, err := h.svc.AudioImport.SignedURL(c.Request.Context(), c.Param("id"), expiry)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{
		"url":          url,
		"content_type": contentType,
		"expires_in":   int(expiry.Seconds()),
	})
}

// Allocate 把待分配的录音分配给质检分析师
func (h *AudioHandler) Allocate(c *gin.Context) {
	var req allocation.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}
	req.OrganizationID = middleware.GetOrganizationID(c)
	if userID, ok := middleware.GetUserID(c); ok {
		req.AllocatedBy = userID
	}

	result, err := h.svc.Allocation.Allocate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrNoPendingFiles), errors.Is(err, allocation.ErrNoTargets):
			BadRequest(c, err.Error())
		default:
			Error(c, err)
		}
		return
	}

	Created(c, result)
}

// ListAllocations 分配列表，质检分析师默认看自己的
func (h *AudioHandler) ListAllocations(c *gin.Context) {
	page, size := getPagination(c)

	analystID := c.Query("analyst_id")
	if analystID == "" {
		analystID, _ = middleware.GetUserID(c)
	}

	allocations, total, err := h.svc.Allocation.ListByAnalyst(c.Request.Context(), analystID, c.Query("status"), size, (page-1)*size)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, allocations, total, page, size)
}

// GetAllocation 分配详情
func (h *AudioHandler) GetAllocation(c *gin.Context) {
	alloc, err := h.svc.Allocation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, alloc)
}

// CancelAllocation 取消分配，文件回到待分配池
func (h *AudioHandler) CancelAllocation(c *gin.Context) {
	if err := h.svc.Allocation.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}

	NoContent(c)
}

// Workload 质检分析师的待评估数量
func (h *AudioHandler) Workload(c *gin.Context) {
	analystID := c.Query("analyst_id")
	if analystID == "" {
		analystID, _ = middleware.GetUserID(c)
	}

	count, err := h.svc.Allocation.Workload(c.Request.Context(), analystID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"analyst_id": analystID, "pending": count})
}
