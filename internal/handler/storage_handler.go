package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/storage"
)

// StorageHandler 对象存储处理器
// 所有接口在未配置对象存储时返回 503
type StorageHandler struct {
	svc *service.Services
}

// NewStorageHandler 创建对象存储处理器
func NewStorageHandler(svc *service.Services) *StorageHandler {
	return &StorageHandler{svc: svc}
}

// store 取存储服务，未配置时返回 503
func (h *StorageHandler) store(c *gin.Context) (*storage.Service, bool) {
	if h.svc.Storage == nil {
		ServiceUnavailable(c, "object storage is not configured")
		return nil, false
	}
	return h.svc.Storage, true
}

// storageError 存储错误到 HTTP 状态的映射
func storageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidContainerName):
		BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrContainerNotFound):
		NotFound(c, err.Error())
	default:
		InternalServerError(c, err.Error())
	}
}

// ListContainers 容器列表
func (h *StorageHandler) ListContainers(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	containers, err := store.ListContainers(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}

	Success(c, containers)
}

// CreateContainer 创建容器
func (h *StorageHandler) CreateContainer(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	if err := store.CreateContainer(c.Request.Context(), req.Name); err != nil {
		storageError(c, err)
		return
	}

	Created(c, gin.H{"name": req.Name})
}

// ListFolders 容器内一级目录列表
func (h *StorageHandler) ListFolders(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	folders, err := store.ListFolders(c.Request.Context(), c.Param("container"))
	if err != nil {
		storageError(c, err)
		return
	}

	Success(c, folders)
}

// ListBlobs 容器内文件列表，支持 prefix 过滤
func (h *StorageHandler) ListBlobs(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	blobs, err := store.ListBlobs(c.Request.Context(), c.Param("container"), c.Query("prefix"))
	if err != nil {
		storageError(c, err)
		return
	}

	Success(c, blobs)
}

// DeleteBlob 删除文件
func (h *StorageHandler) DeleteBlob(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		BadRequest(c, "name is required")
		return
	}

	if err := store.DeleteBlob(c.Request.Context(), c.Param("container"), name); err != nil {
		storageError(c, err)
		return
	}

	NoContent(c)
}

// Upload 上传文件到容器
func (h *StorageHandler) Upload(c *gin.Context) {
	if h.svc.Storage == nil {
		ServiceUnavailable(c, "object storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "failed to open uploaded file: "+err.Error())
		return
	}
	defer f.Close()

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	if err := h.svc.Storage.Upload(c.Request.Context(), c.Param("container"), name, f, fileHeader.Size); err != nil {
		storageError(c, err)
		return
	}

	Created(c, gin.H{"container": c.Param("container"), "name": name, "size": fileHeader.Size})
}

// SignBlob 任意文件的预签名下载链接
func (h *StorageHandler) SignBlob(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		BadRequest(c, "name is required")
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

	url, err := store.SignedURL(c.Request.Context(), c.Param("container"), name, expiry)
	if err != nil {
		storageError(c, err)
		return
	}

	Success(c, gin.H{
		"url":          url,
		"content_type": storage.ContentTypeFor(name),
		"expires_in":   int(expiry.Seconds()),
	})
}
