package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	Training     *TrainingHandler
	Quiz         *QuizHandler
	Template     *TemplateHandler
	Audio        *AudioHandler
	Storage      *StorageHandler
	Evaluation   *EvaluationHandler
	Feedback     *FeedbackHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc),
		Organization: NewOrganizationHandler(svc),
		Training:     NewTrainingHandler(svc),
		Quiz:         NewQuizHandler(svc),
		Template:     NewTemplateHandler(svc),
		Audio:        NewAudioHandler(svc),
		Storage:      NewStorageHandler(svc),
		Evaluation:   NewEvaluationHandler(svc),
		Feedback:     NewFeedbackHandler(svc),
	}
}

// getPagination 获取分页参数
func getPagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
