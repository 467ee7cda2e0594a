package service

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/next-qa/internal/config"
	"github.com/ashwinyue/next-qa/internal/repository"
	"github.com/ashwinyue/next-qa/internal/service/allocation"
	"github.com/ashwinyue/next-qa/internal/service/audioimport"
	"github.com/ashwinyue/next-qa/internal/service/auth"
	"github.com/ashwinyue/next-qa/internal/service/evaluation"
	"github.com/ashwinyue/next-qa/internal/service/feedback"
	"github.com/ashwinyue/next-qa/internal/service/organization"
	"github.com/ashwinyue/next-qa/internal/service/quiz"
	"github.com/ashwinyue/next-qa/internal/service/session"
	"github.com/ashwinyue/next-qa/internal/service/storage"
	"github.com/ashwinyue/next-qa/internal/service/template"
	"github.com/ashwinyue/next-qa/internal/service/training"
)

// Services 服务集合
type Services struct {
	Auth         *auth.Service
	Organization *organization.Service
	Training     *training.Service
	Quiz         *quiz.Service
	Template     *template.Service
	Allocation   *allocation.Service
	Evaluation   *evaluation.Service
	Feedback     *feedback.Service
	AudioImport  *audioimport.Service

	// 对象存储未配置时为 nil，相关路由返回 503
	Storage *storage.Service

	Config *config.Config
	Drafts *session.Manager
}

// NewServices 创建所有服务
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	// 评估草稿管理器
	drafts := session.NewManager(redisClient)

	// 对象存储客户端
	store, err := storage.NewService(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		log.Printf("Warning: object storage not configured, storage routes will return 503")
	}

	return &Services{
		Auth:         auth.NewService(repo),
		Organization: organization.NewService(repo),
		Training:     training.NewService(repo),
		Quiz:         quiz.NewService(repo),
		Template:     template.NewService(repo),
		Allocation:   allocation.NewService(repo),
		Evaluation:   evaluation.NewService(repo, drafts),
		Feedback:     feedback.NewService(repo),
		AudioImport:  audioimport.NewService(repo, store),

		Storage: store,
		Config:  cfg,
		Drafts:  drafts,
	}, nil
}
