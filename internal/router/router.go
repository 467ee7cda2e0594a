package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/handler"
	"github.com/ashwinyue/next-qa/internal/middleware"
	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Auth 认证（无需登录）
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// 以下接口都需要登录
	api := v1.Group("")
	api.Use(middleware.RequireAuth(svc))

	// Auth 认证（需要登录）
	me := api.Group("/auth")
	{
		me.GET("/validate", h.Auth.ValidateToken)
		me.POST("/logout", h.Auth.Logout)
		me.GET("/me", h.Auth.GetCurrentUser)
		me.PUT("/password", h.Auth.ChangePassword)
	}

	// Organization 组织与权限，仅管理员可改
	orgs := api.Group("/organizations")
	{
		orgs.GET("/:id", h.Organization.Get)
		orgs.GET("/:id/processes", h.Organization.ListProcesses)
		orgs.GET("/:id/permissions", h.Organization.ListPermissions)
		orgs.GET("/:id/users", h.Organization.ListUsers)

		admin := orgs.Group("")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("", h.Organization.Create)
			admin.GET("", h.Organization.List)
			admin.PUT("/:id", h.Organization.Update)
			admin.DELETE("/:id", h.Organization.Delete)
			admin.POST("/:id/processes", h.Organization.CreateProcess)
			admin.POST("/:id/permissions", h.Organization.GrantPermission)
			admin.DELETE("/:id/permissions", h.Organization.RevokePermission)
		}
	}

	// Training 培训批次
	batches := api.Group("/batches")
	{
		batches.GET("", h.Training.ListBatches)
		batches.GET("/:id", h.Training.GetBatch)
		batches.GET("/:id/trainees", h.Training.ListTrainees)

		manage := batches.Group("")
		manage.Use(middleware.RequirePermission(svc, model.PermissionManageBatches))
		{
			manage.POST("", h.Training.CreateBatch)
			manage.POST("/:id/start", h.Training.StartBatch)
			manage.POST("/:id/complete", h.Training.CompleteBatch)
			manage.POST("/:id/trainees", h.Training.AddTrainees)
		}
	}

	// Phase 培训阶段
	phases := api.Group("/phases")
	phases.Use(middleware.RequirePermission(svc, model.PermissionManageBatches))
	{
		phases.POST("/:phaseId/complete", h.Training.CompletePhase)
	}

	// Trainee 学员
	trainees := api.Group("/trainees")
	{
		trainees.GET("/:id", h.Training.GetTrainee)
		trainees.GET("/:id/average", h.Evaluation.TraineeAverage)
		trainees.GET("/:id/feedbacks", h.Feedback.ListByTrainee)

		manage := trainees.Group("")
		manage.Use(middleware.RequirePermission(svc, model.PermissionManageBatches))
		{
			manage.PUT("/:id/status", h.Training.UpdateTraineeStatus)
			manage.DELETE("/:id", h.Training.RemoveTrainee)
		}
	}

	// Quiz 测验
	quizzes := api.Group("/quizzes")
	{
		quizzes.GET("", h.Quiz.List)
		quizzes.GET("/:id", h.Quiz.Get)
		quizzes.POST("/:id/attempts", h.Quiz.SubmitAttempt)

		manage := quizzes.Group("")
		manage.Use(middleware.RequirePermission(svc, model.PermissionManageQuizzes))
		{
			manage.POST("", h.Quiz.Create)
			manage.POST("/:id/publish", h.Quiz.Publish)
			manage.POST("/:id/archive", h.Quiz.Archive)
			manage.DELETE("/:id", h.Quiz.Delete)
		}
	}

	// Attempt 作答记录
	attempts := api.Group("/attempts")
	{
		attempts.GET("", h.Quiz.ListAttempts)
		attempts.GET("/:id", h.Quiz.GetAttempt)
	}

	// Template 评估模板
	templates := api.Group("/templates")
	{
		templates.GET("", h.Template.List)
		templates.GET("/active", h.Template.GetActive)
		templates.GET("/:id", h.Template.Get)

		manage := templates.Group("")
		manage.Use(middleware.RequirePermission(svc, model.PermissionManageTemplates))
		{
			manage.POST("", h.Template.Create)
			manage.PUT("/:id", h.Template.Update)
			manage.POST("/:id/activate", h.Template.Activate)
			manage.POST("/:id/archive", h.Template.Archive)
			manage.DELETE("/:id", h.Template.Delete)
		}
	}

	// Audio 录音文件与分配
	audio := api.Group("/audio")
	{
		audio.GET("/import/template", h.Audio.DownloadTemplate)
		audio.GET("/files", h.Audio.ListFiles)
		audio.GET("/files/:id", h.Audio.GetFile)
		audio.GET("/files/:id/signed-url", h.Audio.SignedURL)
		audio.GET("/allocations", h.Audio.ListAllocations)
		audio.GET("/allocations/:id", h.Audio.GetAllocation)
		audio.GET("/workload", h.Audio.Workload)

		manage := audio.Group("")
		manage.Use(middleware.RequirePermission(svc, model.PermissionAllocateAudio))
		{
			manage.POST("/import/:container", h.Audio.Import)
			manage.POST("/allocate", h.Audio.Allocate)
			manage.POST("/allocations/:id/cancel", h.Audio.CancelAllocation)
		}
	}

	// Storage 对象存储，未配置时各接口返回 503
	containers := api.Group("/storage/containers")
	containers.Use(middleware.RequirePermission(svc, model.PermissionAllocateAudio))
	{
		containers.GET("", h.Storage.ListContainers)
		containers.POST("", h.Storage.CreateContainer)
		containers.GET("/:container/folders", h.Storage.ListFolders)
		containers.GET("/:container/blobs", h.Storage.ListBlobs)
		containers.POST("/:container/blobs", h.Storage.Upload)
		containers.DELETE("/:container/blobs", h.Storage.DeleteBlob)
		containers.GET("/:container/sign", h.Storage.SignBlob)
	}

	// Evaluation 评估
	evaluations := api.Group("/evaluations")
	{
		evaluations.GET("", h.Evaluation.List)
		evaluations.GET("/:id", h.Evaluation.Get)
		evaluations.GET("/drafts/:allocationId", h.Evaluation.GetDraft)

		submit := evaluations.Group("")
		submit.Use(middleware.RequirePermission(svc, model.PermissionEvaluate))
		{
			submit.POST("", h.Evaluation.Submit)
			submit.PUT("/drafts/:allocationId", h.Evaluation.SaveDraft)
		}
	}

	// Feedback 评估反馈
	feedbacks := api.Group("/feedbacks")
	{
		feedbacks.GET("/mine", h.Feedback.ListMine)
		feedbacks.GET("/review", h.Feedback.ListForReview)
		feedbacks.GET("/:id", h.Feedback.Get)
		feedbacks.POST("/:id/respond", h.Feedback.Respond)

		review := feedbacks.Group("")
		review.Use(middleware.RequirePermission(svc, model.PermissionReviewFeedback))
		{
			review.POST("/:id/review", h.Feedback.Review)
		}
	}

	return r
}
