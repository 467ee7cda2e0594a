package repository

import "gorm.io/gorm"

// Repositories 仓库集合，用于统一管理所有仓库
type Repositories struct {
	DB           *gorm.DB // 直接访问数据库
	Auth         *AuthRepository
	Organization *OrganizationRepository
	Training     *TrainingRepository
	Quiz         *QuizRepository
	Audio        *AudioRepository
	Template     *TemplateRepository
	Evaluation   *EvaluationRepository
	Feedback     *FeedbackRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:           db,
		Auth:         NewAuthRepository(db),
		Organization: NewOrganizationRepository(db),
		Training:     NewTrainingRepository(db),
		Quiz:         NewQuizRepository(db),
		Audio:        NewAudioRepository(db),
		Template:     NewTemplateRepository(db),
		Evaluation:   NewEvaluationRepository(db),
		Feedback:     NewFeedbackRepository(db),
	}
}
