package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// QuizRepository 测验数据访问
type QuizRepository struct {
	db *gorm.DB
}

// NewQuizRepository 创建测验仓库
func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create 创建测验
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID 获取测验（含题目）
func (r *QuizRepository) GetByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence")
	}).Where("id = ?", id).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// List 列出阶段的测验
func (r *QuizRepository) List(phaseID string, status string, limit, offset int) ([]*model.Quiz, int64, error) {
	var quizzes []*model.Quiz
	var total int64

	query := r.db.Model(&model.Quiz{}).Where("phase_id = ?", phaseID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, total, err
}

// Update 更新测验
func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

// Delete 删除测验及其题目
func (r *QuizRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.QuizQuestion{}, "quiz_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

// CreateQuestion 创建题目
func (r *QuizRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.db.Create(q).Error
}

// CreateQuestions 批量创建题目
func (r *QuizRepository) CreateQuestions(questions []*model.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(questions).Error
}

// UpdateQuestion 更新题目
func (r *QuizRepository) UpdateQuestion(q *model.QuizQuestion) error {
	return r.db.Save(q).Error
}

// DeleteQuestion 删除题目
func (r *QuizRepository) DeleteQuestion(id string) error {
	return r.db.Delete(&model.QuizQuestion{}, "id = ?", id).Error
}

// CreateAttempt 在事务中创建答卷及其答案
func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt, answers []*model.QuizAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for _, a := range answers {
			a.AttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAttemptByID 获取答卷（含答案）
func (r *QuizRepository) GetAttemptByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.Preload("Answers").Where("id = ?", id).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListAttemptsByTrainee 列出学员的答卷
func (r *QuizRepository) ListAttemptsByTrainee(traineeID string) ([]*model.QuizAttempt, error) {
	var attempts []*model.QuizAttempt
	err := r.db.Where("trainee_id = ?", traineeID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}

// CountAttempts 统计学员在某测验的答卷数
func (r *QuizRepository) CountAttempts(quizID, traineeID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND trainee_id = ?", quizID, traineeID).
		Count(&count).Error
	return count, err
}
