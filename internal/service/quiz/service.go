// Package quiz 提供测验管理与自动判分
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
)

var (
	// ErrQuizNotPublished 只有已发布的测验可以作答
	ErrQuizNotPublished = errors.New("quiz is not published")
	// ErrAnswerMismatch 作答与题目不对应
	ErrAnswerMismatch = errors.New("answers do not match quiz questions")
)

// Service 测验服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建测验服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// QuestionInput 题目定义
type QuestionInput struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectOption int      `json:"correct_option"`
	Marks         float64  `json:"marks"`
}

// CreateRequest 创建测验请求
type CreateRequest struct {
	OrganizationID string
	BatchID        string          `json:"batch_id"`
	PhaseID        string          `json:"phase_id"`
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	PassPercentage float64         `json:"pass_percentage"`
	Questions      []QuestionInput `json:"questions"`
}

// Create 创建草稿测验
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		OrganizationID: req.OrganizationID,
		BatchID:        req.BatchID,
		PhaseID:        req.PhaseID,
		Title:          req.Title,
		Description:    req.Description,
		PassPercentage: req.PassPercentage,
		Status:         model.QuizStatusDraft,
	}
	if quiz.PassPercentage <= 0 {
		quiz.PassPercentage = 60
	}

	for i, q := range req.Questions {
		question, err := buildQuestion(q, i)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, *question)
	}

	if err := s.repo.Quiz.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

// buildQuestion 校验并构造题目
func buildQuestion(q QuestionInput, seq int) (*model.QuizQuestion, error) {
	if len(q.Options) < 2 {
		return nil, fmt.Errorf("question %q needs at least two options", q.Text)
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return nil, fmt.Errorf("question %q correct option out of range", q.Text)
	}
	marks := q.Marks
	if marks <= 0 {
		marks = 1
	}
	return &model.QuizQuestion{
		Text:          q.Text,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Marks:         marks,
		Sequence:      seq,
	}, nil
}

// Get 获取测验
func (s *Service) Get(ctx context.Context, id string) (*model.Quiz, error) {
	return s.repo.Quiz.GetByID(id)
}

// List 列出阶段的测验
func (s *Service) List(ctx context.Context, phaseID, status string, limit, offset int) ([]*model.Quiz, int64, error) {
	return s.repo.Quiz.List(phaseID, status, limit, offset)
}

// Publish 发布测验
func (s *Service) Publish(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.repo.Quiz.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, errors.New("quiz has no questions, cannot publish")
	}
	quiz.Status = model.QuizStatusPublished
	quiz.Questions = nil
	if err := s.repo.Quiz.Update(quiz); err != nil {
		return nil, err
	}
	return s.repo.Quiz.GetByID(id)
}

// Archive 归档测验
func (s *Service) Archive(ctx context.Context, id string) error {
	quiz, err := s.repo.Quiz.GetByID(id)
	if err != nil {
		return err
	}
	quiz.Status = model.QuizStatusArchived
	quiz.Questions = nil
	return s.repo.Quiz.Update(quiz)
}

// Delete 删除测验
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Quiz.GetByID(id); err != nil {
		return err
	}
	return s.repo.Quiz.Delete(id)
}

// AnswerInput 单题作答
type AnswerInput struct {
	QuestionID     string `json:"question_id" binding:"required"`
	SelectedOption int    `json:"selected_option"`
}

// AttemptRequest 提交作答请求
type AttemptRequest struct {
	TraineeID string        `json:"trainee_id" binding:"required"`
	Answers   []AnswerInput `json:"answers" binding:"required"`
}

// SubmitAttempt 提交作答并自动判分
func (s *Service) SubmitAttempt(ctx context.Context, quizID string, req *AttemptRequest) (*model.QuizAttempt, error) {
	quiz, err := s.repo.Quiz.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotPublished
	}
	if _, err := s.repo.Training.GetTraineeByID(req.TraineeID); err != nil {
		return nil, err
	}

	attempt, answers, err := scoreAttempt(quiz, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Quiz.CreateAttempt(attempt, answers); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	attempt.Answers = nil
	return attempt, nil
}

// scoreAttempt 判分：每题按 Marks 计分，百分比与及格线比较
func scoreAttempt(quiz *model.Quiz, req *AttemptRequest) (*model.QuizAttempt, []*model.QuizAnswer, error) {
	questions := make(map[string]*model.QuizQuestion, len(quiz.Questions))
	total := 0.0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		questions[q.ID] = q
		total += q.Marks
	}

	if len(req.Answers) != len(quiz.Questions) {
		return nil, nil, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerMismatch, len(req.Answers), len(quiz.Questions))
	}

	score := 0.0
	answers := make([]*model.QuizAnswer, 0, len(req.Answers))
	seen := make(map[string]struct{}, len(req.Answers))
	for _, a := range req.Answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown question %s", ErrAnswerMismatch, a.QuestionID)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate answer for question %s", ErrAnswerMismatch, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}

		answer := &model.QuizAnswer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
		}
		if a.SelectedOption == q.CorrectOption {
			answer.Correct = true
			answer.MarksAwarded = q.Marks
			score += q.Marks
		}
		answers = append(answers, answer)
	}

	percentage := 0.0
	if total > 0 {
		percentage = math.Round(score/total*100*100) / 100
	}

	attempt := &model.QuizAttempt{
		QuizID:      quiz.ID,
		TraineeID:   req.TraineeID,
		Score:       score,
		TotalMarks:  total,
		Percentage:  percentage,
		Passed:      percentage >= quiz.PassPercentage,
		SubmittedAt: time.Now(),
	}
	return attempt, answers, nil
}

// GetAttempt 获取答卷
func (s *Service) GetAttempt(ctx context.Context, id string) (*model.QuizAttempt, error) {
	return s.repo.Quiz.GetAttemptByID(id)
}

// ListAttempts 学员的答卷列表
func (s *Service) ListAttempts(ctx context.Context, traineeID string) ([]*model.QuizAttempt, error) {
	return s.repo.Quiz.ListAttemptsByTrainee(traineeID)
}
