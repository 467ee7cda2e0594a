// Package quiz 提供判分逻辑单元测试
package quiz

import (
	"errors"
	"testing"

	"github.com/ashwinyue/next-qa/internal/model"
)

func sampleQuiz() *model.Quiz {
	return &model.Quiz{
		ID:             "quiz-1",
		PassPercentage: 60,
		Status:         model.QuizStatusPublished,
		Questions: []model.QuizQuestion{
			{ID: "q1", Text: "Q1", Options: []string{"a", "b", "c"}, CorrectOption: 0, Marks: 2},
			{ID: "q2", Text: "Q2", Options: []string{"a", "b"}, CorrectOption: 1, Marks: 1},
			{ID: "q3", Text: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2, Marks: 2},
		},
	}
}

// ========== scoreAttempt 测试 ==========

func TestScoreAttempt_AllCorrect(t *testing.T) {
	attempt, answers, err := scoreAttempt(sampleQuiz(), &AttemptRequest{
		TraineeID: "trainee-1",
		Answers: []AnswerInput{
			{QuestionID: "q1", SelectedOption: 0},
			{QuestionID: "q2", SelectedOption: 1},
			{QuestionID: "q3", SelectedOption: 2},
		},
	})

	if err != nil {
		t.Fatalf("scoreAttempt() unexpected error: %v", err)
	}
	if attempt.Score != 5 || attempt.TotalMarks != 5 {
		t.Errorf("Score = %.1f/%.1f, want 5/5", attempt.Score, attempt.TotalMarks)
	}
	if attempt.Percentage != 100 {
		t.Errorf("Percentage = %.2f, want 100", attempt.Percentage)
	}
	if !attempt.Passed {
		t.Error("attempt should pass")
	}
	if len(answers) != 3 {
		t.Fatalf("answers count = %d, want 3", len(answers))
	}
	for _, a := range answers {
		if !a.Correct {
			t.Errorf("answer for %s should be correct", a.QuestionID)
		}
	}
}

func TestScoreAttempt_PartialScore(t *testing.T) {
	// 只答对 q1（2 分），共 5 分，40% 低于及格线 60
	attempt, answers, err := scoreAttempt(sampleQuiz(), &AttemptRequest{
		TraineeID: "trainee-1",
		Answers: []AnswerInput{
			{QuestionID: "q1", SelectedOption: 0},
			{QuestionID: "q2", SelectedOption: 0},
			{QuestionID: "q3", SelectedOption: 0},
		},
	})

	if err != nil {
		t.Fatalf("scoreAttempt() unexpected error: %v", err)
	}
	if attempt.Score != 2 {
		t.Errorf("Score = %.1f, want 2", attempt.Score)
	}
	if attempt.Percentage != 40 {
		t.Errorf("Percentage = %.2f, want 40", attempt.Percentage)
	}
	if attempt.Passed {
		t.Error("attempt should fail below pass percentage")
	}
	if answers[1].Correct || answers[1].MarksAwarded != 0 {
		t.Error("wrong answer should earn no marks")
	}
}

func TestScoreAttempt_PassBoundary(t *testing.T) {
	// 3/5 = 60%，等于及格线应判及格
	quiz := sampleQuiz()
	attempt, _, err := scoreAttempt(quiz, &AttemptRequest{
		TraineeID: "trainee-1",
		Answers: []AnswerInput{
			{QuestionID: "q1", SelectedOption: 0},
			{QuestionID: "q2", SelectedOption: 1},
			{QuestionID: "q3", SelectedOption: 0},
		},
	})

	if err != nil {
		t.Fatalf("scoreAttempt() unexpected error: %v", err)
	}
	if attempt.Percentage != 60 {
		t.Errorf("Percentage = %.2f, want 60", attempt.Percentage)
	}
	if !attempt.Passed {
		t.Error("percentage equal to pass line should pass")
	}
}

func TestScoreAttempt_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		answers []AnswerInput
	}{
		{
			name: "missing answer",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedOption: 0},
			},
		},
		{
			name: "unknown question",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedOption: 0},
				{QuestionID: "q2", SelectedOption: 1},
				{QuestionID: "q9", SelectedOption: 0},
			},
		},
		{
			name: "duplicate answer",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedOption: 0},
				{QuestionID: "q1", SelectedOption: 1},
				{QuestionID: "q2", SelectedOption: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := scoreAttempt(sampleQuiz(), &AttemptRequest{TraineeID: "t", Answers: tt.answers})
			if !errors.Is(err, ErrAnswerMismatch) {
				t.Errorf("error = %v, want ErrAnswerMismatch", err)
			}
		})
	}
}

// ========== buildQuestion 测试 ==========

func TestBuildQuestion(t *testing.T) {
	q, err := buildQuestion(QuestionInput{
		Text:          "Pick one",
		Options:       []string{"a", "b"},
		CorrectOption: 1,
	}, 3)

	if err != nil {
		t.Fatalf("buildQuestion() unexpected error: %v", err)
	}
	if q.Marks != 1 {
		t.Errorf("Marks = %.1f, default should be 1", q.Marks)
	}
	if q.Sequence != 3 {
		t.Errorf("Sequence = %d, want 3", q.Sequence)
	}
}

func TestBuildQuestion_Invalid(t *testing.T) {
	if _, err := buildQuestion(QuestionInput{Text: "x", Options: []string{"only"}}, 0); err == nil {
		t.Error("single option should fail")
	}
	if _, err := buildQuestion(QuestionInput{Text: "x", Options: []string{"a", "b"}, CorrectOption: 5}, 0); err == nil {
		t.Error("out of range correct option should fail")
	}
}
