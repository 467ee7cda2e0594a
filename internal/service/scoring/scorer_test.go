// Package scoring 提供评估模板的加权评分计算
package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/ashwinyue/next-qa/internal/model"
)

// buildTemplate 构造测试模板
func buildTemplate(pillars ...model.Pillar) *model.EvaluationTemplate {
	return &model.EvaluationTemplate{
		ID:      "tpl-1",
		Name:    "test template",
		Status:  model.TemplateStatusActive,
		Pillars: pillars,
	}
}

func yesNoParam(id string, weightage float64, fatal bool) model.Parameter {
	return model.Parameter{
		ID:               id,
		Name:             id,
		RatingType:       model.RatingTypeYesNoNA,
		Weightage:        weightage,
		WeightageEnabled: true,
		IsFatal:          fatal,
	}
}

func numericParam(id string, weightage float64) model.Parameter {
	return model.Parameter{
		ID:               id,
		Name:             id,
		RatingType:       model.RatingTypeNumeric,
		Weightage:        weightage,
		WeightageEnabled: true,
	}
}

// ========== 基础计算测试 ==========

func TestScore_WeightedExample(t *testing.T) {
	// 两个维度 60/40：A 维度 yes_no_na 评 yes，B 维度 numeric 评 3（映射 50%）
	// 期望 0.6*100 + 0.4*50 = 80.00
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 60, Parameters: []model.Parameter{yesNoParam("p1", 100, false)}},
		model.Pillar{ID: "b", Weightage: 40, Parameters: []model.Parameter{numericParam("p2", 100)}},
	)

	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "3"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 80.00 {
		t.Errorf("FinalScore = %v, want 80.00", result.FinalScore)
	}
	if result.HasFatalError {
		t.Error("HasFatalError = true, want false")
	}
}

func TestScore_NumericNormalization(t *testing.T) {
	tests := []struct {
		name     string
		rating   string
		expected float64
	}{
		{"minimum maps to zero", "1", 0},
		{"midpoint maps to fifty", "3", 50},
		{"maximum maps to hundred", "5", 100},
		{"two maps to twenty five", "2", 25},
		{"four maps to seventy five", "4", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := buildTemplate(
				model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{numericParam("p1", 100)}},
			)
			result, err := Score(template, []Rating{{ParameterID: "p1", Value: tt.rating}})
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if result.FinalScore != tt.expected {
				t.Errorf("FinalScore = %v, want %v", result.FinalScore, tt.expected)
			}
		})
	}
}

func TestScore_ParameterWeighting(t *testing.T) {
	// 同一维度内按参数权重加权：70 权重 yes + 30 权重 no = 70
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
			yesNoParam("p1", 70, false),
			yesNoParam("p2", 30, false),
		}},
	)
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "no"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 70.00 {
		t.Errorf("FinalScore = %v, want 70.00", result.FinalScore)
	}
}

func TestScore_WeightageDisabledParameterIgnored(t *testing.T) {
	disabled := yesNoParam("p2", 50, false)
	disabled.WeightageEnabled = false

	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
			yesNoParam("p1", 50, false),
			disabled,
		}},
	)
	// p2 评 no，但未启用权重，不影响总分
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "no"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 100.00 {
		t.Errorf("FinalScore = %v, want 100.00", result.FinalScore)
	}
}

// ========== N/A 排除测试 ==========

func TestScore_NAExcludedFromDenominator(t *testing.T) {
	// N/A 参数同时从分子和分母中排除：yes + na 应得满分而不是 50
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
			yesNoParam("p1", 50, false),
			yesNoParam("p2", 50, false),
		}},
	)
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "na"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 100.00 {
		t.Errorf("FinalScore = %v, want 100.00", result.FinalScore)
	}
}

func TestScore_AllNAPillarExcluded(t *testing.T) {
	// 一个维度全部 N/A 时，总分应与该维度不存在时一致（权重在剩余维度间重归一）
	withNAPillar := buildTemplate(
		model.Pillar{ID: "a", Weightage: 60, Parameters: []model.Parameter{numericParam("p1", 100)}},
		model.Pillar{ID: "b", Weightage: 40, Parameters: []model.Parameter{yesNoParam("p2", 100, false)}},
	)
	withoutPillar := buildTemplate(
		model.Pillar{ID: "a", Weightage: 60, Parameters: []model.Parameter{numericParam("p1", 100)}},
	)

	got, err := Score(withNAPillar, []Rating{
		{ParameterID: "p1", Value: "4"},
		{ParameterID: "p2", Value: "na"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	want, err := Score(withoutPillar, []Rating{{ParameterID: "p1", Value: "4"}})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if got.FinalScore != want.FinalScore {
		t.Errorf("FinalScore with all-NA pillar = %v, want %v (pillar removed)", got.FinalScore, want.FinalScore)
	}

	var naPillar *PillarResult
	for i := range got.Pillars {
		if got.Pillars[i].PillarID == "b" {
			naPillar = &got.Pillars[i]
		}
	}
	if naPillar == nil || !naPillar.Excluded {
		t.Error("all-NA pillar should be marked excluded")
	}
}

func TestScore_AllPillarsExcludedScoresZero(t *testing.T) {
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{yesNoParam("p1", 100, false)}},
	)
	result, err := Score(template, []Rating{{ParameterID: "p1", Value: "na"}})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 0 {
		t.Errorf("FinalScore = %v, want 0", result.FinalScore)
	}
}

// ========== 致命项测试 ==========

func TestScore_FatalOverride(t *testing.T) {
	// 致命参数评 no：无论其他参数得分多高，总分置 0 且带致命标记
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 60, Parameters: []model.Parameter{yesNoParam("p1", 100, false)}},
		model.Pillar{ID: "b", Weightage: 40, Parameters: []model.Parameter{yesNoParam("p2", 100, true)}},
	)
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "no"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !result.HasFatalError {
		t.Error("HasFatalError = false, want true")
	}
	if result.FinalScore != 0 {
		t.Errorf("FinalScore = %v, want 0", result.FinalScore)
	}
	// 覆盖前得分保留在 RawScore
	if result.RawScore != 60.00 {
		t.Errorf("RawScore = %v, want 60.00", result.RawScore)
	}
}

func TestScore_FatalParameterPassedNoOverride(t *testing.T) {
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{yesNoParam("p1", 100, true)}},
	)
	result, err := Score(template, []Rating{{ParameterID: "p1", Value: "yes"}})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.HasFatalError {
		t.Error("HasFatalError = true, want false")
	}
	if result.FinalScore != 100.00 {
		t.Errorf("FinalScore = %v, want 100.00", result.FinalScore)
	}
}

func TestScore_FatalNARatingDoesNotTrigger(t *testing.T) {
	// 致命参数评 N/A 不算失败
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
			yesNoParam("p1", 50, false),
			yesNoParam("p2", 50, true),
		}},
	)
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "na"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.HasFatalError {
		t.Error("HasFatalError = true, want false")
	}
}

// ========== 自定义映射测试 ==========

func TestScore_CustomRatingMapping(t *testing.T) {
	param := model.Parameter{
		ID:               "p1",
		Name:             "greeting quality",
		RatingType:       model.RatingTypeCustom,
		Weightage:        100,
		WeightageEnabled: true,
		CustomRatings:    model.ScoreMap{"excellent": 100, "average": 50, "poor": 0},
	}
	template := buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{param}})

	result, err := Score(template, []Rating{{ParameterID: "p1", Value: "average"}})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if result.FinalScore != 50.00 {
		t.Errorf("FinalScore = %v, want 50.00", result.FinalScore)
	}
}

// ========== 校验失败测试 ==========

func TestScore_ValidationErrors(t *testing.T) {
	commentRequired := yesNoParam("p1", 100, false)
	commentRequired.RequiresComment = true

	tests := []struct {
		name     string
		template *model.EvaluationTemplate
		ratings  []Rating
	}{
		{
			name: "missing parameter score",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				yesNoParam("p1", 50, false), yesNoParam("p2", 50, false),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "yes"}},
		},
		{
			name: "surplus score for unknown parameter",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				yesNoParam("p1", 100, false),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "yes"}, {ParameterID: "ghost", Value: "yes"}},
		},
		{
			name: "duplicate score",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				yesNoParam("p1", 100, false),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "yes"}, {ParameterID: "p1", Value: "no"}},
		},
		{
			name: "invalid yes_no_na value",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				yesNoParam("p1", 100, false),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "maybe"}},
		},
		{
			name: "numeric out of range",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				numericParam("p1", 100),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "6"}},
		},
		{
			name: "numeric not a number",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				numericParam("p1", 100),
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "good"}},
		},
		{
			name: "unmapped custom value",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{
				{ID: "p1", Name: "p1", RatingType: model.RatingTypeCustom, Weightage: 100, WeightageEnabled: true,
					CustomRatings: model.ScoreMap{"good": 100}},
			}}),
			ratings: []Rating{{ParameterID: "p1", Value: "bad"}},
		},
		{
			name:     "missing required comment",
			template: buildTemplate(model.Pillar{ID: "a", Weightage: 100, Parameters: []model.Parameter{commentRequired}}),
			ratings:  []Rating{{ParameterID: "p1", Value: "no"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(tt.template, tt.ratings)
			if err == nil {
				t.Fatal("Score() error = nil, want validation error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
		})
	}
}

// ========== 精度测试 ==========

func TestScore_TwoDecimalRounding(t *testing.T) {
	// 三个等权维度各 100/0/100 → 66.666... → 66.67
	template := buildTemplate(
		model.Pillar{ID: "a", Weightage: 10, Parameters: []model.Parameter{yesNoParam("p1", 100, false)}},
		model.Pillar{ID: "b", Weightage: 10, Parameters: []model.Parameter{yesNoParam("p2", 100, false)}},
		model.Pillar{ID: "c", Weightage: 10, Parameters: []model.Parameter{yesNoParam("p3", 100, false)}},
	)
	result, err := Score(template, []Rating{
		{ParameterID: "p1", Value: "yes"},
		{ParameterID: "p2", Value: "no"},
		{ParameterID: "p3", Value: "yes"},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.Abs(result.FinalScore-66.67) > 1e-9 {
		t.Errorf("FinalScore = %v, want 66.67", result.FinalScore)
	}
}
