// Package scoring 提供评估模板的加权评分计算
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ashwinyue/next-qa/internal/model"
)

// ErrValidation 评分输入校验失败
var ErrValidation = errors.New("invalid score input")

// 数值评分的取值范围（1-5 线性映射到 0-100）
const (
	numericMin = 1.0
	numericMax = 5.0
)

// Rating 单参数的原始评分输入
type Rating struct {
	ParameterID string `json:"parameter_id"`
	Value       string `json:"score"`
	Comment     string `json:"comment,omitempty"`
	NoReason    string `json:"no_reason,omitempty"`
}

// ParameterResult 单参数的换算结果
type ParameterResult struct {
	ParameterID string
	Rating      string
	Achieved    float64 // 0-100
	Excluded    bool    // N/A：不计入分子也不计入分母
	Fatal       bool    // 致命项且评分为失败
	Comment     string
	NoReason    string
}

// PillarResult 单维度得分
type PillarResult struct {
	PillarID string
	Score    float64
	Weight   float64
	Excluded bool // 维度内全部参数被排除
}

// Result 评分结果
// 致命项策略：任一致命参数评分失败时 FinalScore 置 0 且 HasFatalError 为 true，
// 覆盖前的加权得分保留在 RawScore 中供报表使用
type Result struct {
	FinalScore    float64
	RawScore      float64
	HasFatalError bool
	Pillars       []PillarResult
	Parameters    []ParameterResult
}

// Score 依据模板计算加权总分
// 模板中每个参数都必须有对应评分，缺失或多余均返回校验错误
func Score(template *model.EvaluationTemplate, ratings []Rating) (*Result, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: template is required", ErrValidation)
	}

	byParam := make(map[string]Rating, len(ratings))
	for _, r := range ratings {
		if _, dup := byParam[r.ParameterID]; dup {
			return nil, fmt.Errorf("%w: duplicate score for parameter %s", ErrValidation, r.ParameterID)
		}
		byParam[r.ParameterID] = r
	}

	known := 0
	for _, pillar := range template.Pillars {
		known += len(pillar.Parameters)
	}
	// 多余的评分同样视为策略错误，避免静默吞掉打错位置的分数
	if len(byParam) > known {
		return nil, fmt.Errorf("%w: %d scores submitted for %d parameters", ErrValidation, len(byParam), known)
	}

	result := &Result{}

	var pillarWeightSum, pillarWeightedSum float64
	for _, pillar := range template.Pillars {
		pr := PillarResult{PillarID: pillar.ID, Weight: pillar.Weightage}

		var paramWeightSum, paramWeightedSum float64
		for _, param := range pillar.Parameters {
			rating, ok := byParam[param.ID]
			if !ok {
				return nil, fmt.Errorf("%w: missing score for parameter %q", ErrValidation, param.Name)
			}
			if param.RequiresComment && rating.Comment == "" {
				return nil, fmt.Errorf("%w: parameter %q requires a comment", ErrValidation, param.Name)
			}

			paramResult, err := scoreParameter(&param, rating)
			if err != nil {
				return nil, err
			}
			result.Parameters = append(result.Parameters, paramResult)

			if paramResult.Fatal {
				result.HasFatalError = true
			}
			if paramResult.Excluded || !param.WeightageEnabled {
				continue
			}
			paramWeightSum += param.Weightage
			paramWeightedSum += param.Weightage * paramResult.Achieved
		}

		// 维度内无有效参数（全部 N/A 或未启用权重）时整个维度不计入总分
		if paramWeightSum == 0 {
			pr.Excluded = true
			result.Pillars = append(result.Pillars, pr)
			continue
		}

		pr.Score = paramWeightedSum / paramWeightSum
		result.Pillars = append(result.Pillars, pr)

		pillarWeightSum += pillar.Weightage
		pillarWeightedSum += pillar.Weightage * pr.Score
	}

	if pillarWeightSum > 0 {
		result.RawScore = round2(pillarWeightedSum / pillarWeightSum)
	}

	if result.HasFatalError {
		result.FinalScore = 0
	} else {
		result.FinalScore = result.RawScore
	}

	return result, nil
}

// scoreParameter 将单参数的原始评分换算为 0-100 得分
func scoreParameter(param *model.Parameter, rating Rating) (ParameterResult, error) {
	pr := ParameterResult{
		ParameterID: param.ID,
		Rating:      rating.Value,
		Comment:     rating.Comment,
		NoReason:    rating.NoReason,
	}

	switch param.RatingType {
	case model.RatingTypeYesNoNA:
		switch rating.Value {
		case model.RatingYes:
			pr.Achieved = 100
		case model.RatingNo:
			pr.Achieved = 0
		case model.RatingNA:
			pr.Excluded = true
		default:
			return pr, fmt.Errorf("%w: parameter %q expects yes/no/na, got %q", ErrValidation, param.Name, rating.Value)
		}

	case model.RatingTypeNumeric:
		v, err := strconv.ParseFloat(rating.Value, 64)
		if err != nil {
			return pr, fmt.Errorf("%w: parameter %q expects a numeric rating, got %q", ErrValidation, param.Name, rating.Value)
		}
		if v < numericMin || v > numericMax {
			return pr, fmt.Errorf("%w: parameter %q rating %v out of range %v-%v", ErrValidation, param.Name, v, numericMin, numericMax)
		}
		pr.Achieved = (v - numericMin) / (numericMax - numericMin) * 100

	case model.RatingTypeCustom:
		score, ok := param.CustomRatings[rating.Value]
		if !ok {
			return pr, fmt.Errorf("%w: parameter %q has no mapping for rating %q", ErrValidation, param.Name, rating.Value)
		}
		pr.Achieved = score

	default:
		return pr, fmt.Errorf("%w: parameter %q has unknown rating type %q", ErrValidation, param.Name, param.RatingType)
	}

	// 致命项：未被排除且得分为 0 视为失败（yes_no_na 的 "no"、映射为 0 的自定义评分）
	if param.IsFatal && !pr.Excluded && pr.Achieved == 0 {
		pr.Fatal = true
	}

	return pr, nil
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
