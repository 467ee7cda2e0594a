// Package template 提供评估模板的管理
package template

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
)

// ErrTemplateLocked 启用或归档的模板不能修改结构
var ErrTemplateLocked = errors.New("only draft templates can be modified")

// Service 模板服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建模板服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// ParameterInput 参数定义
type ParameterInput struct {
	Name             string         `json:"name" binding:"required"`
	RatingType       string         `json:"rating_type"`
	Weightage        float64        `json:"weightage"`
	WeightageEnabled *bool          `json:"weightage_enabled"`
	IsFatal          bool           `json:"is_fatal"`
	RequiresComment  bool           `json:"requires_comment"`
	NoReasons        []string       `json:"no_reasons"`
	CustomRatings    model.ScoreMap `json:"custom_ratings"`
}

// PillarInput 维度定义
type PillarInput struct {
	Name       string           `json:"name" binding:"required"`
	Weightage  float64          `json:"weightage"`
	Parameters []ParameterInput `json:"parameters" binding:"required"`
}

// CreateRequest 创建模板请求
type CreateRequest struct {
	OrganizationID    string
	ProcessID         string        `json:"process_id"`
	Name              string        `json:"name" binding:"required"`
	Description       string        `json:"description"`
	FeedbackThreshold *float64      `json:"feedback_threshold"`
	Pillars           []PillarInput `json:"pillars"`
}

// Warnings 创建/更新时的非阻断提示
type Warnings []string

// Create 创建草稿模板
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*model.EvaluationTemplate, Warnings, error) {
	pillars, warnings, err := buildPillars(req.Pillars)
	if err != nil {
		return nil, nil, err
	}

	template := &model.EvaluationTemplate{
		OrganizationID:    req.OrganizationID,
		ProcessID:         req.ProcessID,
		Name:              req.Name,
		Description:       req.Description,
		FeedbackThreshold: req.FeedbackThreshold,
		Status:            model.TemplateStatusDraft,
		Pillars:           pillars,
	}

	if err := s.repo.Template.Create(template); err != nil {
		return nil, nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, warnings, nil
}

// buildPillars 把请求转成模型并做结构校验，权重偏差记为提示
func buildPillars(inputs []PillarInput) ([]model.Pillar, Warnings, error) {
	var warnings Warnings
	pillars := make([]model.Pillar, 0, len(inputs))
	pillarWeight := 0.0

	for i, pi := range inputs {
		if len(pi.Parameters) == 0 {
			return nil, nil, fmt.Errorf("pillar %q has no parameters", pi.Name)
		}
		pillar := model.Pillar{
			Name:      pi.Name,
			Weightage: pi.Weightage,
			Sequence:  i,
		}
		pillarWeight += pi.Weightage

		paramWeight := 0.0
		for j, pp := range pi.Parameters {
			ratingType := model.RatingType(pp.RatingType)
			if ratingType == "" {
				ratingType = model.RatingTypeYesNoNA
			}
			switch ratingType {
			case model.RatingTypeYesNoNA, model.RatingTypeNumeric:
			case model.RatingTypeCustom:
				if len(pp.CustomRatings) == 0 {
					return nil, nil, fmt.Errorf("custom parameter %q needs a rating map", pp.Name)
				}
			default:
				return nil, nil, fmt.Errorf("unknown rating type %q", pp.RatingType)
			}

			enabled := true
			if pp.WeightageEnabled != nil {
				enabled = *pp.WeightageEnabled
			}
			if enabled {
				paramWeight += pp.Weightage
			}
			pillar.Parameters = append(pillar.Parameters, model.Parameter{
				Name:             pp.Name,
				RatingType:       ratingType,
				Weightage:        pp.Weightage,
				WeightageEnabled: enabled,
				IsFatal:          pp.IsFatal,
				RequiresComment:  pp.RequiresComment,
				NoReasons:        pp.NoReasons,
				CustomRatings:    pp.CustomRatings,
				Sequence:         j,
			})
		}
		if paramWeight > 0 && math.Abs(paramWeight-100) > 0.01 {
			warnings = append(warnings, fmt.Sprintf("pillar %q parameter weightage sums to %.2f, not 100", pi.Name, paramWeight))
		}
		pillars = append(pillars, pillar)
	}

	if len(pillars) > 0 && math.Abs(pillarWeight-100) > 0.01 {
		warnings = append(warnings, fmt.Sprintf("pillar weightage sums to %.2f, not 100", pillarWeight))
	}
	return pillars, warnings, nil
}

// Get 获取模板
func (s *Service) Get(ctx context.Context, id string) (*model.EvaluationTemplate, error) {
	return s.repo.Template.GetByID(id)
}

// GetActive 获取组织当前启用的模板
func (s *Service) GetActive(ctx context.Context, orgID string) (*model.EvaluationTemplate, error) {
	return s.repo.Template.GetActive(orgID)
}

// List 列出模板
func (s *Service) List(ctx context.Context, orgID, status string, limit, offset int) ([]*model.EvaluationTemplate, int64, error) {
	return s.repo.Template.List(orgID, status, limit, offset)
}

// UpdateRequest 更新模板请求
type UpdateRequest struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	FeedbackThreshold *float64      `json:"feedback_threshold"`
	Pillars           []PillarInput `json:"pillars"`
}

// Update 更新草稿模板，Pillars 非空时整体替换结构
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*model.EvaluationTemplate, Warnings, error) {
	template, err := s.repo.Template.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if template.Status != model.TemplateStatusDraft {
		return nil, nil, ErrTemplateLocked
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	if req.Description != "" {
		template.Description = req.Description
	}
	if req.FeedbackThreshold != nil {
		template.FeedbackThreshold = req.FeedbackThreshold
	}

	var warnings Warnings
	if len(req.Pillars) > 0 {
		pillars, w, err := buildPillars(req.Pillars)
		if err != nil {
			return nil, nil, err
		}
		warnings = w
		if err := s.repo.Template.ReplaceStructure(id, pillars); err != nil {
			return nil, nil, fmt.Errorf("failed to replace template structure: %w", err)
		}
	}

	template.Pillars = nil
	if err := s.repo.Template.Update(template); err != nil {
		return nil, nil, err
	}

	updated, err := s.repo.Template.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	return updated, warnings, nil
}

// Activate 启用模板，同组织其他启用模板转为归档
func (s *Service) Activate(ctx context.Context, id string) (*model.EvaluationTemplate, error) {
	template, err := s.repo.Template.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(template.Pillars) == 0 {
		return nil, errors.New("template has no pillars, cannot activate")
	}

	if err := s.repo.Template.DeactivateOthers(template.OrganizationID, id); err != nil {
		return nil, err
	}
	if err := s.repo.Template.UpdateStatus(id, model.TemplateStatusActive); err != nil {
		return nil, err
	}
	template.Status = model.TemplateStatusActive
	return template, nil
}

// Archive 归档模板
func (s *Service) Archive(ctx context.Context, id string) error {
	if _, err := s.repo.Template.GetByID(id); err != nil {
		return err
	}
	return s.repo.Template.UpdateStatus(id, model.TemplateStatusArchived)
}

// Delete 删除草稿模板
func (s *Service) Delete(ctx context.Context, id string) error {
	template, err := s.repo.Template.GetByID(id)
	if err != nil {
		return err
	}
	if template.Status != model.TemplateStatusDraft {
		return ErrTemplateLocked
	}
	return s.repo.Template.Delete(id)
}
