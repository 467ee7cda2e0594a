package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
)

// TemplateRepository 评估模板数据访问
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓库
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create 在事务中创建模板及其支柱和参数
func (r *TemplateRepository) Create(template *model.EvaluationTemplate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(template).Error
	})
}

// GetByID 获取模板（含支柱和参数，按顺序）
func (r *TemplateRepository) GetByID(id string) (*model.EvaluationTemplate, error) {
	var template model.EvaluationTemplate
	err := r.db.
		Preload("Pillars", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Preload("Pillars.Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Where("id = ?", id).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetActive 获取组织当前启用的模板
func (r *TemplateRepository) GetActive(orgID string) (*model.EvaluationTemplate, error) {
	var template model.EvaluationTemplate
	err := r.db.
		Preload("Pillars", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Preload("Pillars.Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Where("organization_id = ? AND status = ?", orgID, model.TemplateStatusActive).
		Order("updated_at DESC").
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// List 列出组织的模板
func (r *TemplateRepository) List(orgID string, status string, limit, offset int) ([]*model.EvaluationTemplate, int64, error) {
	var templates []*model.EvaluationTemplate
	var total int64

	query := r.db.Model(&model.EvaluationTemplate{}).Where("organization_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&templates).Error
	return templates, total, err
}

// Update 更新模板主记录
func (r *TemplateRepository) Update(template *model.EvaluationTemplate) error {
	return r.db.Save(template).Error
}

// ReplaceStructure 在事务中替换模板的支柱和参数
func (r *TemplateRepository) ReplaceStructure(templateID string, pillars []model.Pillar) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var pillarIDs []string
		if err := tx.Model(&model.Pillar{}).
			Where("template_id = ?", templateID).
			Pluck("id", &pillarIDs).Error; err != nil {
			return err
		}
		if len(pillarIDs) > 0 {
			if err := tx.Delete(&model.Parameter{}, "pillar_id IN ?", pillarIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Pillar{}, "template_id = ?", templateID).Error; err != nil {
				return err
			}
		}
		for i := range pillars {
			pillars[i].TemplateID = templateID
		}
		if len(pillars) > 0 {
			if err := tx.Create(&pillars).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus 更新模板状态
func (r *TemplateRepository) UpdateStatus(id string, status model.TemplateStatus) error {
	return r.db.Model(&model.EvaluationTemplate{}).Where("id = ?", id).Update("status", status).Error
}

// DeactivateOthers 停用组织内其他启用的模板
func (r *TemplateRepository) DeactivateOthers(orgID, keepID string) error {
	return r.db.Model(&model.EvaluationTemplate{}).
		Where("organization_id = ? AND status = ? AND id <> ?", orgID, model.TemplateStatusActive, keepID).
		Update("status", model.TemplateStatusArchived).Error
}

// Delete 删除模板及其结构
func (r *TemplateRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var pillarIDs []string
		if err := tx.Model(&model.Pillar{}).
			Where("template_id = ?", id).
			Pluck("id", &pillarIDs).Error; err != nil {
			return err
		}
		if len(pillarIDs) > 0 {
			if err := tx.Delete(&model.Parameter{}, "pillar_id IN ?", pillarIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.Pillar{}, "template_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.EvaluationTemplate{}, "id = ?", id).Error
	})
}
