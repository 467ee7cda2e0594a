package repository

import (
	"github.com/ashwinyue/next-qa/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AudioRepository 音频文件数据访问
type AudioRepository struct {
	db *gorm.DB
}

// NewAudioRepository 创建音频仓库
func NewAudioRepository(db *gorm.DB) *AudioRepository {
	return &AudioRepository{db: db}
}

// DB 返回底层连接，供服务层开启事务
func (r *AudioRepository) DB() *gorm.DB {
	return r.db
}

// Create 创建音频文件
func (r *AudioRepository) Create(file *model.AudioFile) error {
	return r.db.Create(file).Error
}

// CreateBatch 批量创建音频文件
func (r *AudioRepository) CreateBatch(files []*model.AudioFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.Create(files).Error
}

// GetByID 获取音频文件
func (r *AudioRepository) GetByID(id string) (*model.AudioFile, error) {
	var file model.AudioFile
	err := r.db.Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByFilename 按容器和文件名查找
func (r *AudioRepository) GetByFilename(orgID, container, filename string) (*model.AudioFile, error) {
	var file model.AudioFile
	err := r.db.Where("organization_id = ? AND container_name = ? AND filename = ?",
		orgID, container, filename).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// List 列出组织的音频文件
func (r *AudioRepository) List(orgID string, status string, limit, offset int) ([]*model.AudioFile, int64, error) {
	var files []*model.AudioFile
	var total int64

	query := r.db.Model(&model.AudioFile{}).Where("organization_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&files).Error
	return files, total, err
}

// ListPendingForUpdate 在事务内加行锁取出待分配的文件
func (r *AudioRepository) ListPendingForUpdate(tx *gorm.DB, orgID string, ids []string) ([]*model.AudioFile, error) {
	var files []*model.AudioFile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND status = ? AND id IN ?", orgID, model.AudioFileStatusPending, ids).
		Order("created_at").
		Find(&files).Error
	return files, err
}

// ListPending 列出待分配的文件
func (r *AudioRepository) ListPending(orgID string, language, version string) ([]*model.AudioFile, error) {
	query := r.db.Where("organization_id = ? AND status = ?", orgID, model.AudioFileStatusPending)
	if language != "" {
		query = query.Where("language = ?", language)
	}
	if version != "" {
		query = query.Where("version = ?", version)
	}
	var files []*model.AudioFile
	err := query.Order("created_at").Find(&files).Error
	return files, err
}

// Update 更新音频文件
func (r *AudioRepository) Update(file *model.AudioFile) error {
	return r.db.Save(file).Error
}

// UpdateStatusTx 在事务内更新文件状态
func (r *AudioRepository) UpdateStatusTx(tx *gorm.DB, id string, status model.AudioFileStatus) error {
	return tx.Model(&model.AudioFile{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除音频文件
func (r *AudioRepository) Delete(id string) error {
	return r.db.Delete(&model.AudioFile{}, "id = ?", id).Error
}

// ========== 分配 ==========

// CreateAllocationsTx 在事务内批量创建分配记录
func (r *AudioRepository) CreateAllocationsTx(tx *gorm.DB, allocations []*model.AudioFileAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return tx.Create(allocations).Error
}

// GetAllocationByID 获取分配记录
func (r *AudioRepository) GetAllocationByID(id string) (*model.AudioFileAllocation, error) {
	var allocation model.AudioFileAllocation
	err := r.db.Where("id = ?", id).First(&allocation).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

// GetActiveAllocationByFile 获取文件当前有效的分配
func (r *AudioRepository) GetActiveAllocationByFile(fileID string) (*model.AudioFileAllocation, error) {
	var allocation model.AudioFileAllocation
	err := r.db.Where("audio_file_id = ? AND status = ?", fileID, model.AllocationStatusAllocated).
		First(&allocation).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

// ListAllocationsByAnalyst 列出质检员名下的分配
func (r *AudioRepository) ListAllocationsByAnalyst(analystID string, status string, limit, offset int) ([]*model.AudioFileAllocation, int64, error) {
	var allocations []*model.AudioFileAllocation
	var total int64

	query := r.db.Model(&model.AudioFileAllocation{}).Where("analyst_id = ?", analystID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("AudioFile").Limit(limit).Offset(offset).
		Order("created_at DESC").Find(&allocations).Error
	return allocations, total, err
}

// UpdateAllocation 更新分配记录
func (r *AudioRepository) UpdateAllocation(allocation *model.AudioFileAllocation) error {
	return r.db.Save(allocation).Error
}

// UpdateAllocationTx 在事务内更新分配记录
func (r *AudioRepository) UpdateAllocationTx(tx *gorm.DB, allocation *model.AudioFileAllocation) error {
	return tx.Save(allocation).Error
}

// CountAllocationsByAnalyst 统计质检员未完成的分配数
func (r *AudioRepository) CountAllocationsByAnalyst(analystID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.AudioFileAllocation{}).
		Where("analyst_id = ? AND status = ?", analystID, model.AllocationStatusAllocated).
		Count(&count).Error
	return count, err
}
