package audioimport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
	"github.com/ashwinyue/next-qa/internal/service/storage"
)

// Service 录音元数据导入服务
// 解析 Excel、与对象存储中的文件匹配、入库待分配记录
type Service struct {
	repo    *repository.Repositories
	storage *storage.Service
}

// NewService 创建导入服务
func NewService(repo *repository.Repositories, store *storage.Service) *Service {
	return &Service{repo: repo, storage: store}
}

// StorageEnabled 对象存储是否已配置
func (s *Service) StorageEnabled() bool {
	return s.storage != nil
}

// ImportOptions 导入选项
type ImportOptions struct {
	OrganizationID string
	Container      string
	BatchID        string
	Language       string // 覆盖表格中的 language 列
	Version        string // 覆盖表格中的 version 列
}

// ImportResult 导入结果
type ImportResult struct {
	TotalRows     int      `json:"total_rows"`
	Imported      int      `json:"imported"`
	Duplicates    int      `json:"duplicates"`     // 已存在于库中的文件
	StorageMisses []string `json:"storage_misses"` // 存储中找不到的文件
	RowErrors     []string `json:"row_errors"`     // 行级解析错误
	ImportedIDs   []string `json:"imported_ids"`
}

// newImportResult 以解析结果初始化导入统计，行级错误原样带入
func newImportResult(parsed *ParseResult) *ImportResult {
	result := &ImportResult{TotalRows: parsed.TotalRows}
	result.RowErrors = append(result.RowErrors, parsed.RowErrors...)
	return result
}

// Import 解析元数据表格并登记录音文件
func (s *Service) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	parsed, err := ParseMetadataFile(r)
	if err != nil {
		return nil, err
	}

	result := newImportResult(parsed)

	// 存储中实际存在的文件集合
	var known map[string]struct{}
	if s.storage != nil && opts.Container != "" {
		blobs, err := s.storage.ListBlobs(ctx, opts.Container, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list container %s: %w", opts.Container, err)
		}
		known = make(map[string]struct{}, len(blobs))
		for _, b := range blobs {
			known[b.Name] = struct{}{}
		}
	}

	files := make([]*model.AudioFile, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		if known != nil {
			if _, ok := known[row.Filename]; !ok {
				result.StorageMisses = append(result.StorageMisses, row.Filename)
				continue
			}
		}

		if _, err := s.repo.Audio.GetByFilename(opts.OrganizationID, opts.Container, row.Filename); err == nil {
			result.Duplicates++
			continue
		}

		metadata := row.Metadata
		if metadata == nil {
			metadata = model.JSONMap{}
		}
		for k, v := range row.Extras {
			metadata[k] = v
		}

		language := row.Language
		if opts.Language != "" {
			language = opts.Language
		}
		version := row.Version
		if opts.Version != "" {
			version = opts.Version
		}

		files = append(files, &model.AudioFile{
			OrganizationID: opts.OrganizationID,
			BatchID:        opts.BatchID,
			Filename:       row.Filename,
			ContainerName:  opts.Container,
			Language:       language,
			Version:        version,
			CallDate:       row.CallDate,
			Metadata:       metadata,
			Status:         model.AudioFileStatusPending,
		})
	}

	if err := s.repo.Audio.CreateBatch(files); err != nil {
		return nil, fmt.Errorf("failed to save audio files: %w", err)
	}
	result.Imported = len(files)
	for _, f := range files {
		result.ImportedIDs = append(result.ImportedIDs, f.ID)
	}
	return result, nil
}

// GetFile 获取录音文件详情
func (s *Service) GetFile(ctx context.Context, fileID string) (*model.AudioFile, error) {
	return s.repo.Audio.GetByID(fileID)
}

// ListFiles 录音文件列表
func (s *Service) ListFiles(ctx context.Context, orgID, status string, limit, offset int) ([]*model.AudioFile, int64, error) {
	return s.repo.Audio.List(orgID, status, limit, offset)
}

// SignedURL 录音文件的预签名下载链接
func (s *Service) SignedURL(ctx context.Context, fileID string, expiry time.Duration) (string, string, error) {
	file, err := s.repo.Audio.GetByID(fileID)
	if err != nil {
		return "", "", err
	}
	if s.storage == nil {
		return "", "", fmt.Errorf("object storage is not configured")
	}

	url, err := s.storage.SignedURL(ctx, file.ContainerName, file.Filename, expiry)
	if err != nil {
		return "", "", err
	}
	return url, storage.ContentTypeFor(file.Filename), nil
}
