package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/repository"
	"github.com/ashwinyue/next-qa/internal/service/audioimport"
)

// ErrNoPendingFiles 没有满足条件的待分配文件
var ErrNoPendingFiles = errors.New("no pending audio files match the request")

// Service 录音分配服务，负责把分配方案落库
type Service struct {
	repo *repository.Repositories
}

// NewService 创建分配服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// AllocateRequest 分配请求
type AllocateRequest struct {
	OrganizationID string
	AllocatedBy    string
	TemplateID     string     `json:"template_id"`
	FileIDs        []string   `json:"file_ids"` // 为空时取全部待分配文件
	Language       string     `json:"language"`
	Version        string     `json:"version"`
	Targets        []Target   `json:"targets" binding:"required"`
	Strategy       Strategy   `json:"strategy"`
	Shuffle        bool       `json:"shuffle"`
	DueDate        *time.Time `json:"due_date"`
}

// AllocateResult 分配结果
type AllocateResult struct {
	Allocated  int            `json:"allocated"`
	Skipped    int            `json:"skipped"` // 分配期间状态发生变化被跳过的文件
	Unassigned int            `json:"unassigned"`
	PerAnalyst map[string]int `json:"per_analyst"`
}

// Allocate 把待分配的录音按目标数量分配给质检分析师
// 落库在单个事务内完成，对候选文件加行锁防止并发分配
func (s *Service) Allocate(ctx context.Context, req *AllocateRequest) (*AllocateResult, error) {
	// 校验分析师都是本组织的质检角色
	for _, t := range req.Targets {
		analyst, err := s.repo.Auth.GetUserByID(t.AnalystID)
		if err != nil {
			return nil, fmt.Errorf("analyst %s not found: %w", t.AnalystID, err)
		}
		if analyst.OrganizationID != req.OrganizationID {
			return nil, fmt.Errorf("analyst %s does not belong to this organization", t.AnalystID)
		}
		if analyst.Role != model.RoleQualityAnalyst && analyst.Role != model.RoleAdmin {
			return nil, fmt.Errorf("user %s is not a quality analyst", t.AnalystID)
		}
	}

	candidates, err := s.candidateFiles(req)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoPendingFiles
	}

	refs := make([]FileRef, len(candidates))
	for i, f := range candidates {
		refs[i] = FileRef{ID: f.ID, Agent: audioimport.AgentIdentifier(f.Metadata)}
	}

	plan, err := Distribute(refs, req.Targets, Options{
		Strategy: req.Strategy,
		Shuffle:  req.Shuffle,
	})
	if err != nil {
		return nil, err
	}

	result := &AllocateResult{PerAnalyst: make(map[string]int, len(req.Targets))}
	for _, t := range req.Targets {
		result.PerAnalyst[t.AnalystID] = 0
	}

	planned := make([]string, 0, len(plan.Assignments))
	analystByFile := make(map[string]string, len(plan.Assignments))
	for _, a := range plan.Assignments {
		planned = append(planned, a.FileID)
		analystByFile[a.FileID] = a.AnalystID
	}

	err = s.repo.DB.Transaction(func(tx *gorm.DB) error {
		// 重新加锁校验：方案生成期间文件可能被其他请求分走
		locked, err := s.repo.Audio.ListPendingForUpdate(tx, req.OrganizationID, planned)
		if err != nil {
			return err
		}
		lockedSet := make(map[string]struct{}, len(locked))
		for _, f := range locked {
			lockedSet[f.ID] = struct{}{}
		}

		allocations := make([]*model.AudioFileAllocation, 0, len(locked))
		for _, fileID := range planned {
			if _, ok := lockedSet[fileID]; !ok {
				result.Skipped++
				continue
			}
			analystID := analystByFile[fileID]
			allocations = append(allocations, &model.AudioFileAllocation{
				AudioFileID: fileID,
				AnalystID:   analystID,
				AllocatedBy: req.AllocatedBy,
				TemplateID:  req.TemplateID,
				DueDate:     req.DueDate,
				Status:      model.AllocationStatusAllocated,
			})
			if err := s.repo.Audio.UpdateStatusTx(tx, fileID, model.AudioFileStatusAllocated); err != nil {
				return err
			}
			result.Allocated++
			result.PerAnalyst[analystID]++
		}

		return s.repo.Audio.CreateAllocationsTx(tx, allocations)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist allocation: %w", err)
	}

	result.Unassigned = len(plan.Unassigned)
	return result, nil
}

// candidateFiles 取分配候选文件
func (s *Service) candidateFiles(req *AllocateRequest) ([]*model.AudioFile, error) {
	files, err := s.repo.Audio.ListPending(req.OrganizationID, req.Language, req.Version)
	if err != nil {
		return nil, err
	}
	if len(req.FileIDs) == 0 {
		return files, nil
	}

	want := make(map[string]struct{}, len(req.FileIDs))
	for _, id := range req.FileIDs {
		want[id] = struct{}{}
	}
	filtered := files[:0]
	for _, f := range files {
		if _, ok := want[f.ID]; ok {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// Cancel 取消分配，文件回到待分配状态
func (s *Service) Cancel(ctx context.Context, allocationID string) error {
	alloc, err := s.repo.Audio.GetAllocationByID(allocationID)
	if err != nil {
		return err
	}
	if alloc.Status != model.AllocationStatusAllocated {
		return fmt.Errorf("allocation %s is %s, only allocated ones can be cancelled", allocationID, alloc.Status)
	}

	return s.repo.DB.Transaction(func(tx *gorm.DB) error {
		alloc.Status = model.AllocationStatusCancelled
		if err := s.repo.Audio.UpdateAllocationTx(tx, alloc); err != nil {
			return err
		}
		return s.repo.Audio.UpdateStatusTx(tx, alloc.AudioFileID, model.AudioFileStatusPending)
	})
}

// Workload 质检分析师当前待评估数量
func (s *Service) Workload(ctx context.Context, analystID string) (int64, error) {
	return s.repo.Audio.CountAllocationsByAnalyst(analystID)
}

// Get 获取分配详情
func (s *Service) Get(ctx context.Context, allocationID string) (*model.AudioFileAllocation, error) {
	return s.repo.Audio.GetAllocationByID(allocationID)
}

// ListByAnalyst 质检分析师的分配列表
func (s *Service) ListByAnalyst(ctx context.Context, analystID, status string, limit, offset int) ([]*model.AudioFileAllocation, int64, error) {
	return s.repo.Audio.ListAllocationsByAnalyst(analystID, status, limit, offset)
}
