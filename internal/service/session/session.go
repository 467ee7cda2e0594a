// Package session 提供评估草稿的会话管理
// 质检员填写评分时自动保存草稿，提交评估后清除
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// 草稿在 Redis 中的过期时间（24小时）
	draftTTL = 24 * time.Hour
	// Redis key 前缀
	draftKeyPrefix = "draft:"
)

// Manager 草稿管理器，内存缓存加 Redis 持久化
type Manager struct {
	mu     sync.RWMutex
	memory map[string]*Draft
	redis  *redis.Client
}

// Draft 评估草稿，以分配记录为粒度
type Draft struct {
	AllocationID string
	AnalystID    string
	TemplateID   string
	Ratings      []DraftRating
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DraftRating 草稿中的单参数评分
type DraftRating struct {
	ParameterID string `json:"parameter_id"`
	Value       string `json:"value"`
	Comment     string `json:"comment,omitempty"`
	NoReason    string `json:"no_reason,omitempty"`
}

// draftData 草稿数据（用于 Redis 存储）
type draftData struct {
	AllocationID string        `json:"allocation_id"`
	AnalystID    string        `json:"analyst_id"`
	TemplateID   string        `json:"template_id"`
	Ratings      []DraftRating `json:"ratings"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewManager 创建草稿管理器
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		memory: make(map[string]*Draft),
		redis:  redisClient,
	}
}

// Get 获取草稿，不存在则创建
func (m *Manager) Get(ctx context.Context, allocationID string) (*Draft, error) {
	m.mu.RLock()
	draft, ok := m.memory[allocationID]
	m.mu.RUnlock()

	if ok {
		return draft, nil
	}

	// 从 Redis 加载
	if m.redis != nil {
		if draft := m.loadFromRedis(ctx, allocationID); draft != nil {
			m.mu.Lock()
			m.memory[allocationID] = draft
			m.mu.Unlock()
			return draft, nil
		}
	}

	// 创建新草稿
	draft = &Draft{
		AllocationID: allocationID,
		Ratings:      []DraftRating{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.mu.Lock()
	m.memory[allocationID] = draft
	m.mu.Unlock()

	return draft, nil
}

// SaveRating 写入或更新草稿中的单项评分
func (m *Manager) SaveRating(ctx context.Context, allocationID, analystID string, rating DraftRating) error {
	draft, err := m.Get(ctx, allocationID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	draft.AnalystID = analystID
	updated := false
	for i := range draft.Ratings {
		if draft.Ratings[i].ParameterID == rating.ParameterID {
			draft.Ratings[i] = rating
			updated = true
			break
		}
	}
	if !updated {
		draft.Ratings = append(draft.Ratings, rating)
	}
	draft.UpdatedAt = time.Now()

	// 同步到 Redis
	if m.redis != nil {
		if err := m.saveToRedis(ctx, draft); err != nil {
			// 记录错误但不影响主流程
			fmt.Printf("Warning: failed to save draft to redis: %v\n", err)
		}
	}

	return nil
}

// GetRatings 获取草稿中已保存的评分
func (m *Manager) GetRatings(ctx context.Context, allocationID string) ([]DraftRating, error) {
	draft, err := m.Get(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]DraftRating{}, draft.Ratings...), nil
}

// Clear 清除草稿（提交评估后调用）
func (m *Manager) Clear(ctx context.Context, allocationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.memory, allocationID)

	// 从 Redis 删除
	if m.redis != nil {
		key := draftKeyPrefix + allocationID
		if err := m.redis.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Warning: failed to delete draft from redis: %v\n", err)
		}
	}

	return nil
}

// loadFromRedis 从 Redis 加载草稿
func (m *Manager) loadFromRedis(ctx context.Context, allocationID string) *Draft {
	key := draftKeyPrefix + allocationID
	data, err := m.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var dd draftData
	if err := json.Unmarshal([]byte(data), &dd); err != nil {
		return nil
	}

	return &Draft{
		AllocationID: dd.AllocationID,
		AnalystID:    dd.AnalystID,
		TemplateID:   dd.TemplateID,
		Ratings:      dd.Ratings,
		CreatedAt:    dd.CreatedAt,
		UpdatedAt:    dd.UpdatedAt,
	}
}

// saveToRedis 保存草稿到 Redis
func (m *Manager) saveToRedis(ctx context.Context, draft *Draft) error {
	key := draftKeyPrefix + draft.AllocationID

	dd := draftData{
		AllocationID: draft.AllocationID,
		AnalystID:    draft.AnalystID,
		TemplateID:   draft.TemplateID,
		Ratings:      draft.Ratings,
		CreatedAt:    draft.CreatedAt,
		UpdatedAt:    draft.UpdatedAt,
	}

	data, err := json.Marshal(dd)
	if err != nil {
		return err
	}

	return m.redis.Set(ctx, key, data, draftTTL).Err()
}
