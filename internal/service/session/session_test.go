// Package session 提供草稿管理器单元测试
package session

import (
	"context"
	"testing"
)

// ========== Manager 测试 ==========

func TestNewManager(t *testing.T) {
	// nil redis 客户端
	manager := NewManager(nil)

	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}
	if manager.memory == nil {
		t.Error("manager.memory should be initialized")
	}
}

func TestManager_Get_CreateNew(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	draft, err := manager.Get(ctx, "alloc-1")

	if err != nil {
		t.Errorf("Get() unexpected error: %v", err)
	}
	if draft == nil {
		t.Fatal("Get() returned nil draft")
	}
	if draft.AllocationID != "alloc-1" {
		t.Errorf("AllocationID = %q, want 'alloc-1'", draft.AllocationID)
	}
	if len(draft.Ratings) != 0 {
		t.Errorf("Ratings should be empty, got %d", len(draft.Ratings))
	}
}

func TestManager_SaveRating(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	err := manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{
		ParameterID: "param-1",
		Value:       "yes",
	})

	if err != nil {
		t.Errorf("SaveRating() unexpected error: %v", err)
	}

	ratings, _ := manager.GetRatings(ctx, "alloc-1")
	if len(ratings) != 1 {
		t.Fatalf("Ratings count = %d, want 1", len(ratings))
	}
	if ratings[0].Value != "yes" {
		t.Errorf("Value = %q, want 'yes'", ratings[0].Value)
	}
}

func TestManager_SaveRating_Upsert(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	// 同一参数保存两次应覆盖而不是追加
	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-1", Value: "yes"})
	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{
		ParameterID: "param-1",
		Value:       "no",
		Comment:     "missed greeting",
		NoReason:    "skipped intro",
	})

	ratings, _ := manager.GetRatings(ctx, "alloc-1")
	if len(ratings) != 1 {
		t.Fatalf("Ratings count = %d, want 1", len(ratings))
	}
	if ratings[0].Value != "no" {
		t.Errorf("Value = %q, want 'no'", ratings[0].Value)
	}
	if ratings[0].Comment != "missed greeting" {
		t.Errorf("Comment = %q, want 'missed greeting'", ratings[0].Comment)
	}
}

func TestManager_SaveRating_MultipleParameters(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-1", Value: "yes"})
	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-2", Value: "3"})
	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-3", Value: "na"})

	ratings, _ := manager.GetRatings(ctx, "alloc-1")
	if len(ratings) != 3 {
		t.Errorf("Ratings count = %d, want 3", len(ratings))
	}
}

func TestManager_GetRatings_Copy(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-1", Value: "yes"})

	ratings, _ := manager.GetRatings(ctx, "alloc-1")
	ratings[0].Value = "no"

	// 修改返回的切片不应影响草稿
	fresh, _ := manager.GetRatings(ctx, "alloc-1")
	if fresh[0].Value != "yes" {
		t.Errorf("Value = %q, want 'yes'", fresh[0].Value)
	}
}

func TestManager_Clear(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-1", Value: "yes"})

	err := manager.Clear(ctx, "alloc-1")
	if err != nil {
		t.Errorf("Clear() unexpected error: %v", err)
	}

	// 验证草稿已从内存中删除
	_, exists := manager.memory["alloc-1"]
	if exists {
		t.Error("Draft should be removed from memory after Clear")
	}
}

func TestManager_DraftsIsolated(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	manager.SaveRating(ctx, "alloc-1", "analyst-1", DraftRating{ParameterID: "param-1", Value: "yes"})
	manager.SaveRating(ctx, "alloc-2", "analyst-2", DraftRating{ParameterID: "param-1", Value: "no"})

	r1, _ := manager.GetRatings(ctx, "alloc-1")
	r2, _ := manager.GetRatings(ctx, "alloc-2")

	if r1[0].Value != "yes" {
		t.Errorf("alloc-1 value = %q, want 'yes'", r1[0].Value)
	}
	if r2[0].Value != "no" {
		t.Errorf("alloc-2 value = %q, want 'no'", r2[0].Value)
	}
}
