// Package testutil 提供测试辅助工具
package testutil

import (
	"testing"

	"github.com/ashwinyue/next-qa/internal/model"
)

// NewUser 构造指定角色的测试用户
func NewUser(id, role string) *model.User {
	return &model.User{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		Role:     role,
		IsActive: true,
	}
}

// NewOrgUser 构造归属指定组织的测试用户
func NewOrgUser(id, role, orgID string) *model.User {
	u := NewUser(id, role)
	u.OrganizationID = orgID
	return u
}

// AssertHelper 提供断言相关的测试辅助
type AssertHelper struct {
	t *testing.T
}

// NewAssertHelper 创建断言辅助器
func NewAssertHelper(t *testing.T) *AssertHelper {
	return &AssertHelper{t: t}
}

// NoError 断言没有错误
func (h *AssertHelper) NoError(err error, msgAndArgs ...interface{}) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("Unexpected error: %v %v", err, msgAndArgs)
	}
}

// Equal 断言相等
func (h *AssertHelper) Equal(expected, actual interface{}, msgAndArgs ...interface{}) {
	h.t.Helper()
	if expected != actual {
		h.t.Fatalf("Expected %v, got %v %v", expected, actual, msgAndArgs)
	}
}

// NotNil 断言非 nil
func (h *AssertHelper) NotNil(v interface{}, msgAndArgs ...interface{}) {
	h.t.Helper()
	if v == nil {
		h.t.Fatal("Expected non-nil, got nil")
	}
}

// True 断言为真
func (h *AssertHelper) True(condition bool, msgAndArgs ...interface{}) {
	h.t.Helper()
	if !condition {
		h.t.Fatalf("Expected true, got false %v", msgAndArgs)
	}
}

// False 断言为假
func (h *AssertHelper) False(condition bool, msgAndArgs ...interface{}) {
	h.t.Helper()
	if condition {
		h.t.Fatalf("Expected false, got true %v", msgAndArgs)
	}
}
