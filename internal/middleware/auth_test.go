package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextWithUser(w *httptest.ResponseRecorder, user *model.User) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if user != nil {
		c.Set("user", user)
		c.Set("user_id", user.ID)
		if user.OrganizationID != "" {
			c.Set("organization_id", user.OrganizationID)
		}
	}
	return c
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, testutil.NewUser("u1", model.RoleTrainer))

	RequireRole(model.RoleTrainer)(c)

	assert.False(c.IsAborted())
}

func TestRequireRoleAdminBypass(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, testutil.NewUser("u1", model.RoleAdmin))

	RequireRole(model.RoleQualityAnalyst)(c)

	assert.False(c.IsAborted())
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, testutil.NewUser("u1", model.RoleAgent))

	RequireRole(model.RoleTrainer, model.RoleQualityAnalyst)(c)

	assert.True(c.IsAborted())
	assert.Equal(http.StatusForbidden, w.Code)
}

func TestRequireRoleWithoutUser(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, nil)

	RequireRole(model.RoleTrainer)(c)

	assert.True(c.IsAborted())
	assert.Equal(http.StatusUnauthorized, w.Code)
}

func TestContextAccessors(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, testutil.NewOrgUser("u1", model.RoleAgent, "org1"))

	user, ok := GetCurrentUser(c)
	assert.True(ok)
	assert.Equal("u1", user.ID)

	id, ok := GetUserID(c)
	assert.True(ok)
	assert.Equal("u1", id)

	assert.Equal("org1", GetOrganizationID(c))
}

func TestContextAccessorsEmpty(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c := contextWithUser(w, nil)

	_, ok := GetCurrentUser(c)
	assert.False(ok)

	_, ok = GetUserID(c)
	assert.False(ok)

	assert.Equal("", GetOrganizationID(c))
}
