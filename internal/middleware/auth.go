package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/model"
	"github.com/ashwinyue/next-qa/internal/service"
)

// RequireAuth 要求有效认证的中间件
// 必须提供有效的 JWT token，否则返回 401
func RequireAuth(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{
				"code": 401,
				"msg":  "Missing Authorization header",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(401, gin.H{
				"code": 401,
				"msg":  "Invalid Authorization header format",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := svc.Auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(401, gin.H{
				"code": 401,
				"msg":  "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Token 有效，设置用户到上下文
		c.Set("user", user)
		c.Set("user_id", user.ID)
		if user.OrganizationID != "" {
			c.Set("organization_id", user.OrganizationID)
		}
		c.Next()
	}
}

// RequireRole 要求指定角色之一，需在 RequireAuth 之后使用
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.JSON(401, gin.H{"code": 401, "msg": "Not authenticated"})
			c.Abort()
			return
		}
		// 管理员不受角色限制
		if user.Role == model.RoleAdmin || allowed[user.Role] {
			c.Next()
			return
		}
		c.JSON(403, gin.H{"code": 403, "msg": "Insufficient role"})
		c.Abort()
	}
}

// RequirePermission 要求角色权限，需在 RequireAuth 之后使用
func RequirePermission(svc *service.Services, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.JSON(401, gin.H{"code": 401, "msg": "Not authenticated"})
			c.Abort()
			return
		}
		granted, err := svc.Auth.HasPermission(c.Request.Context(), user, permission)
		if err != nil {
			c.JSON(500, gin.H{"code": 500, "msg": "Permission check failed"})
			c.Abort()
			return
		}
		if !granted {
			c.JSON(403, gin.H{"code": 403, "msg": "Permission denied: " + permission})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser 从上下文获取当前用户
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetOrganizationID 从上下文获取当前组织ID
func GetOrganizationID(c *gin.Context) string {
	if orgID, exists := c.Get("organization_id"); exists {
		if id, ok := orgID.(string); ok {
			return id
		}
	}
	return ""
}
