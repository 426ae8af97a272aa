package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/pkg/jwt"
	"github.com/ErfanTavana/unischedule/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证上游签发的 Access Token，
// 把 user_id / role / institution_id 注入上下文；institution_id 是所有
// 业务查询的租户作用域
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		institutionID, err := claims.InstitutionIDUint()
		if err != nil || institutionID == 0 {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 缺少有效的租户信息")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("institution_id", institutionID)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}
