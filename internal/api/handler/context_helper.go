package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// MustGetInstitutionID 从 Gin 上下文中安全提取租户 ID。
func MustGetInstitutionID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("institution_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	return id, true
}

// parseIDParam 解析路径参数中的数值主键
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		response.BadRequest(c, response.CodeInvalidParam, "路径参数 "+name+" 无效")
		return 0, false
	}
	return uint(v), true
}
