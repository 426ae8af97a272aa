package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/service"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
	"github.com/ErfanTavana/unischedule/pkg/response"
)

// DisplayHandler 显示屏 HTTP 处理器
// 管理端接口走认证路由；公共负载与 ICS 日历按 slug 匿名访问
type DisplayHandler struct {
	displaySvc service.DisplayService
	icsSvc     service.ICSFeedService
}

// NewDisplayHandler 创建 DisplayHandler
func NewDisplayHandler(displaySvc service.DisplayService, icsSvc service.ICSFeedService) *DisplayHandler {
	return &DisplayHandler{displaySvc: displaySvc, icsSvc: icsSvc}
}

// ────────────────────── 管理端 ──────────────────────

// CreateScreen 创建显示屏
// POST /api/v1/display-screens
func (h *DisplayHandler) CreateScreen(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.CreateDisplayScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	screen, err := h.displaySvc.CreateScreen(c.Request.Context(), institutionID, &req, callerID)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.Created(c, screen)
}

// GetScreen 获取显示屏详情
// GET /api/v1/display-screens/:id
func (h *DisplayHandler) GetScreen(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	screen, err := h.displaySvc.GetScreen(c.Request.Context(), institutionID, id)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, screen)
}

// ListScreens 列出全部显示屏
// GET /api/v1/display-screens
func (h *DisplayHandler) ListScreens(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	screens, err := h.displaySvc.ListScreens(c.Request.Context(), institutionID)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": screens})
}

// UpdateScreen 更新显示屏（筛选列整体替换）
// PUT /api/v1/display-screens/:id
func (h *DisplayHandler) UpdateScreen(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDisplayScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	screen, err := h.displaySvc.UpdateScreen(c.Request.Context(), institutionID, id, &req, callerID)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, screen)
}

// DeleteScreen 删除显示屏
// DELETE /api/v1/display-screens/:id
func (h *DisplayHandler) DeleteScreen(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.displaySvc.DeleteScreen(c.Request.Context(), institutionID, id); err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, nil)
}

// RefreshScreen 强制重建负载并回填缓存
// POST /api/v1/display-screens/:id/refresh
func (h *DisplayHandler) RefreshScreen(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payload, err := h.displaySvc.RefreshScreen(c.Request.Context(), institutionID, id)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, payload)
}

// ────────────────────── 公共读路径 ──────────────────────

// GetPublicPayload 显示屏公共负载（匿名，大屏轮询入口）
// GET /display/:slug
func (h *DisplayHandler) GetPublicPayload(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, response.CodeInvalidParam, "slug 不能为空")
		return
	}

	payload, err := h.displaySvc.GetPublicPayload(c.Request.Context(), slug)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	response.OK(c, payload)
}

// GetCalendarFeed 显示屏 ICS 日历订阅（匿名）
// GET /display/:slug/calendar.ics
func (h *DisplayHandler) GetCalendarFeed(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, response.CodeInvalidParam, "slug 不能为空")
		return
	}

	calendar, err := h.icsSvc.Calendar(c.Request.Context(), slug)
	if err != nil {
		h.handleDisplayError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}

// handleDisplayError 统一处理显示屏模块业务错误
// 停用的屏幕对匿名访问与不存在同样返回 404，避免泄露屏幕存在性
func (h *DisplayHandler) handleDisplayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScreenNotFound):
		response.NotFound(c, response.CodeNotFound, "显示屏不存在")
	case errors.Is(err, service.ErrScreenInactive):
		response.NotFound(c, response.CodeNotFound, "显示屏不存在")
	case errors.Is(err, service.ErrScreenSlugTaken):
		response.Conflict(c, "显示屏 slug 已被占用")
	case errors.Is(err, service.ErrDateFormatInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
