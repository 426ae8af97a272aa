package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/service"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
	"github.com/ErfanTavana/unischedule/pkg/response"
)

// ClassSessionHandler 周期性课表条目 HTTP 处理器
type ClassSessionHandler struct {
	sessionSvc service.ClassSessionService
}

// NewClassSessionHandler 创建 ClassSessionHandler
func NewClassSessionHandler(sessionSvc service.ClassSessionService) *ClassSessionHandler {
	return &ClassSessionHandler{sessionSvc: sessionSvc}
}

// CreateSession 创建课表条目
// POST /api/v1/class-sessions
func (h *ClassSessionHandler) CreateSession(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.CreateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Create(c.Request.Context(), institutionID, &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, session)
}

// GetSession 获取课表条目详情
// GET /api/v1/class-sessions/:id
func (h *ClassSessionHandler) GetSession(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionSvc.GetByID(c.Request.Context(), institutionID, id)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// ListSessions 按筛选条件分页列出课表条目
// GET /api/v1/class-sessions
func (h *ClassSessionHandler) ListSessions(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.ClassSessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	sessions, total, err := h.sessionSvc.List(c.Request.Context(), institutionID, &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OKPage(c, sessions, total, req.Page, req.PageSize)
}

// UpdateSession 更新课表条目
// PUT /api/v1/class-sessions/:id
func (h *ClassSessionHandler) UpdateSession(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Update(c.Request.Context(), institutionID, id, &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// DeleteSession 删除课表条目（软删除）
// DELETE /api/v1/class-sessions/:id
func (h *ClassSessionHandler) DeleteSession(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sessionSvc.Delete(c.Request.Context(), institutionID, id); err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSessionError 统一处理课表条目模块业务错误
// 排课冲突返回 409 + 业务码 20001，前端据此提示用户调整时段
func (h *ClassSessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassSessionNotFound):
		response.NotFound(c, response.CodeNotFound, "课表条目不存在")
	case errors.Is(err, service.ErrScheduleConflict):
		response.Conflict(c, "该时段与已有课程在教室或教师上冲突")
	case errors.Is(err, service.ErrSessionTimeInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "上课时间无效")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.BadRequest(c, response.CodeInvalidParam, "学期不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.BadRequest(c, response.CodeInvalidParam, "课程不存在")
	case errors.Is(err, service.ErrProfessorNotFound):
		response.BadRequest(c, response.CodeInvalidParam, "教师不存在")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.BadRequest(c, response.CodeInvalidParam, "教室不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
