package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/service"
	"github.com/ErfanTavana/unischedule/pkg/response"
)

// ── 停课 ──

// CancellationHandler 停课记录 HTTP 处理器
type CancellationHandler struct {
	cancellationSvc service.CancellationService
}

// NewCancellationHandler 创建 CancellationHandler
func NewCancellationHandler(cancellationSvc service.CancellationService) *CancellationHandler {
	return &CancellationHandler{cancellationSvc: cancellationSvc}
}

// CreateCancellation 创建停课记录
// POST /api/v1/class-cancellations
func (h *CancellationHandler) CreateCancellation(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.CreateCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cancellation, err := h.cancellationSvc.Create(c.Request.Context(), institutionID, &req, callerID)
	if err != nil {
		h.handleCancellationError(c, err)
		return
	}

	response.Created(c, cancellation)
}

// GetCancellation 获取停课记录详情
// GET /api/v1/class-cancellations/:id
func (h *CancellationHandler) GetCancellation(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cancellation, err := h.cancellationSvc.GetByID(c.Request.Context(), institutionID, id)
	if err != nil {
		h.handleCancellationError(c, err)
		return
	}

	response.OK(c, cancellation)
}

// ListCancellationsBySession 列出某课表条目的全部停课记录
// GET /api/v1/class-sessions/:id/cancellations
func (h *CancellationHandler) ListCancellationsBySession(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cancellations, err := h.cancellationSvc.ListBySession(c.Request.Context(), institutionID, sessionID)
	if err != nil {
		h.handleCancellationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": cancellations})
}

// UpdateCancellation 更新停课记录
// PUT /api/v1/class-cancellations/:id
func (h *CancellationHandler) UpdateCancellation(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cancellation, err := h.cancellationSvc.Update(c.Request.Context(), institutionID, id, &req, callerID)
	if err != nil {
		h.handleCancellationError(c, err)
		return
	}

	response.OK(c, cancellation)
}

// DeleteCancellation 删除停课记录
// DELETE /api/v1/class-cancellations/:id
func (h *CancellationHandler) DeleteCancellation(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cancellationSvc.Delete(c.Request.Context(), institutionID, id); err != nil {
		h.handleCancellationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCancellationError 统一处理停课模块业务错误
func (h *CancellationHandler) handleCancellationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCancellationNotFound):
		response.NotFound(c, response.CodeNotFound, "停课记录不存在")
	case errors.Is(err, service.ErrClassSessionNotFound):
		response.NotFound(c, response.CodeNotFound, "课表条目不存在")
	case errors.Is(err, service.ErrCancellationExists):
		response.Conflict(c, "该课程当天已有生效的停课记录")
	case errors.Is(err, service.ErrCancellationDateInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "停课日期不在学期范围内")
	case errors.Is(err, service.ErrCancellationDayMismatch):
		response.BadRequest(c, response.CodeInvalidParam, "停课日期的星期与课程不符")
	case errors.Is(err, service.ErrCancellationWeekMismatch):
		response.BadRequest(c, response.CodeInvalidParam, "停课日期的单双周与课程不符")
	case errors.Is(err, service.ErrDateFormatInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "日期格式错误，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}

// ── 补课 ──

// MakeupHandler 补课记录 HTTP 处理器
type MakeupHandler struct {
	makeupSvc service.MakeupService
}

// NewMakeupHandler 创建 MakeupHandler
func NewMakeupHandler(makeupSvc service.MakeupService) *MakeupHandler {
	return &MakeupHandler{makeupSvc: makeupSvc}
}

// CreateMakeup 创建补课记录
// POST /api/v1/makeup-sessions
func (h *MakeupHandler) CreateMakeup(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.CreateMakeupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	makeup, err := h.makeupSvc.Create(c.Request.Context(), institutionID, &req, callerID)
	if err != nil {
		h.handleMakeupError(c, err)
		return
	}

	response.Created(c, makeup)
}

// GetMakeup 获取补课记录详情
// GET /api/v1/makeup-sessions/:id
func (h *MakeupHandler) GetMakeup(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	makeup, err := h.makeupSvc.GetByID(c.Request.Context(), institutionID, id)
	if err != nil {
		h.handleMakeupError(c, err)
		return
	}

	response.OK(c, makeup)
}

// ListMakeups 分页列出补课记录
// GET /api/v1/makeup-sessions
func (h *MakeupHandler) ListMakeups(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	makeups, total, err := h.makeupSvc.List(c.Request.Context(), institutionID, &req)
	if err != nil {
		h.handleMakeupError(c, err)
		return
	}

	response.OKPage(c, makeups, total, req.Page, req.PageSize)
}

// UpdateMakeup 更新补课记录
// PUT /api/v1/makeup-sessions/:id
func (h *MakeupHandler) UpdateMakeup(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMakeupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	makeup, err := h.makeupSvc.Update(c.Request.Context(), institutionID, id, &req, callerID)
	if err != nil {
		h.handleMakeupError(c, err)
		return
	}

	response.OK(c, makeup)
}

// DeleteMakeup 删除补课记录
// DELETE /api/v1/makeup-sessions/:id
func (h *MakeupHandler) DeleteMakeup(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.makeupSvc.Delete(c.Request.Context(), institutionID, id); err != nil {
		h.handleMakeupError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleMakeupError 统一处理补课模块业务错误
func (h *MakeupHandler) handleMakeupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMakeupNotFound):
		response.NotFound(c, response.CodeNotFound, "补课记录不存在")
	case errors.Is(err, service.ErrClassSessionNotFound):
		response.NotFound(c, response.CodeNotFound, "课表条目不存在")
	case errors.Is(err, service.ErrScheduleConflict):
		response.Conflict(c, "补课时段与已有课程在教室或教师上冲突")
	case errors.Is(err, service.ErrMakeupDateInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "补课日期不在学期范围内")
	case errors.Is(err, service.ErrSessionTimeInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "补课时间无效")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.BadRequest(c, response.CodeInvalidParam, "教室不存在")
	case errors.Is(err, service.ErrDateFormatInvalid):
		response.BadRequest(c, response.CodeInvalidParam, "日期格式错误，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
