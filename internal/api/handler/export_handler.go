package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ErfanTavana/unischedule/internal/service"
	"github.com/ErfanTavana/unischedule/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 课表导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出学期课表为 Excel
// GET /api/v1/export/timetable?semester_id=N
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	institutionID, ok := MustGetInstitutionID(c)
	if !ok {
		return
	}

	raw := c.Query("semester_id")
	semesterID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || semesterID == 0 {
		response.BadRequest(c, response.CodeInvalidParam, "查询参数 semester_id 无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), institutionID, uint(semesterID))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, response.CodeNotFound, "学期不存在")
	case errors.Is(err, service.ErrExportNoSessions):
		response.NotFound(c, response.CodeNotFound, "该学期暂无课表条目")
	default:
		response.InternalError(c)
	}
}
