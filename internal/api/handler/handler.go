package handler

import (
	"github.com/ErfanTavana/unischedule/internal/service"
)

// Handler 聚合所有模块的 HTTP 处理器
type Handler struct {
	Semester     *SemesterHandler
	ClassSession *ClassSessionHandler
	Cancellation *CancellationHandler
	Makeup       *MakeupHandler
	Display      *DisplayHandler
	Export       *ExportHandler
}

// NewHandler 基于业务层聚合创建 Handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Semester:     NewSemesterHandler(svc.Semester),
		ClassSession: NewClassSessionHandler(svc.ClassSession),
		Cancellation: NewCancellationHandler(svc.Cancellation),
		Makeup:       NewMakeupHandler(svc.Makeup),
		Display:      NewDisplayHandler(svc.Display, svc.ICSFeed),
		Export:       NewExportHandler(svc.Export),
	}
}
