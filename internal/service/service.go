package service

import (
	"go.uber.org/zap"

	"github.com/ErfanTavana/unischedule/config"
	"github.com/ErfanTavana/unischedule/internal/repository"
	"github.com/ErfanTavana/unischedule/pkg/cache"
)

// Service 业务层聚合入口
type Service struct {
	Semester     SemesterService
	ClassSession ClassSessionService
	Cancellation CancellationService
	Makeup       MakeupService
	Display      DisplayService
	Export       ExportService
	ICSFeed      ICSFeedService
}

// NewService 组装全部业务服务
// 课表和调课的写路径共享同一个缓存失效器，保证屏幕缓存的一致性策略只有一份
func NewService(repo *repository.Repository, store cache.Store, cfg *config.Config, logger *zap.Logger) *Service {
	invalidator := NewDisplayInvalidator(repo, store, logger)
	display := NewDisplayService(repo, store, cfg.Display.DefaultRefreshInterval, logger)

	return &Service{
		Semester:     NewSemesterService(repo, logger),
		ClassSession: NewClassSessionService(repo, invalidator, logger),
		Cancellation: NewCancellationService(repo, invalidator, logger),
		Makeup:       NewMakeupService(repo, invalidator, logger),
		Display:      display,
		Export:       NewExportService(repo, logger),
		ICSFeed:      NewICSFeedService(display, logger),
	}
}
