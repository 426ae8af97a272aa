package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ErfanTavana/unischedule/config"
	"github.com/ErfanTavana/unischedule/internal/api/handler"
	"github.com/ErfanTavana/unischedule/internal/api/middleware"
	"github.com/ErfanTavana/unischedule/pkg/jwt"
)

// Setup 组装 Gin 路由
// 公共显示屏路径不走认证；/api/v1 下所有路由都要求有效 Token，
// 写操作额外要求 admin 角色
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 公共读路径：大屏轮询 + 日历订阅
	display := r.Group("/display")
	{
		display.GET("/:slug", h.Display.GetPublicPayload)
		display.GET("/:slug/calendar.ics", h.Display.GetCalendarFeed)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		adminOnly := middleware.RoleAuth("admin")

		semesters := v1.Group("/semesters")
		{
			semesters.GET("", h.Semester.ListSemesters)
			semesters.GET("/current", h.Semester.GetCurrentSemester)
			semesters.GET("/:id", h.Semester.GetSemester)
			semesters.POST("", adminOnly, h.Semester.CreateSemester)
			semesters.PUT("/:id", adminOnly, h.Semester.UpdateSemester)
			semesters.PUT("/:id/activate", adminOnly, h.Semester.ActivateSemester)
			semesters.DELETE("/:id", adminOnly, h.Semester.DeleteSemester)
		}

		sessions := v1.Group("/class-sessions")
		{
			sessions.GET("", h.ClassSession.ListSessions)
			sessions.GET("/:id", h.ClassSession.GetSession)
			sessions.GET("/:id/cancellations", h.Cancellation.ListCancellationsBySession)
			sessions.POST("", adminOnly, h.ClassSession.CreateSession)
			sessions.PUT("/:id", adminOnly, h.ClassSession.UpdateSession)
			sessions.DELETE("/:id", adminOnly, h.ClassSession.DeleteSession)
		}

		cancellations := v1.Group("/class-cancellations")
		{
			cancellations.GET("/:id", h.Cancellation.GetCancellation)
			cancellations.POST("", adminOnly, h.Cancellation.CreateCancellation)
			cancellations.PUT("/:id", adminOnly, h.Cancellation.UpdateCancellation)
			cancellations.DELETE("/:id", adminOnly, h.Cancellation.DeleteCancellation)
		}

		makeups := v1.Group("/makeup-sessions")
		{
			makeups.GET("", h.Makeup.ListMakeups)
			makeups.GET("/:id", h.Makeup.GetMakeup)
			makeups.POST("", adminOnly, h.Makeup.CreateMakeup)
			makeups.PUT("/:id", adminOnly, h.Makeup.UpdateMakeup)
			makeups.DELETE("/:id", adminOnly, h.Makeup.DeleteMakeup)
		}

		screens := v1.Group("/display-screens")
		{
			screens.GET("", h.Display.ListScreens)
			screens.GET("/:id", h.Display.GetScreen)
			screens.POST("", adminOnly, h.Display.CreateScreen)
			screens.PUT("/:id", adminOnly, h.Display.UpdateScreen)
			screens.POST("/:id/refresh", adminOnly, h.Display.RefreshScreen)
			screens.DELETE("/:id", adminOnly, h.Display.DeleteScreen)
		}

		export := v1.Group("/export")
		{
			export.GET("/timetable", h.Export.ExportTimetable)
		}
	}

	return r
}
