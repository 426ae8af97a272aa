package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
	"github.com/ErfanTavana/unischedule/pkg/cache"
)

// displayInvalidation 课表变更驱动的屏幕缓存失效
// 判定宁可多清不可少清：多清只是下次读取重新物化，少清会让屏幕长期显示过期内容
type displayInvalidation struct {
	repo   *repository.Repository
	cache  cache.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewDisplayInvalidator 创建缓存失效器
func NewDisplayInvalidator(repo *repository.Repository, store cache.Store, logger *zap.Logger) DisplayInvalidator {
	return &displayInvalidation{
		repo:   repo,
		cache:  store,
		logger: logger,
		now:    time.Now,
	}
}

// InvalidateForSession 对租户下每一块启用中的屏幕独立判定并清缓存
// force=true（停课/补课/删除，影响面无法窄判）跳过相关性判定直接清；
// 单块屏幕判定或清除失败不阻断其余屏幕
func (s *displayInvalidation) InvalidateForSession(ctx context.Context, session *model.ClassSession, force bool) {
	screens, err := s.repo.DisplayScreen.ListActiveByInstitution(ctx, session.InstitutionID)
	if err != nil {
		s.logger.Error("加载显示屏列表失败", zap.Uint("institution_id", session.InstitutionID), zap.Error(err))
		return
	}

	for i := range screens {
		screen := &screens[i]
		if !force && !s.screenShowsSession(ctx, screen, session) {
			continue
		}
		if err := s.cache.Delete(ctx, screen.CacheKey()); err != nil {
			s.logger.Warn("清除屏幕缓存失败",
				zap.String("slug", screen.Slug),
				zap.Uint("session_id", session.ID),
				zap.Error(err))
		}
	}
}

// screenShowsSession 相关性判定：这节课的变更是否可能改变该屏幕的内容
// 未配置任何筛选的屏幕显示全部课程，永远相关；
// 配置了筛选时每个维度逐一比对，第一个不匹配即判定不相关；
// 任何无法确定的情况（关联数据查不到等）一律按相关处理
func (s *displayInvalidation) screenShowsSession(ctx context.Context, screen *model.DisplayScreen, session *model.ClassSession) bool {
	spec := model.NewFilterSpec(screen)
	if !spec.HasSelectors {
		return true
	}

	if spec.ClassroomID != nil && session.ClassroomID != *spec.ClassroomID {
		return false
	}
	if spec.BuildingID != nil {
		buildingID, ok := s.sessionBuildingID(ctx, session)
		if ok && buildingID != *spec.BuildingID {
			return false
		}
	}
	if spec.CourseID != nil && session.CourseID != *spec.CourseID {
		return false
	}
	if spec.ProfessorID != nil && session.ProfessorID != *spec.ProfessorID {
		return false
	}
	if spec.SemesterID != nil && session.SemesterID != *spec.SemesterID {
		return false
	}
	if spec.GroupCode != "" && session.GroupCode != spec.GroupCode {
		return false
	}
	if spec.StartTimeGte != nil && session.StartTime < *spec.StartTimeGte {
		return false
	}
	if spec.EndTimeLte != nil && session.EndTime > *spec.EndTimeLte {
		return false
	}
	if spec.CapacityGte != nil {
		if session.Capacity == nil || *session.Capacity < *spec.CapacityGte {
			return false
		}
	}

	now := s.now()
	if day := ResolveDay(spec, now); day != nil && session.DayOfWeek != *day {
		return false
	}

	semester := s.sessionSemester(ctx, session)
	if wt := ResolveWeekType(spec, semester, now); wt != nil {
		if *wt == model.WeekTypeEvery {
			// 钉在 every 的屏幕只显示每周都上的课
			if session.WeekType != model.WeekTypeEvery {
				return false
			}
		} else if session.WeekType != model.WeekTypeEvery && session.WeekType != *wt {
			return false
		}
	}

	// 日期覆盖落在课程学期之外的屏幕不会显示这节课
	if spec.DateOverride != nil && semester != nil && !semester.ContainsDate(*spec.DateOverride) {
		return false
	}

	return true
}

// sessionBuildingID 取课程所在教室的教学楼；查不到时 ok=false，调用方按相关处理
func (s *displayInvalidation) sessionBuildingID(ctx context.Context, session *model.ClassSession) (uint, bool) {
	if session.Classroom != nil {
		return session.Classroom.BuildingID, true
	}
	classroom, err := s.repo.Classroom.GetByIDInInstitution(ctx, session.InstitutionID, session.ClassroomID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询教室失败", zap.Uint("classroom_id", session.ClassroomID), zap.Error(err))
		}
		return 0, false
	}
	return classroom.BuildingID, true
}

func (s *displayInvalidation) sessionSemester(ctx context.Context, session *model.ClassSession) *model.Semester {
	if session.Semester != nil {
		return session.Semester
	}
	semester, err := s.repo.Semester.GetByID(ctx, session.InstitutionID, session.SemesterID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询学期失败", zap.Uint("semester_id", session.SemesterID), zap.Error(err))
		}
		return nil
	}
	return semester
}
