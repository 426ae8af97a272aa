package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
	"github.com/ErfanTavana/unischedule/pkg/cache"
)

// ── 显示屏模块业务错误 ──

var (
	ErrScreenNotFound  = errors.New("显示屏不存在")
	ErrScreenInactive  = errors.New("显示屏已停用")
	ErrScreenSlugTaken = errors.New("显示屏 slug 已被占用")
)

// DisplayService 显示屏业务接口：屏幕管理 + 负载物化 + 缓存读写
type DisplayService interface {
	CreateScreen(ctx context.Context, institutionID uint, req *dto.CreateDisplayScreenRequest, callerID string) (*dto.DisplayScreenResponse, error)
	GetScreen(ctx context.Context, institutionID, id uint) (*dto.DisplayScreenResponse, error)
	ListScreens(ctx context.Context, institutionID uint) ([]dto.DisplayScreenResponse, error)
	UpdateScreen(ctx context.Context, institutionID, id uint, req *dto.UpdateDisplayScreenRequest, callerID string) (*dto.DisplayScreenResponse, error)
	DeleteScreen(ctx context.Context, institutionID, id uint) error
	// RefreshScreen 强制重建并回填缓存（管理端调试入口）
	RefreshScreen(ctx context.Context, institutionID, id uint) (*dto.DisplayPublicPayload, error)
	// GetPublicPayload 公共读路径：命中缓存直接返回，未命中物化后回填
	GetPublicPayload(ctx context.Context, slug string) (*dto.DisplayPublicPayload, error)
	// BuildPayload 纯物化，不经过缓存
	BuildPayload(ctx context.Context, screen *model.DisplayScreen) (*dto.DisplayPublicPayload, error)
}

type displayService struct {
	repo       *repository.Repository
	cache      cache.Store
	defaultTTL int
	logger     *zap.Logger
	now        func() time.Time
}

// NewDisplayService 创建 DisplayService 实例
// defaultTTL 为屏幕未配置刷新间隔时的缓存秒数
func NewDisplayService(repo *repository.Repository, store cache.Store, defaultTTL int, logger *zap.Logger) DisplayService {
	return &displayService{
		repo:       repo,
		cache:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// ────────────────────── CreateScreen ──────────────────────

func (s *displayService) CreateScreen(ctx context.Context, institutionID uint, req *dto.CreateDisplayScreenRequest, callerID string) (*dto.DisplayScreenResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = generateSlug(req.Name)
	}
	if _, err := s.repo.DisplayScreen.GetBySlug(ctx, slug); err == nil {
		return nil, ErrScreenSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询显示屏失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	refreshInterval := req.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = s.defaultTTL
	}
	layoutTheme := req.LayoutTheme
	if layoutTheme == "" {
		layoutTheme = "default"
	}

	screen := &model.DisplayScreen{
		InstitutionID:   institutionID,
		Name:            req.Name,
		Slug:            slug,
		AccessToken:     uuid.New().String(),
		RefreshInterval: refreshInterval,
		LayoutTheme:     layoutTheme,
		IsActive:        true,

		FilterSemesterID:    req.FilterSemesterID,
		FilterBuildingID:    req.FilterBuildingID,
		FilterClassroomID:   req.FilterClassroomID,
		FilterCourseID:      req.FilterCourseID,
		FilterProfessorID:   req.FilterProfessorID,
		FilterGroupCode:     req.FilterGroupCode,
		FilterDayOfWeek:     req.FilterDayOfWeek,
		FilterWeekType:      req.FilterWeekType,
		FilterStartTimeGte:  req.FilterStartTimeGte,
		FilterEndTimeLte:    req.FilterEndTimeLte,
		FilterCapacityGte:   req.FilterCapacityGte,
		FilterUseCurrentDay: req.FilterUseCurrentDay,
		FilterUseCurrentWk:  req.FilterUseCurrentWk,
		FilterSchemaVersion: 1,
	}
	if req.FilterDateOverride != nil {
		override, err := ParseDate(*req.FilterDateOverride)
		if err != nil {
			return nil, ErrDateFormatInvalid
		}
		d := model.DateOnly(override)
		screen.FilterDateOverride = &d
	}
	screen.CreatedBy = &callerID
	screen.UpdatedBy = &callerID

	if err := s.repo.DisplayScreen.Create(ctx, screen); err != nil {
		s.logger.Error("创建显示屏失败", zap.Error(err))
		return nil, err
	}

	resp := toDisplayScreenResponse(screen)
	resp.AccessToken = screen.AccessToken // 仅创建时回传一次
	return resp, nil
}

// ────────────────────── GetScreen ──────────────────────

func (s *displayService) GetScreen(ctx context.Context, institutionID, id uint) (*dto.DisplayScreenResponse, error) {
	screen, err := s.repo.DisplayScreen.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		s.logger.Error("查询显示屏失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toDisplayScreenResponse(screen), nil
}

// ────────────────────── ListScreens ──────────────────────

func (s *displayService) ListScreens(ctx context.Context, institutionID uint) ([]dto.DisplayScreenResponse, error) {
	screens, err := s.repo.DisplayScreen.List(ctx, institutionID)
	if err != nil {
		s.logger.Error("列出显示屏失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DisplayScreenResponse, 0, len(screens))
	for i := range screens {
		result = append(result, *toDisplayScreenResponse(&screens[i]))
	}
	return result, nil
}

// ────────────────────── UpdateScreen ──────────────────────

// UpdateScreen 更新屏幕配置；筛选列整体替换，成功后清掉旧缓存
func (s *displayService) UpdateScreen(ctx context.Context, institutionID, id uint, req *dto.UpdateDisplayScreenRequest, callerID string) (*dto.DisplayScreenResponse, error) {
	screen, err := s.repo.DisplayScreen.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		s.logger.Error("查询显示屏失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		screen.Name = *req.Name
	}
	if req.RefreshInterval != nil {
		screen.RefreshInterval = *req.RefreshInterval
	}
	if req.LayoutTheme != nil {
		screen.LayoutTheme = *req.LayoutTheme
	}
	if req.IsActive != nil {
		screen.IsActive = *req.IsActive
	}

	screen.FilterSemesterID = req.FilterSemesterID
	screen.FilterBuildingID = req.FilterBuildingID
	screen.FilterClassroomID = req.FilterClassroomID
	screen.FilterCourseID = req.FilterCourseID
	screen.FilterProfessorID = req.FilterProfessorID
	screen.FilterGroupCode = req.FilterGroupCode
	screen.FilterDayOfWeek = req.FilterDayOfWeek
	screen.FilterWeekType = req.FilterWeekType
	screen.FilterStartTimeGte = req.FilterStartTimeGte
	screen.FilterEndTimeLte = req.FilterEndTimeLte
	screen.FilterCapacityGte = req.FilterCapacityGte
	screen.FilterUseCurrentDay = req.FilterUseCurrentDay
	screen.FilterUseCurrentWk = req.FilterUseCurrentWk
	screen.FilterDateOverride = nil
	if req.FilterDateOverride != nil {
		override, err := ParseDate(*req.FilterDateOverride)
		if err != nil {
			return nil, ErrDateFormatInvalid
		}
		d := model.DateOnly(override)
		screen.FilterDateOverride = &d
	}

	screen.UpdatedBy = &callerID
	screen.Version = req.Version

	if err := s.repo.DisplayScreen.Update(ctx, screen); err != nil {
		s.logger.Error("更新显示屏失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.purge(ctx, screen)

	return toDisplayScreenResponse(screen), nil
}

// ────────────────────── DeleteScreen ──────────────────────

func (s *displayService) DeleteScreen(ctx context.Context, institutionID, id uint) error {
	screen, err := s.repo.DisplayScreen.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScreenNotFound
		}
		s.logger.Error("查询显示屏失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.DisplayScreen.Delete(ctx, institutionID, id); err != nil {
		s.logger.Error("删除显示屏失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	s.purge(ctx, screen)
	return nil
}

// ────────────────────── RefreshScreen ──────────────────────

func (s *displayService) RefreshScreen(ctx context.Context, institutionID, id uint) (*dto.DisplayPublicPayload, error) {
	screen, err := s.repo.DisplayScreen.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		s.logger.Error("查询显示屏失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	payload, err := s.BuildPayload(ctx, screen)
	if err != nil {
		return nil, err
	}
	s.store(ctx, screen, payload)
	return payload, nil
}

// ────────────────────── GetPublicPayload ──────────────────────

func (s *displayService) GetPublicPayload(ctx context.Context, slug string) (*dto.DisplayPublicPayload, error) {
	screen, err := s.repo.DisplayScreen.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		s.logger.Error("查询显示屏失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if !screen.IsActive {
		return nil, ErrScreenInactive
	}

	if raw, err := s.cache.Get(ctx, screen.CacheKey()); err == nil {
		var payload dto.DisplayPublicPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			return &payload, nil
		}
		// 缓存内容损坏时当作未命中重建
		s.logger.Warn("缓存内容反序列化失败", zap.String("slug", slug))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// 缓存故障降级为直接物化，读路径绝不因缓存失败而失败
		s.logger.Warn("读取缓存失败", zap.String("slug", slug), zap.Error(err))
	}

	payload, err := s.BuildPayload(ctx, screen)
	if err != nil {
		return nil, err
	}
	s.store(ctx, screen, payload)
	return payload, nil
}

// ────────────────────── BuildPayload ──────────────────────

// BuildPayload 物化显示负载
// 1. 解析筛选条件的生效星期/周类型/锚点日期；
// 2. 按筛选加载基础周期课（单/双周筛选连带 every，钉在 every 只保留 every，
//    日期覆盖限定在覆盖该日期的学期内）；
// 3. 有锚点日期时叠加停课（只改状态不移除）和补课（独立过筛、单独成行）；
// 4. 按 (日期, 星期序号, 开始时间, 课程名, 状态) 稳定排序
func (s *displayService) BuildPayload(ctx context.Context, screen *model.DisplayScreen) (*dto.DisplayPublicPayload, error) {
	spec := model.NewFilterSpec(screen)
	now := s.now()

	semester := s.resolveSemester(ctx, screen.InstitutionID, spec)
	day := ResolveDay(spec, now)
	weekType := ResolveWeekType(spec, semester, now)
	targetDate := ResolveTargetDate(spec, now)

	q := repository.SessionQuery{
		InstitutionID: screen.InstitutionID,
		SemesterID:    spec.SemesterID,
		BuildingID:    spec.BuildingID,
		ClassroomID:   spec.ClassroomID,
		CourseID:      spec.CourseID,
		ProfessorID:   spec.ProfessorID,
		GroupCode:     spec.GroupCode,
		DayOfWeek:     day,
		WeekType:      weekType,
		StartTimeGte:  spec.StartTimeGte,
		EndTimeLte:    spec.EndTimeLte,
		CapacityGte:   spec.CapacityGte,
		DateOverride:  spec.DateOverride,
	}

	sessions, err := s.repo.ClassSession.ListForDisplay(ctx, q)
	if err != nil {
		s.logger.Error("加载显示课程失败", zap.Uint("screen_id", screen.ID), zap.Error(err))
		return nil, err
	}

	occurrences := make([]dto.SessionOccurrence, 0, len(sessions))
	seen := make(map[uint]bool, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		if seen[session.ID] {
			continue
		}
		seen[session.ID] = true
		occurrences = append(occurrences, occurrenceFromSession(session, targetDate))
	}

	if targetDate != nil {
		// 叠加数据加载失败必须让整次物化失败，
		// 否则缺了停课/补课的负载会被缓存一整个 TTL
		if err := s.overlayCancellations(ctx, screen.InstitutionID, *targetDate, occurrences); err != nil {
			return nil, err
		}
		makeupOccs, err := s.collectMakeups(ctx, screen.InstitutionID, spec, weekType, *targetDate)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, makeupOccs...)
	}

	sortOccurrences(occurrences)

	return &dto.DisplayPublicPayload{
		Screen: dto.ScreenBrief{
			ID:              screen.ID,
			Title:           screen.Name,
			Slug:            screen.Slug,
			RefreshInterval: screen.RefreshInterval,
			LayoutTheme:     screen.LayoutTheme,
			IsActive:        screen.IsActive,
		},
		Filter:      toFilterEcho(spec),
		Sessions:    occurrences,
		GeneratedAt: now,
	}, nil
}

// resolveSemester 定位周奇偶推导的锚点学期
// 筛选指定了学期就用它，否则用租户当前激活学期；都没有则返回 nil
func (s *displayService) resolveSemester(ctx context.Context, institutionID uint, spec model.FilterSpec) *model.Semester {
	if spec.SemesterID != nil {
		semester, err := s.repo.Semester.GetByID(ctx, institutionID, *spec.SemesterID)
		if err == nil {
			return semester
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询学期失败", zap.Uint("semester_id", *spec.SemesterID), zap.Error(err))
		}
		return nil
	}
	semester, err := s.repo.Semester.GetActive(ctx, institutionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询当前学期失败", zap.Error(err))
		}
		return nil
	}
	return semester
}

// overlayCancellations 停课叠加：命中的条目状态翻转为 cancelled，
// 停课文案覆盖课程默认备注；条目绝不从列表移除
func (s *displayService) overlayCancellations(ctx context.Context, institutionID uint, date time.Time, occurrences []dto.SessionOccurrence) error {
	cancellations, err := s.repo.Cancellation.ListActiveForDate(ctx, institutionID, date)
	if err != nil {
		s.logger.Error("加载停课记录失败", zap.Error(err))
		return err
	}
	if len(cancellations) == 0 {
		return nil
	}

	bySession := make(map[uint]*model.ClassCancellation, len(cancellations))
	for i := range cancellations {
		bySession[cancellations[i].ClassSessionID] = &cancellations[i]
	}

	for i := range occurrences {
		if occurrences[i].IsMakeup {
			continue
		}
		c, ok := bySession[occurrences[i].SessionID]
		if !ok {
			continue
		}
		occurrences[i].Status = model.SessionStatusCancelled
		occurrences[i].IsCancelled = true
		occurrences[i].CancellationReason = c.Reason
		occurrences[i].CancellationNote = c.Note
		if c.Note != "" {
			occurrences[i].Note = c.Note
		}
	}
	return nil
}

// collectMakeups 补课注入：加载当天补课并独立套用屏幕筛选，
// 通过筛选即成行，无论父条目当天是否出现在列表里
func (s *displayService) collectMakeups(ctx context.Context, institutionID uint, spec model.FilterSpec, screenWeekType *string, date time.Time) ([]dto.SessionOccurrence, error) {
	makeups, err := s.repo.Makeup.ListForDate(ctx, institutionID, date)
	if err != nil {
		s.logger.Error("加载补课记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionOccurrence, 0, len(makeups))
	for i := range makeups {
		makeup := &makeups[i]
		parent := makeup.ClassSession
		if parent == nil {
			continue
		}
		if !makeupMatchesFilter(makeup, parent, spec, screenWeekType) {
			continue
		}
		result = append(result, occurrenceFromMakeup(makeup, parent))
	}
	return result, nil
}

// makeupMatchesFilter 补课是否通过屏幕筛选（逐维度短路）
func makeupMatchesFilter(makeup *model.MakeupClassSession, parent *model.ClassSession, spec model.FilterSpec, screenWeekType *string) bool {
	if spec.ClassroomID != nil && makeup.ClassroomID != *spec.ClassroomID {
		return false
	}
	if spec.BuildingID != nil {
		if makeup.Classroom == nil || makeup.Classroom.BuildingID != *spec.BuildingID {
			return false
		}
	}
	if spec.CourseID != nil && parent.CourseID != *spec.CourseID {
		return false
	}
	if spec.ProfessorID != nil && parent.ProfessorID != *spec.ProfessorID {
		return false
	}
	if spec.SemesterID != nil && parent.SemesterID != *spec.SemesterID {
		return false
	}
	// 分组同时认补课自身和父条目的分组
	if spec.GroupCode != "" && makeup.GroupCode != spec.GroupCode && parent.GroupCode != spec.GroupCode {
		return false
	}
	if spec.StartTimeGte != nil && makeup.StartTime < *spec.StartTimeGte {
		return false
	}
	if spec.EndTimeLte != nil && makeup.EndTime > *spec.EndTimeLte {
		return false
	}
	// 容量沿用父条目
	if spec.CapacityGte != nil {
		if parent.Capacity == nil || *parent.Capacity < *spec.CapacityGte {
			return false
		}
	}

	var dateWT *string
	if parent.Semester != nil {
		wt := WeekTypeForDate(makeup.Date, parent.Semester.StartDate)
		dateWT = &wt
	}
	return MakeupMatchesWeekType(screenWeekType, parent.WeekType, dateWT)
}

// occurrenceFromSession 周期课 → 负载行
func occurrenceFromSession(session *model.ClassSession, targetDate *time.Time) dto.SessionOccurrence {
	occ := dto.SessionOccurrence{
		ID:        session.ID,
		SessionID: session.ID,
		DayOfWeek: session.DayOfWeek,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		WeekType:  session.WeekType,
		GroupCode: session.GroupCode,
		Capacity:  session.Capacity,
		Note:      session.Note,
		Status:    model.SessionStatusScheduled,
	}
	if targetDate != nil {
		occ.Date = FormatDate(*targetDate)
	}
	if session.Course != nil {
		occ.CourseTitle = session.Course.Title
	}
	if session.Professor != nil {
		occ.ProfessorName = session.Professor.FullName()
	}
	if session.Classroom != nil {
		occ.ClassroomTitle = session.Classroom.Name
		if session.Classroom.Building != nil {
			occ.BuildingTitle = session.Classroom.Building.Name
		}
	}
	return occ
}

// occurrenceFromMakeup 补课 → 负载行
// 星期标签取自补课日期；周类型优先按日期奇偶推导，无法推导时沿用父条目
func occurrenceFromMakeup(makeup *model.MakeupClassSession, parent *model.ClassSession) dto.SessionOccurrence {
	parentID := parent.ID
	occ := dto.SessionOccurrence{
		ID:                 makeup.ID,
		SessionID:          parent.ID,
		DayOfWeek:          DayLabelForDate(makeup.Date),
		StartTime:          makeup.StartTime,
		EndTime:            makeup.EndTime,
		WeekType:           parent.WeekType,
		GroupCode:          makeup.GroupCode,
		Capacity:           parent.Capacity,
		Note:               makeup.Note,
		Date:               FormatDate(makeup.Date),
		Status:             model.SessionStatusMakeup,
		IsMakeup:           true,
		MakeupForSessionID: &parentID,
	}
	if parent.Semester != nil {
		occ.WeekType = WeekTypeForDate(makeup.Date, parent.Semester.StartDate)
	}
	if occ.GroupCode == "" {
		occ.GroupCode = parent.GroupCode
	}
	if parent.Course != nil {
		occ.CourseTitle = parent.Course.Title
	}
	if parent.Professor != nil {
		occ.ProfessorName = parent.Professor.FullName()
	}
	if makeup.Classroom != nil {
		occ.ClassroomTitle = makeup.Classroom.Name
		if makeup.Classroom.Building != nil {
			occ.BuildingTitle = makeup.Classroom.Building.Name
		}
	}
	return occ
}

// sortOccurrences 确定性排序：相同输入必须产生字节一致的顺序
func sortOccurrences(occurrences []dto.SessionOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := &occurrences[i], &occurrences[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if model.DayOrder[a.DayOfWeek] != model.DayOrder[b.DayOfWeek] {
			return model.DayOrder[a.DayOfWeek] < model.DayOrder[b.DayOfWeek]
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.CourseTitle != b.CourseTitle {
			return a.CourseTitle < b.CourseTitle
		}
		return a.Status < b.Status
	})
}

// ────────────────────── 缓存读写 ──────────────────────

func (s *displayService) store(ctx context.Context, screen *model.DisplayScreen, payload *dto.DisplayPublicPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("序列化显示负载失败", zap.String("slug", screen.Slug), zap.Error(err))
		return
	}
	ttl := time.Duration(screen.CacheTTLSeconds(s.defaultTTL)) * time.Second
	if err := s.cache.Set(ctx, screen.CacheKey(), raw, ttl); err != nil {
		// 写缓存失败只降级，不影响本次响应
		s.logger.Warn("写入缓存失败", zap.String("slug", screen.Slug), zap.Error(err))
	}
}

func (s *displayService) purge(ctx context.Context, screen *model.DisplayScreen) {
	if err := s.cache.Delete(ctx, screen.CacheKey()); err != nil {
		s.logger.Warn("清除缓存失败", zap.String("slug", screen.Slug), zap.Error(err))
	}
}

// ────────────────────── DTO 转换 ──────────────────────

func toDisplayScreenResponse(screen *model.DisplayScreen) *dto.DisplayScreenResponse {
	return &dto.DisplayScreenResponse{
		ID:              screen.ID,
		Name:            screen.Name,
		Slug:            screen.Slug,
		RefreshInterval: screen.RefreshInterval,
		LayoutTheme:     screen.LayoutTheme,
		IsActive:        screen.IsActive,
		Filter:          toFilterEcho(model.NewFilterSpec(screen)),
		Version:         screen.Version,
		CreatedAt:       screen.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       screen.UpdatedAt.Format(time.RFC3339),
	}
}

func toFilterEcho(spec model.FilterSpec) dto.ScreenFilterEcho {
	echo := dto.ScreenFilterEcho{
		SemesterID:    spec.SemesterID,
		BuildingID:    spec.BuildingID,
		ClassroomID:   spec.ClassroomID,
		CourseID:      spec.CourseID,
		ProfessorID:   spec.ProfessorID,
		GroupCode:     spec.GroupCode,
		DayOfWeek:     spec.DayOfWeek,
		WeekType:      spec.WeekType,
		StartTimeGte:  spec.StartTimeGte,
		EndTimeLte:    spec.EndTimeLte,
		CapacityGte:   spec.CapacityGte,
		UseCurrentDay: spec.UseCurrentDay,
		UseCurrentWk:  spec.UseCurrentWk,
		SchemaVersion: spec.SchemaVersion,
		HasSelectors:  spec.HasSelectors,
	}
	if spec.DateOverride != nil {
		d := FormatDate(*spec.DateOverride)
		echo.DateOverride = &d
	}
	return echo
}

// generateSlug 由名称生成 slug，追加短随机后缀避免撞名
func generateSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, base)
	base = strings.Trim(base, "-")
	suffix := uuid.New().String()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
