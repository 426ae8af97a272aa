package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
)

// ── 调课模块业务错误 ──

var (
	ErrCancellationNotFound     = errors.New("停课记录不存在")
	ErrCancellationDateInvalid  = errors.New("停课日期不在学期范围内")
	ErrCancellationDayMismatch  = errors.New("停课日期的星期与课程不符")
	ErrCancellationWeekMismatch = errors.New("停课日期的单双周与课程不符")
	ErrCancellationExists       = errors.New("该课程当天已有生效的停课记录")
	ErrMakeupNotFound           = errors.New("补课记录不存在")
	ErrMakeupDateInvalid        = errors.New("补课日期不在学期范围内")
	ErrDateFormatInvalid        = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

// ── 停课 ──

// CancellationService 停课业务接口
type CancellationService interface {
	Create(ctx context.Context, institutionID uint, req *dto.CreateCancellationRequest, callerID string) (*dto.CancellationResponse, error)
	GetByID(ctx context.Context, institutionID, id uint) (*dto.CancellationResponse, error)
	ListBySession(ctx context.Context, institutionID, sessionID uint) ([]dto.CancellationResponse, error)
	Update(ctx context.Context, institutionID, id uint, req *dto.UpdateCancellationRequest, callerID string) (*dto.CancellationResponse, error)
	Delete(ctx context.Context, institutionID, id uint) error
}

type cancellationService struct {
	repo        *repository.Repository
	invalidator DisplayInvalidator
	logger      *zap.Logger
}

// NewCancellationService 创建 CancellationService 实例
func NewCancellationService(repo *repository.Repository, invalidator DisplayInvalidator, logger *zap.Logger) CancellationService {
	return &cancellationService{repo: repo, invalidator: invalidator, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建停课记录
// 停课日期必须是这节课本来要上课的日期：落在学期内、星期一致、
// 单双周与课程的周类型兼容（every 课两种奇偶都可停）
func (s *cancellationService) Create(ctx context.Context, institutionID uint, req *dto.CreateCancellationRequest, callerID string) (*dto.CancellationResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, req.ClassSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Uint("session_id", req.ClassSessionID), zap.Error(err))
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, ErrDateFormatInvalid
	}

	semester := session.Semester
	if semester == nil {
		semester, err = s.repo.Semester.GetByID(ctx, institutionID, session.SemesterID)
		if err != nil {
			s.logger.Error("查询学期失败", zap.Uint("semester_id", session.SemesterID), zap.Error(err))
			return nil, err
		}
	}

	if !semester.ContainsDate(date) {
		return nil, ErrCancellationDateInvalid
	}
	if session.DayOfWeek != DayLabelForDate(date) {
		return nil, ErrCancellationDayMismatch
	}
	if session.WeekType != model.WeekTypeEvery &&
		session.WeekType != WeekTypeForDate(date, semester.StartDate) {
		return nil, ErrCancellationWeekMismatch
	}

	exists, err := s.repo.Cancellation.ExistsActive(ctx, session.ID, date)
	if err != nil {
		s.logger.Error("查询停课记录失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrCancellationExists
	}

	cancellation := &model.ClassCancellation{
		ClassSessionID: session.ID,
		Date:           model.DateOnly(date),
		Reason:         req.Reason,
		Note:           req.Note,
		IsActive:       true,
	}
	cancellation.CreatedBy = &callerID
	cancellation.UpdatedBy = &callerID

	if err := s.repo.Cancellation.Create(ctx, cancellation); err != nil {
		s.logger.Error("创建停课记录失败", zap.Error(err))
		return nil, err
	}

	// 停课直接改变屏幕内容，统一强制失效
	s.invalidator.InvalidateForSession(ctx, session, true)

	return toCancellationResponse(cancellation), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *cancellationService) GetByID(ctx context.Context, institutionID, id uint) (*dto.CancellationResponse, error) {
	cancellation, err := s.repo.Cancellation.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		s.logger.Error("查询停课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toCancellationResponse(cancellation), nil
}

// ────────────────────── ListBySession ──────────────────────

func (s *cancellationService) ListBySession(ctx context.Context, institutionID, sessionID uint) ([]dto.CancellationResponse, error) {
	if _, err := s.repo.ClassSession.GetByID(ctx, institutionID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		return nil, err
	}

	cancellations, err := s.repo.Cancellation.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("列出停课记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CancellationResponse, 0, len(cancellations))
	for i := range cancellations {
		result = append(result, *toCancellationResponse(&cancellations[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *cancellationService) Update(ctx context.Context, institutionID, id uint, req *dto.UpdateCancellationRequest, callerID string) (*dto.CancellationResponse, error) {
	cancellation, err := s.repo.Cancellation.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		s.logger.Error("查询停课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Reason != nil {
		cancellation.Reason = *req.Reason
	}
	if req.Note != nil {
		cancellation.Note = *req.Note
	}
	if req.IsActive != nil {
		cancellation.IsActive = *req.IsActive
	}
	cancellation.UpdatedBy = &callerID

	if err := s.repo.Cancellation.Update(ctx, cancellation); err != nil {
		s.logger.Error("更新停课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if session, err := s.repo.ClassSession.GetByID(ctx, institutionID, cancellation.ClassSessionID); err == nil {
		s.invalidator.InvalidateForSession(ctx, session, true)
	}

	return toCancellationResponse(cancellation), nil
}

// ────────────────────── Delete ──────────────────────

func (s *cancellationService) Delete(ctx context.Context, institutionID, id uint) error {
	cancellation, err := s.repo.Cancellation.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCancellationNotFound
		}
		s.logger.Error("查询停课记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Cancellation.Delete(ctx, institutionID, id); err != nil {
		s.logger.Error("删除停课记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if session, err := s.repo.ClassSession.GetByID(ctx, institutionID, cancellation.ClassSessionID); err == nil {
		s.invalidator.InvalidateForSession(ctx, session, true)
	}
	return nil
}

// ── 补课 ──

// MakeupService 补课业务接口
type MakeupService interface {
	Create(ctx context.Context, institutionID uint, req *dto.CreateMakeupRequest, callerID string) (*dto.MakeupResponse, error)
	GetByID(ctx context.Context, institutionID, id uint) (*dto.MakeupResponse, error)
	List(ctx context.Context, institutionID uint, page *dto.PaginationRequest) ([]dto.MakeupResponse, int64, error)
	Update(ctx context.Context, institutionID, id uint, req *dto.UpdateMakeupRequest, callerID string) (*dto.MakeupResponse, error)
	Delete(ctx context.Context, institutionID, id uint) error
}

type makeupService struct {
	repo        *repository.Repository
	invalidator DisplayInvalidator
	logger      *zap.Logger
}

// NewMakeupService 创建 MakeupService 实例
func NewMakeupService(repo *repository.Repository, invalidator DisplayInvalidator, logger *zap.Logger) MakeupService {
	return &makeupService{repo: repo, invalidator: invalidator, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建补课：一次性事件，时间教室独立于父条目
// 冲突检测双管齐下：与当天其他补课比对，也与当天会发生的周期课比对
func (s *makeupService) Create(ctx context.Context, institutionID uint, req *dto.CreateMakeupRequest, callerID string) (*dto.MakeupResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, req.ClassSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Uint("session_id", req.ClassSessionID), zap.Error(err))
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, ErrDateFormatInvalid
	}
	if !isValidTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrSessionTimeInvalid
	}

	if _, err := s.repo.Classroom.GetByIDInInstitution(ctx, institutionID, req.ClassroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	semester := session.Semester
	if semester == nil {
		semester, err = s.repo.Semester.GetByID(ctx, institutionID, session.SemesterID)
		if err != nil {
			s.logger.Error("查询学期失败", zap.Uint("semester_id", session.SemesterID), zap.Error(err))
			return nil, err
		}
	}
	if !semester.ContainsDate(date) {
		return nil, ErrMakeupDateInvalid
	}

	groupCode := req.GroupCode
	if groupCode == "" {
		groupCode = session.GroupCode
	}

	if err := s.checkMakeupConflicts(ctx, institutionID, session, date, req.StartTime, req.EndTime, req.ClassroomID, 0); err != nil {
		return nil, err
	}

	makeup := &model.MakeupClassSession{
		InstitutionID:  institutionID,
		ClassSessionID: session.ID,
		Date:           model.DateOnly(date),
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ClassroomID:    req.ClassroomID,
		GroupCode:      groupCode,
		Note:           req.Note,
	}
	makeup.CreatedBy = &callerID
	makeup.UpdatedBy = &callerID

	if err := s.repo.Makeup.Create(ctx, makeup); err != nil {
		s.logger.Error("创建补课记录失败", zap.Error(err))
		return nil, err
	}

	s.invalidator.InvalidateForSession(ctx, session, true)

	return s.loadMakeupResponse(ctx, institutionID, makeup.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *makeupService) GetByID(ctx context.Context, institutionID, id uint) (*dto.MakeupResponse, error) {
	return s.loadMakeupResponse(ctx, institutionID, id)
}

// ────────────────────── List ──────────────────────

func (s *makeupService) List(ctx context.Context, institutionID uint, page *dto.PaginationRequest) ([]dto.MakeupResponse, int64, error) {
	page.Normalize()

	makeups, total, err := s.repo.Makeup.List(ctx, institutionID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("列出补课记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MakeupResponse, 0, len(makeups))
	for i := range makeups {
		result = append(result, *toMakeupResponse(&makeups[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *makeupService) Update(ctx context.Context, institutionID, id uint, req *dto.UpdateMakeupRequest, callerID string) (*dto.MakeupResponse, error) {
	makeup, err := s.repo.Makeup.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeupNotFound
		}
		s.logger.Error("查询补课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, makeup.ClassSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		return nil, err
	}

	if req.Date != nil {
		date, err := ParseDate(*req.Date)
		if err != nil {
			return nil, ErrDateFormatInvalid
		}
		makeup.Date = model.DateOnly(date)
	}
	if req.StartTime != nil {
		makeup.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		makeup.EndTime = *req.EndTime
	}
	if req.ClassroomID != nil {
		if _, err := s.repo.Classroom.GetByIDInInstitution(ctx, institutionID, *req.ClassroomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClassroomNotFound
			}
			return nil, err
		}
		makeup.ClassroomID = *req.ClassroomID
	}
	if req.GroupCode != nil {
		makeup.GroupCode = *req.GroupCode
	}
	if req.Note != nil {
		makeup.Note = *req.Note
	}

	if !isValidTimeRange(makeup.StartTime, makeup.EndTime) {
		return nil, ErrSessionTimeInvalid
	}

	semester := session.Semester
	if semester == nil {
		semester, err = s.repo.Semester.GetByID(ctx, institutionID, session.SemesterID)
		if err != nil {
			return nil, err
		}
	}
	if !semester.ContainsDate(makeup.Date) {
		return nil, ErrMakeupDateInvalid
	}

	if err := s.checkMakeupConflicts(ctx, institutionID, session, makeup.Date, makeup.StartTime, makeup.EndTime, makeup.ClassroomID, makeup.ID); err != nil {
		return nil, err
	}

	makeup.UpdatedBy = &callerID

	if err := s.repo.Makeup.Update(ctx, makeup); err != nil {
		s.logger.Error("更新补课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidator.InvalidateForSession(ctx, session, true)

	return s.loadMakeupResponse(ctx, institutionID, makeup.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *makeupService) Delete(ctx context.Context, institutionID, id uint) error {
	makeup, err := s.repo.Makeup.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMakeupNotFound
		}
		s.logger.Error("查询补课记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Makeup.Delete(ctx, institutionID, id); err != nil {
		s.logger.Error("删除补课记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if session, err := s.repo.ClassSession.GetByID(ctx, institutionID, makeup.ClassSessionID); err == nil {
		s.invalidator.InvalidateForSession(ctx, session, true)
	}
	return nil
}

// ────────────────────── 内部辅助 ──────────────────────

// checkMakeupConflicts 补课冲突闸门
// 1) 与同日期其他补课：共享教室、教师或父条目即冲突；
// 2) 与当天会发生的周期课：按日期的星期和奇偶换算成周期候选比对，
//    排除父条目自身（补课常常就排在父条目原本的时段）
func (s *makeupService) checkMakeupConflicts(ctx context.Context, institutionID uint, session *model.ClassSession, date time.Time, startTime, endTime string, classroomID, excludeID uint) error {
	conflict, err := s.repo.Makeup.TimeConflictExists(ctx, repository.MakeupConflictCandidate{
		InstitutionID:  institutionID,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		ClassroomID:    classroomID,
		ProfessorID:    session.ProfessorID,
		ClassSessionID: session.ID,
		ExcludeID:      excludeID,
	})
	if err != nil {
		s.logger.Error("补课冲突检测失败", zap.Error(err))
		return err
	}
	if conflict {
		return ErrScheduleConflict
	}

	semesterStart := date
	if session.Semester != nil {
		semesterStart = session.Semester.StartDate
	}
	conflict, err = s.repo.ClassSession.HasTimeConflict(ctx, repository.ConflictCandidate{
		InstitutionID: institutionID,
		SemesterID:    session.SemesterID,
		DayOfWeek:     DayLabelForDate(date),
		StartTime:     startTime,
		EndTime:       endTime,
		WeekType:      WeekTypeForDate(date, semesterStart),
		ClassroomID:   classroomID,
		ProfessorID:   session.ProfessorID,
		ExcludeID:     session.ID,
	})
	if err != nil {
		s.logger.Error("补课冲突检测失败", zap.Error(err))
		return err
	}
	if conflict {
		return ErrScheduleConflict
	}
	return nil
}

func (s *makeupService) loadMakeupResponse(ctx context.Context, institutionID, id uint) (*dto.MakeupResponse, error) {
	makeup, err := s.repo.Makeup.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeupNotFound
		}
		s.logger.Error("查询补课记录失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toMakeupResponse(makeup), nil
}

// ────────────────────── DTO 转换 ──────────────────────

func toCancellationResponse(cancellation *model.ClassCancellation) *dto.CancellationResponse {
	return &dto.CancellationResponse{
		ID:             cancellation.ID,
		ClassSessionID: cancellation.ClassSessionID,
		Date:           FormatDate(cancellation.Date),
		Reason:         cancellation.Reason,
		Note:           cancellation.Note,
		IsActive:       cancellation.IsActive,
		CreatedAt:      cancellation.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      cancellation.UpdatedAt.Format(time.RFC3339),
	}
}

func toMakeupResponse(makeup *model.MakeupClassSession) *dto.MakeupResponse {
	resp := &dto.MakeupResponse{
		ID:             makeup.ID,
		ClassSessionID: makeup.ClassSessionID,
		Date:           FormatDate(makeup.Date),
		StartTime:      makeup.StartTime,
		EndTime:        makeup.EndTime,
		GroupCode:      makeup.GroupCode,
		Note:           makeup.Note,
		CreatedAt:      makeup.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      makeup.UpdatedAt.Format(time.RFC3339),
	}
	if makeup.Classroom != nil {
		brief := &dto.ClassroomBrief{ID: makeup.Classroom.ID, Name: makeup.Classroom.Name, Capacity: makeup.Classroom.Capacity}
		if makeup.Classroom.Building != nil {
			brief.Building = makeup.Classroom.Building.Name
		}
		resp.Classroom = brief
	}
	return resp
}
