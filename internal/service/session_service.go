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

// ── 课表条目模块业务错误 ──

var (
	ErrClassSessionNotFound = errors.New("课表条目不存在")
	ErrSessionTimeInvalid   = errors.New("上课时间格式错误或结束时间不晚于开始时间")
	ErrScheduleConflict     = errors.New("该时段与已有课程在教室或教师上冲突")
	ErrCourseNotFound       = errors.New("课程不存在")
	ErrProfessorNotFound    = errors.New("教师不存在")
	ErrClassroomNotFound    = errors.New("教室不存在或不属于当前租户")
)

// DisplayInvalidator 课表变更后的缓存失效入口
// 失效是尽力而为的：失败只记日志，不阻塞写路径
type DisplayInvalidator interface {
	InvalidateForSession(ctx context.Context, session *model.ClassSession, force bool)
}

// ClassSessionService 周期性课表条目业务接口
type ClassSessionService interface {
	Create(ctx context.Context, institutionID uint, req *dto.CreateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error)
	GetByID(ctx context.Context, institutionID, id uint) (*dto.ClassSessionResponse, error)
	List(ctx context.Context, institutionID uint, req *dto.ClassSessionListRequest) ([]dto.ClassSessionResponse, int64, error)
	Update(ctx context.Context, institutionID, id uint, req *dto.UpdateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error)
	Delete(ctx context.Context, institutionID, id uint) error
}

type classSessionService struct {
	repo        *repository.Repository
	invalidator DisplayInvalidator
	logger      *zap.Logger
}

// NewClassSessionService 创建 ClassSessionService 实例
func NewClassSessionService(repo *repository.Repository, invalidator DisplayInvalidator, logger *zap.Logger) ClassSessionService {
	return &classSessionService{repo: repo, invalidator: invalidator, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建周期课：冲突检测是硬闸门，检测到冲突直接拒绝，绝不自动调整
func (s *classSessionService) Create(ctx context.Context, institutionID uint, req *dto.CreateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error) {
	if !isValidTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrSessionTimeInvalid
	}

	weekType := req.WeekType
	if weekType == "" {
		weekType = model.WeekTypeEvery
	}

	if err := s.checkReferences(ctx, institutionID, req.SemesterID, req.CourseID, req.ProfessorID, req.ClassroomID); err != nil {
		return nil, err
	}

	conflict, err := s.repo.ClassSession.HasTimeConflict(ctx, repository.ConflictCandidate{
		InstitutionID: institutionID,
		SemesterID:    req.SemesterID,
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		WeekType:      weekType,
		ClassroomID:   req.ClassroomID,
		ProfessorID:   req.ProfessorID,
	})
	if err != nil {
		s.logger.Error("冲突检测失败", zap.Error(err))
		return nil, err
	}
	if conflict {
		return nil, ErrScheduleConflict
	}

	session := &model.ClassSession{
		InstitutionID: institutionID,
		SemesterID:    req.SemesterID,
		CourseID:      req.CourseID,
		ProfessorID:   req.ProfessorID,
		ClassroomID:   req.ClassroomID,
		GroupCode:     req.GroupCode,
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		WeekType:      weekType,
		Capacity:      req.Capacity,
		Note:          req.Note,
	}
	session.CreatedBy = &callerID
	session.UpdatedBy = &callerID

	if err := s.repo.ClassSession.Create(ctx, session); err != nil {
		s.logger.Error("创建课表条目失败", zap.Error(err))
		return nil, err
	}

	s.invalidator.InvalidateForSession(ctx, session, false)

	return s.loadResponse(ctx, institutionID, session.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *classSessionService) GetByID(ctx context.Context, institutionID, id uint) (*dto.ClassSessionResponse, error) {
	return s.loadResponse(ctx, institutionID, id)
}

// ────────────────────── List ──────────────────────

func (s *classSessionService) List(ctx context.Context, institutionID uint, req *dto.ClassSessionListRequest) ([]dto.ClassSessionResponse, int64, error) {
	req.Normalize()

	q := repository.SessionQuery{InstitutionID: institutionID}
	if req.SemesterID != 0 {
		q.SemesterID = &req.SemesterID
	}
	if req.CourseID != 0 {
		q.CourseID = &req.CourseID
	}
	if req.ProfessorID != 0 {
		q.ProfessorID = &req.ProfessorID
	}
	if req.ClassroomID != 0 {
		q.ClassroomID = &req.ClassroomID
	}
	if req.DayOfWeek != "" {
		q.DayOfWeek = &req.DayOfWeek
	}

	sessions, total, err := s.repo.ClassSession.List(ctx, institutionID, q, req.Offset(), req.PageSize)
	if err != nil {
		s.logger.Error("列出课表条目失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClassSessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toClassSessionResponse(&sessions[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

// Update 更新周期课：冲突检测排除自身；原快照和新快照都要触发屏幕缓存失效，
// 因为移动一节课可能同时影响旧时段和新时段对应的屏幕
func (s *classSessionService) Update(ctx context.Context, institutionID, id uint, req *dto.UpdateClassSessionRequest, callerID string) (*dto.ClassSessionResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	original := *session

	if req.CourseID != nil {
		session.CourseID = *req.CourseID
	}
	if req.ProfessorID != nil {
		session.ProfessorID = *req.ProfessorID
	}
	if req.ClassroomID != nil {
		session.ClassroomID = *req.ClassroomID
	}
	if req.GroupCode != nil {
		session.GroupCode = *req.GroupCode
	}
	if req.DayOfWeek != nil {
		session.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if req.WeekType != nil {
		session.WeekType = *req.WeekType
	}
	if req.Capacity != nil {
		session.Capacity = req.Capacity
	}
	if req.Note != nil {
		session.Note = *req.Note
	}

	if !isValidTimeRange(session.StartTime, session.EndTime) {
		return nil, ErrSessionTimeInvalid
	}

	if err := s.checkReferences(ctx, institutionID, session.SemesterID, session.CourseID, session.ProfessorID, session.ClassroomID); err != nil {
		return nil, err
	}

	conflict, err := s.repo.ClassSession.HasTimeConflict(ctx, repository.ConflictCandidate{
		InstitutionID: institutionID,
		SemesterID:    session.SemesterID,
		DayOfWeek:     session.DayOfWeek,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		WeekType:      session.WeekType,
		ClassroomID:   session.ClassroomID,
		ProfessorID:   session.ProfessorID,
		ExcludeID:     session.ID,
	})
	if err != nil {
		s.logger.Error("冲突检测失败", zap.Error(err))
		return nil, err
	}
	if conflict {
		return nil, ErrScheduleConflict
	}

	session.UpdatedBy = &callerID
	session.Version = req.Version

	if err := s.repo.ClassSession.Update(ctx, session); err != nil {
		s.logger.Error("更新课表条目失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidator.InvalidateForSession(ctx, &original, false)
	s.invalidator.InvalidateForSession(ctx, session, false)

	return s.loadResponse(ctx, institutionID, session.ID)
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除周期课；删除后这节课可能从任何屏幕消失，
// 影响面无法窄判，统一走强制失效
func (s *classSessionService) Delete(ctx context.Context, institutionID, id uint) error {
	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassSessionNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.ClassSession.Delete(ctx, institutionID, id); err != nil {
		s.logger.Error("删除课表条目失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	s.invalidator.InvalidateForSession(ctx, session, true)
	return nil
}

// ────────────────────── 内部辅助 ──────────────────────

// checkReferences 校验引用的学期/课程/教师/教室都属于当前租户
func (s *classSessionService) checkReferences(ctx context.Context, institutionID, semesterID, courseID, professorID, classroomID uint) error {
	if _, err := s.repo.Semester.GetByID(ctx, institutionID, semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		return err
	}
	if _, err := s.repo.Course.GetByID(ctx, institutionID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if _, err := s.repo.Professor.GetByID(ctx, institutionID, professorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorNotFound
		}
		return err
	}
	if _, err := s.repo.Classroom.GetByIDInInstitution(ctx, institutionID, classroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassroomNotFound
		}
		return err
	}
	return nil
}

func (s *classSessionService) loadResponse(ctx context.Context, institutionID, id uint) (*dto.ClassSessionResponse, error) {
	session, err := s.repo.ClassSession.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassSessionNotFound
		}
		s.logger.Error("查询课表条目失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toClassSessionResponse(session), nil
}

// isValidTimeRange 校验 "HH:MM" 格式且开始早于结束
func isValidTimeRange(start, end string) bool {
	if !isValidClock(start) || !isValidClock(end) {
		return false
	}
	return start < end
}

func isValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ────────────────────── DTO 转换 ──────────────────────

func toClassSessionResponse(session *model.ClassSession) *dto.ClassSessionResponse {
	resp := &dto.ClassSessionResponse{
		ID:         session.ID,
		SemesterID: session.SemesterID,
		GroupCode:  session.GroupCode,
		DayOfWeek:  session.DayOfWeek,
		StartTime:  session.StartTime,
		EndTime:    session.EndTime,
		WeekType:   session.WeekType,
		Capacity:   session.Capacity,
		Note:       session.Note,
		Version:    session.Version,
		CreatedAt:  session.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  session.UpdatedAt.Format(time.RFC3339),
	}
	if session.Course != nil {
		resp.Course = &dto.CourseBrief{ID: session.Course.ID, Title: session.Course.Title, Code: session.Course.Code}
	}
	if session.Professor != nil {
		resp.Professor = &dto.ProfessorBrief{ID: session.Professor.ID, Name: session.Professor.FullName()}
	}
	if session.Classroom != nil {
		brief := &dto.ClassroomBrief{ID: session.Classroom.ID, Name: session.Classroom.Name, Capacity: session.Classroom.Capacity}
		if session.Classroom.Building != nil {
			brief.Building = session.Classroom.Building.Name
		}
		resp.Classroom = brief
	}
	return resp
}
