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

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrSemesterDateInvalid = errors.New("学期结束日期必须晚于开始日期")
)

// SemesterService 学期业务接口
type SemesterService interface {
	Create(ctx context.Context, institutionID uint, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, institutionID, id uint) (*dto.SemesterResponse, error)
	GetCurrent(ctx context.Context, institutionID uint) (*dto.SemesterResponse, error)
	List(ctx context.Context, institutionID uint) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, institutionID, id uint, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	Activate(ctx context.Context, institutionID, id uint) error
	Delete(ctx context.Context, institutionID, id uint) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, institutionID uint, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	endDate, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrSemesterDateInvalid
	}

	semester := &model.Semester{
		InstitutionID: institutionID,
		Title:         req.Title,
		StartDate:     startDate,
		EndDate:       endDate,
		IsActive:      false,
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, institutionID, id uint) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetCurrent ──────────────────────

func (s *semesterService) GetCurrent(ctx context.Context, institutionID uint) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetActive(ctx, institutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context, institutionID uint) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx, institutionID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, institutionID, id uint, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, institutionID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		semester.Title = *req.Title
	}
	if req.StartDate != nil {
		startDate, err := ParseDate(*req.StartDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := ParseDate(*req.EndDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.EndDate = endDate
	}
	if !semester.EndDate.After(semester.StartDate) {
		return nil, ErrSemesterDateInvalid
	}
	semester.UpdatedBy = &callerID
	semester.Version = req.Version

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── Activate ──────────────────────

// Activate 激活学期：同一事务内先取消租户下所有激活学期，再激活目标学期，
// 保证"每个租户最多一个激活学期"的不变量
func (s *semesterService) Activate(ctx context.Context, institutionID, id uint) error {
	if _, err := s.repo.Semester.GetByID(ctx, institutionID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Semester.ClearActive(ctx, institutionID); err != nil {
			return err
		}
		return tx.Semester.SetActive(ctx, institutionID, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("激活学期失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *semesterService) Delete(ctx context.Context, institutionID, id uint) error {
	if _, err := s.repo.Semester.GetByID(ctx, institutionID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Semester.Delete(ctx, institutionID, id); err != nil {
		s.logger.Error("删除学期失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── DTO 转换 ──────────────────────

func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        semester.ID,
		Title:     semester.Title,
		StartDate: FormatDate(semester.StartDate),
		EndDate:   FormatDate(semester.EndDate),
		IsActive:  semester.IsActive,
		Version:   semester.Version,
		CreatedAt: semester.CreatedAt.Format(time.RFC3339),
		UpdatedAt: semester.UpdatedAt.Format(time.RFC3339),
	}
}
