package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, institutionID, id uint) (*model.Semester, error)
	GetActive(ctx context.Context, institutionID uint) (*model.Semester, error)
	List(ctx context.Context, institutionID uint) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	Delete(ctx context.Context, institutionID, id uint) error
	ClearActive(ctx context.Context, institutionID uint) error
	SetActive(ctx context.Context, institutionID, id uint) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetActive(ctx context.Context, institutionID uint) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND is_active = ?", institutionID, true).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context, institutionID uint) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("start_date DESC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	oldVersion := semester.Version
	result := r.db.WithContext(ctx).
		Model(semester).
		Where("id = ? AND version = ?", semester.ID, oldVersion).
		Updates(map[string]interface{}{
			"title":      semester.Title,
			"start_date": semester.StartDate,
			"end_date":   semester.EndDate,
			"updated_by": semester.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version = oldVersion + 1
	return nil
}

func (r *semesterRepo) Delete(ctx context.Context, institutionID, id uint) error {
	return r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		Delete(&model.Semester{}).Error
}

// ClearActive 将租户下所有学期的 is_active 设为 false
func (r *semesterRepo) ClearActive(ctx context.Context, institutionID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("institution_id = ? AND is_active = ?", institutionID, true).
		Update("is_active", false).Error
}

// SetActive 激活指定学期（调用方负责先 ClearActive 并包在同一事务内）
func (r *semesterRepo) SetActive(ctx context.Context, institutionID, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("institution_id = ? AND id = ?", institutionID, id).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
