package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
)

// DisplayScreenRepository 显示屏数据访问接口
type DisplayScreenRepository interface {
	Create(ctx context.Context, screen *model.DisplayScreen) error
	GetByID(ctx context.Context, institutionID, id uint) (*model.DisplayScreen, error)
	// GetBySlug 公共访问入口，不限定租户
	GetBySlug(ctx context.Context, slug string) (*model.DisplayScreen, error)
	List(ctx context.Context, institutionID uint) ([]model.DisplayScreen, error)
	// ListActiveByInstitution 缓存失效扫描用：租户下所有启用中的屏幕
	ListActiveByInstitution(ctx context.Context, institutionID uint) ([]model.DisplayScreen, error)
	Update(ctx context.Context, screen *model.DisplayScreen) error
	Delete(ctx context.Context, institutionID, id uint) error
}

type displayScreenRepo struct {
	db *gorm.DB
}

// NewDisplayScreenRepo 创建 DisplayScreenRepository 实例
func NewDisplayScreenRepo(db *gorm.DB) DisplayScreenRepository {
	return &displayScreenRepo{db: db}
}

func (r *displayScreenRepo) Create(ctx context.Context, screen *model.DisplayScreen) error {
	return r.db.WithContext(ctx).Create(screen).Error
}

func (r *displayScreenRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.DisplayScreen, error) {
	var screen model.DisplayScreen
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&screen).Error
	if err != nil {
		return nil, err
	}
	return &screen, nil
}

func (r *displayScreenRepo) GetBySlug(ctx context.Context, slug string) (*model.DisplayScreen, error) {
	var screen model.DisplayScreen
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&screen).Error
	if err != nil {
		return nil, err
	}
	return &screen, nil
}

func (r *displayScreenRepo) List(ctx context.Context, institutionID uint) ([]model.DisplayScreen, error) {
	var screens []model.DisplayScreen
	err := r.db.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("name ASC").
		Find(&screens).Error
	return screens, err
}

func (r *displayScreenRepo) ListActiveByInstitution(ctx context.Context, institutionID uint) ([]model.DisplayScreen, error) {
	var screens []model.DisplayScreen
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND is_active = ?", institutionID, true).
		Find(&screens).Error
	return screens, err
}

func (r *displayScreenRepo) Update(ctx context.Context, screen *model.DisplayScreen) error {
	oldVersion := screen.Version
	result := r.db.WithContext(ctx).
		Model(screen).
		Where("id = ? AND version = ?", screen.ID, oldVersion).
		Updates(map[string]interface{}{
			"name":                    screen.Name,
			"refresh_interval":        screen.RefreshInterval,
			"layout_theme":            screen.LayoutTheme,
			"is_active":               screen.IsActive,
			"filter_semester_id":      screen.FilterSemesterID,
			"filter_building_id":      screen.FilterBuildingID,
			"filter_classroom_id":     screen.FilterClassroomID,
			"filter_course_id":        screen.FilterCourseID,
			"filter_professor_id":     screen.FilterProfessorID,
			"filter_group_code":       screen.FilterGroupCode,
			"filter_day_of_week":      screen.FilterDayOfWeek,
			"filter_week_type":        screen.FilterWeekType,
			"filter_start_time_gte":   screen.FilterStartTimeGte,
			"filter_end_time_lte":     screen.FilterEndTimeLte,
			"filter_capacity_gte":     screen.FilterCapacityGte,
			"filter_date_override":    screen.FilterDateOverride,
			"filter_use_current_day":  screen.FilterUseCurrentDay,
			"filter_use_current_week": screen.FilterUseCurrentWk,
			"filter_schema_version":   screen.FilterSchemaVersion,
			"updated_by":              screen.UpdatedBy,
			"version":                 oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	screen.Version = oldVersion + 1
	return nil
}

func (r *displayScreenRepo) Delete(ctx context.Context, institutionID, id uint) error {
	return r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		Delete(&model.DisplayScreen{}).Error
}
