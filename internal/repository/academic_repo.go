package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
)

// ── 基础档案只读访问 ──
// 课程/教师/教学楼/教室的维护属于外部管理后台，这里只做排课引擎需要的查询

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, institutionID, id uint) (*model.Course, error)
	List(ctx context.Context, institutionID uint) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, institutionID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("title ASC").
		Find(&courses).Error
	return courses, err
}

// ProfessorRepository 教师数据访问接口
type ProfessorRepository interface {
	GetByID(ctx context.Context, institutionID, id uint) (*model.Professor, error)
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.Professor, error) {
	var professor model.Professor
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

// BuildingRepository 教学楼数据访问接口
type BuildingRepository interface {
	GetByID(ctx context.Context, institutionID, id uint) (*model.Building, error)
}

type buildingRepo struct {
	db *gorm.DB
}

// NewBuildingRepo 创建 BuildingRepository 实例
func NewBuildingRepo(db *gorm.DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.Building, error) {
	var building model.Building
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	// GetByIDInInstitution 查询教室并校验其所属教学楼属于该租户
	GetByIDInInstitution(ctx context.Context, institutionID, id uint) (*model.Classroom, error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) GetByIDInInstitution(ctx context.Context, institutionID, id uint) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).
		Preload("Building").
		Joins("JOIN buildings ON buildings.id = classrooms.building_id").
		Where("classrooms.id = ? AND buildings.institution_id = ? AND buildings.deleted_at IS NULL", id, institutionID).
		First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}
