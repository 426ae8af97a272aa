package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Semester      SemesterRepository
	Course        CourseRepository
	Professor     ProfessorRepository
	Building      BuildingRepository
	Classroom     ClassroomRepository
	ClassSession  ClassSessionRepository
	Cancellation  ClassCancellationRepository
	Makeup        MakeupRepository
	DisplayScreen DisplayScreenRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Semester:      NewSemesterRepo(db),
		Course:        NewCourseRepo(db),
		Professor:     NewProfessorRepo(db),
		Building:      NewBuildingRepo(db),
		Classroom:     NewClassroomRepo(db),
		ClassSession:  NewClassSessionRepo(db),
		Cancellation:  NewClassCancellationRepo(db),
		Makeup:        NewMakeupRepo(db),
		DisplayScreen: NewDisplayScreenRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 返回错误时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		// 无底层连接（内存实现）时直接执行，无事务语义
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
