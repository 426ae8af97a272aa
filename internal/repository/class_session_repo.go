package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
)

// ConflictCandidate 周期性课表条目的冲突检测候选
// ExcludeID 非零时排除该条目自身（更新场景）
type ConflictCandidate struct {
	InstitutionID uint
	SemesterID    uint
	DayOfWeek     string
	StartTime     string // "HH:MM"
	EndTime       string
	WeekType      string // every | odd | even
	ClassroomID   uint
	ProfessorID   uint
	ExcludeID     uint
}

// SessionQuery 显示负载物化的基础查询条件
// 指针字段为 nil 表示该维度不筛选；WeekType 钉在单/双周时连带 every 类型，
// 钉在 every 时只保留 every 类型；DateOverride 非 nil 时只保留
// 学期区间覆盖该日期的课程
type SessionQuery struct {
	InstitutionID uint
	SemesterID    *uint
	BuildingID    *uint
	ClassroomID   *uint
	CourseID      *uint
	ProfessorID   *uint
	GroupCode     string
	DayOfWeek     *string
	WeekType      *string
	StartTimeGte  *string
	EndTimeLte    *string
	CapacityGte   *int
	DateOverride  *time.Time
}

// ClassSessionRepository 周期性课表条目数据访问接口
type ClassSessionRepository interface {
	Create(ctx context.Context, session *model.ClassSession) error
	GetByID(ctx context.Context, institutionID, id uint) (*model.ClassSession, error)
	List(ctx context.Context, institutionID uint, q SessionQuery, offset, limit int) ([]model.ClassSession, int64, error)
	Update(ctx context.Context, session *model.ClassSession) error
	Delete(ctx context.Context, institutionID, id uint) error
	HasTimeConflict(ctx context.Context, cand ConflictCandidate) (bool, error)
	ListForDisplay(ctx context.Context, q SessionQuery) ([]model.ClassSession, error)
}

type classSessionRepo struct {
	db *gorm.DB
}

// NewClassSessionRepo 创建 ClassSessionRepository 实例
func NewClassSessionRepo(db *gorm.DB) ClassSessionRepository {
	return &classSessionRepo{db: db}
}

func (r *classSessionRepo) Create(ctx context.Context, session *model.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *classSessionRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.ClassSession, error) {
	var session model.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Preload("Course").
		Preload("Professor").
		Preload("Classroom").
		Preload("Classroom.Building").
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *classSessionRepo) List(ctx context.Context, institutionID uint, q SessionQuery, offset, limit int) ([]model.ClassSession, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("class_sessions.institution_id = ?", institutionID)
	base = applySessionQuery(base, q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.ClassSession
	err := base.
		Preload("Course").
		Preload("Professor").
		Preload("Classroom").
		Preload("Classroom.Building").
		Order("day_of_week ASC, start_time ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *classSessionRepo) Update(ctx context.Context, session *model.ClassSession) error {
	oldVersion := session.Version
	result := r.db.WithContext(ctx).
		Model(session).
		Where("id = ? AND version = ?", session.ID, oldVersion).
		Updates(map[string]interface{}{
			"course_id":    session.CourseID,
			"professor_id": session.ProfessorID,
			"classroom_id": session.ClassroomID,
			"group_code":   session.GroupCode,
			"day_of_week":  session.DayOfWeek,
			"start_time":   session.StartTime,
			"end_time":     session.EndTime,
			"week_type":    session.WeekType,
			"capacity":     session.Capacity,
			"note":         session.Note,
			"updated_by":   session.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	session.Version = oldVersion + 1
	return nil
}

func (r *classSessionRepo) Delete(ctx context.Context, institutionID, id uint) error {
	return r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		Delete(&model.ClassSession{}).Error
}

// HasTimeConflict 判断候选时段是否与已有周期性课程冲突
// 冲突条件：同租户、同学期、同星期，周类型兼容，时间半开区间重叠，
// 且与候选共享教室或教师（两个独占维度任一重合即冲突）
func (r *classSessionRepo) HasTimeConflict(ctx context.Context, cand ConflictCandidate) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("institution_id = ? AND semester_id = ? AND day_of_week = ?",
			cand.InstitutionID, cand.SemesterID, cand.DayOfWeek)

	if cand.ExcludeID != 0 {
		query = query.Where("id != ?", cand.ExcludeID)
	}

	// 候选为 every 时与任意周类型都可能相撞；候选钉在单/双周时只与同奇偶或 every 相撞
	if cand.WeekType != model.WeekTypeEvery {
		query = query.Where("week_type IN ?", []string{model.WeekTypeEvery, cand.WeekType})
	}

	// 半开区间重叠：existing.start < cand.end AND existing.end > cand.start
	query = query.
		Where("start_time < ? AND end_time > ?", cand.EndTime, cand.StartTime).
		Where("classroom_id = ? OR professor_id = ?", cand.ClassroomID, cand.ProfessorID)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForDisplay 按筛选条件加载显示负载的基础周期课程
func (r *classSessionRepo) ListForDisplay(ctx context.Context, q SessionQuery) ([]model.ClassSession, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("class_sessions.institution_id = ?", q.InstitutionID)
	query = applySessionQuery(query, q)

	var sessions []model.ClassSession
	err := query.
		Preload("Semester").
		Preload("Course").
		Preload("Professor").
		Preload("Classroom").
		Preload("Classroom.Building").
		Find(&sessions).Error
	return sessions, err
}

// applySessionQuery 将 SessionQuery 的各维度逐一应用到查询上
func applySessionQuery(query *gorm.DB, q SessionQuery) *gorm.DB {
	if q.SemesterID != nil {
		query = query.Where("class_sessions.semester_id = ?", *q.SemesterID)
	}
	if q.ClassroomID != nil {
		query = query.Where("class_sessions.classroom_id = ?", *q.ClassroomID)
	}
	if q.BuildingID != nil {
		query = query.Where(
			"class_sessions.classroom_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).
				Model(&model.Classroom{}).
				Select("id").
				Where("building_id = ?", *q.BuildingID),
		)
	}
	if q.CourseID != nil {
		query = query.Where("class_sessions.course_id = ?", *q.CourseID)
	}
	if q.ProfessorID != nil {
		query = query.Where("class_sessions.professor_id = ?", *q.ProfessorID)
	}
	if q.GroupCode != "" {
		query = query.Where("class_sessions.group_code = ?", q.GroupCode)
	}
	if q.DayOfWeek != nil {
		query = query.Where("class_sessions.day_of_week = ?", *q.DayOfWeek)
	}
	if q.WeekType != nil {
		if *q.WeekType == model.WeekTypeEvery {
			// 钉在 every 的屏幕只显示每周都上的课
			query = query.Where("class_sessions.week_type = ?", model.WeekTypeEvery)
		} else {
			// 钉在单/双周的筛选连带 every 类型课程
			query = query.Where("class_sessions.week_type IN ?", []string{model.WeekTypeEvery, *q.WeekType})
		}
	}
	if q.StartTimeGte != nil {
		query = query.Where("class_sessions.start_time >= ?", *q.StartTimeGte)
	}
	if q.EndTimeLte != nil {
		query = query.Where("class_sessions.end_time <= ?", *q.EndTimeLte)
	}
	if q.CapacityGte != nil {
		query = query.Where("class_sessions.capacity >= ?", *q.CapacityGte)
	}
	if q.DateOverride != nil {
		// 日期覆盖生效时，课程所在学期必须覆盖该日期（已结束学期的课不上屏）
		query = query.Where(
			"class_sessions.semester_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).
				Model(&model.Semester{}).
				Select("id").
				Where("start_date <= ? AND end_date >= ?", *q.DateOverride, *q.DateOverride),
		)
	}
	return query
}
