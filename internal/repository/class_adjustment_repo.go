package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
)

// ── 停课 ──

// ClassCancellationRepository 停课记录数据访问接口
type ClassCancellationRepository interface {
	Create(ctx context.Context, cancellation *model.ClassCancellation) error
	GetByID(ctx context.Context, institutionID, id uint) (*model.ClassCancellation, error)
	ListBySession(ctx context.Context, sessionID uint) ([]model.ClassCancellation, error)
	// ListActiveForDate 查询租户下某日期所有生效的停课记录
	ListActiveForDate(ctx context.Context, institutionID uint, date time.Time) ([]model.ClassCancellation, error)
	Update(ctx context.Context, cancellation *model.ClassCancellation) error
	Delete(ctx context.Context, institutionID, id uint) error
	// ExistsActive 判断 (session, date) 是否已有生效停课记录
	ExistsActive(ctx context.Context, sessionID uint, date time.Time) (bool, error)
}

type classCancellationRepo struct {
	db *gorm.DB
}

// NewClassCancellationRepo 创建 ClassCancellationRepository 实例
func NewClassCancellationRepo(db *gorm.DB) ClassCancellationRepository {
	return &classCancellationRepo{db: db}
}

func (r *classCancellationRepo) Create(ctx context.Context, cancellation *model.ClassCancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}

func (r *classCancellationRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.ClassCancellation, error) {
	var cancellation model.ClassCancellation
	err := r.db.WithContext(ctx).
		Preload("ClassSession").
		Joins("JOIN class_sessions ON class_sessions.id = class_cancellations.class_session_id").
		Where("class_cancellations.id = ? AND class_sessions.institution_id = ?", id, institutionID).
		First(&cancellation).Error
	if err != nil {
		return nil, err
	}
	return &cancellation, nil
}

func (r *classCancellationRepo) ListBySession(ctx context.Context, sessionID uint) ([]model.ClassCancellation, error) {
	var cancellations []model.ClassCancellation
	err := r.db.WithContext(ctx).
		Where("class_session_id = ?", sessionID).
		Order("date DESC").
		Find(&cancellations).Error
	return cancellations, err
}

func (r *classCancellationRepo) ListActiveForDate(ctx context.Context, institutionID uint, date time.Time) ([]model.ClassCancellation, error) {
	var cancellations []model.ClassCancellation
	err := r.db.WithContext(ctx).
		Joins("JOIN class_sessions ON class_sessions.id = class_cancellations.class_session_id AND class_sessions.deleted_at IS NULL").
		Where("class_sessions.institution_id = ? AND class_cancellations.date = ? AND class_cancellations.is_active = ?",
			institutionID, model.DateOnly(date), true).
		Find(&cancellations).Error
	return cancellations, err
}

func (r *classCancellationRepo) Update(ctx context.Context, cancellation *model.ClassCancellation) error {
	return r.db.WithContext(ctx).
		Model(cancellation).
		Updates(map[string]interface{}{
			"reason":     cancellation.Reason,
			"note":       cancellation.Note,
			"is_active":  cancellation.IsActive,
			"updated_by": cancellation.UpdatedBy,
		}).Error
}

func (r *classCancellationRepo) Delete(ctx context.Context, institutionID, id uint) error {
	return r.db.WithContext(ctx).
		Where("id IN (?)",
			r.db.Session(&gorm.Session{NewDB: true}).
				Model(&model.ClassCancellation{}).
				Select("class_cancellations.id").
				Joins("JOIN class_sessions ON class_sessions.id = class_cancellations.class_session_id").
				Where("class_cancellations.id = ? AND class_sessions.institution_id = ?", id, institutionID),
		).
		Delete(&model.ClassCancellation{}).Error
}

func (r *classCancellationRepo) ExistsActive(ctx context.Context, sessionID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassCancellation{}).
		Where("class_session_id = ? AND date = ? AND is_active = ?", sessionID, model.DateOnly(date), true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ── 补课 ──

// MakeupConflictCandidate 补课时段的冲突检测候选
// 与同日期其他补课比较：共享教室、共享教师（经父条目）或同一父条目即冲突
type MakeupConflictCandidate struct {
	InstitutionID  uint
	Date           time.Time
	StartTime      string
	EndTime        string
	ClassroomID    uint
	ProfessorID    uint
	ClassSessionID uint
	ExcludeID      uint
}

// MakeupRepository 补课记录数据访问接口
type MakeupRepository interface {
	Create(ctx context.Context, makeup *model.MakeupClassSession) error
	GetByID(ctx context.Context, institutionID, id uint) (*model.MakeupClassSession, error)
	List(ctx context.Context, institutionID uint, offset, limit int) ([]model.MakeupClassSession, int64, error)
	// ListForDate 查询租户下某日期的全部补课（含父条目和教室关联）
	ListForDate(ctx context.Context, institutionID uint, date time.Time) ([]model.MakeupClassSession, error)
	Update(ctx context.Context, makeup *model.MakeupClassSession) error
	Delete(ctx context.Context, institutionID, id uint) error
	TimeConflictExists(ctx context.Context, cand MakeupConflictCandidate) (bool, error)
}

type makeupRepo struct {
	db *gorm.DB
}

// NewMakeupRepo 创建 MakeupRepository 实例
func NewMakeupRepo(db *gorm.DB) MakeupRepository {
	return &makeupRepo{db: db}
}

func (r *makeupRepo) Create(ctx context.Context, makeup *model.MakeupClassSession) error {
	return r.db.WithContext(ctx).Create(makeup).Error
}

func (r *makeupRepo) GetByID(ctx context.Context, institutionID, id uint) (*model.MakeupClassSession, error) {
	var makeup model.MakeupClassSession
	err := r.db.WithContext(ctx).
		Preload("ClassSession").
		Preload("ClassSession.Semester").
		Preload("ClassSession.Course").
		Preload("ClassSession.Professor").
		Preload("Classroom").
		Preload("Classroom.Building").
		Where("institution_id = ? AND id = ?", institutionID, id).
		First(&makeup).Error
	if err != nil {
		return nil, err
	}
	return &makeup, nil
}

func (r *makeupRepo) List(ctx context.Context, institutionID uint, offset, limit int) ([]model.MakeupClassSession, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.MakeupClassSession{}).
		Where("institution_id = ?", institutionID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var makeups []model.MakeupClassSession
	err := base.
		Preload("ClassSession").
		Preload("Classroom").
		Preload("Classroom.Building").
		Order("date DESC, start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&makeups).Error
	return makeups, total, err
}

func (r *makeupRepo) ListForDate(ctx context.Context, institutionID uint, date time.Time) ([]model.MakeupClassSession, error) {
	var makeups []model.MakeupClassSession
	err := r.db.WithContext(ctx).
		Preload("ClassSession").
		Preload("ClassSession.Semester").
		Preload("ClassSession.Course").
		Preload("ClassSession.Professor").
		Preload("Classroom").
		Preload("Classroom.Building").
		Where("institution_id = ? AND date = ?", institutionID, model.DateOnly(date)).
		Find(&makeups).Error
	return makeups, err
}

func (r *makeupRepo) Update(ctx context.Context, makeup *model.MakeupClassSession) error {
	return r.db.WithContext(ctx).
		Model(makeup).
		Updates(map[string]interface{}{
			"date":         makeup.Date,
			"start_time":   makeup.StartTime,
			"end_time":     makeup.EndTime,
			"classroom_id": makeup.ClassroomID,
			"group_code":   makeup.GroupCode,
			"note":         makeup.Note,
			"updated_by":   makeup.UpdatedBy,
		}).Error
}

func (r *makeupRepo) Delete(ctx context.Context, institutionID, id uint) error {
	return r.db.WithContext(ctx).
		Where("institution_id = ? AND id = ?", institutionID, id).
		Delete(&model.MakeupClassSession{}).Error
}

// TimeConflictExists 判断补课候选是否与同日期其他补课冲突
// 教师维度挂在父条目上，需要联表取 professor_id
func (r *makeupRepo) TimeConflictExists(ctx context.Context, cand MakeupConflictCandidate) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.MakeupClassSession{}).
		Joins("JOIN class_sessions ON class_sessions.id = makeup_class_sessions.class_session_id AND class_sessions.deleted_at IS NULL").
		Where("makeup_class_sessions.institution_id = ? AND makeup_class_sessions.date = ?",
			cand.InstitutionID, model.DateOnly(cand.Date)).
		Where("makeup_class_sessions.start_time < ? AND makeup_class_sessions.end_time > ?",
			cand.EndTime, cand.StartTime).
		Where("makeup_class_sessions.classroom_id = ? OR class_sessions.professor_id = ? OR makeup_class_sessions.class_session_id = ?",
			cand.ClassroomID, cand.ProfessorID, cand.ClassSessionID)

	if cand.ExcludeID != 0 {
		query = query.Where("makeup_class_sessions.id != ?", cand.ExcludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
