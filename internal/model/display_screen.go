package model

import "time"

// DisplayScreen 显示屏表 — 对应 display_screens
// 公共走廊/大厅里的课表屏幕；筛选条件以扁平列存储，NULL/空表示该维度不筛选
type DisplayScreen struct {
	ID              uint   `gorm:"primaryKey"     json:"id"`
	InstitutionID   uint   `gorm:"not null;index" json:"institution_id"`
	Name            string `gorm:"type:varchar(255);not null"             json:"name"`
	Slug            string `gorm:"type:varchar(128);not null;uniqueIndex" json:"slug"`
	AccessToken     string `gorm:"type:varchar(64);not null"              json:"-"`
	RefreshInterval int    `gorm:"not null;default:60"                    json:"refresh_interval"` // 秒，同时作为缓存 TTL
	LayoutTheme     string `gorm:"type:varchar(32);not null;default:'default'" json:"layout_theme"`
	IsActive        bool   `gorm:"not null;default:true"                  json:"is_active"`

	// ── 筛选列 ──
	FilterSemesterID    *uint      `gorm:"column:filter_semester_id"     json:"filter_semester_id,omitempty"`
	FilterBuildingID    *uint      `gorm:"column:filter_building_id"     json:"filter_building_id,omitempty"`
	FilterClassroomID   *uint      `gorm:"column:filter_classroom_id"    json:"filter_classroom_id,omitempty"`
	FilterCourseID      *uint      `gorm:"column:filter_course_id"       json:"filter_course_id,omitempty"`
	FilterProfessorID   *uint      `gorm:"column:filter_professor_id"    json:"filter_professor_id,omitempty"`
	FilterGroupCode     string     `gorm:"column:filter_group_code;type:varchar(64);not null;default:''" json:"filter_group_code"`
	FilterDayOfWeek     *string    `gorm:"column:filter_day_of_week;type:varchar(16)" json:"filter_day_of_week,omitempty"`
	FilterWeekType      *string    `gorm:"column:filter_week_type;type:varchar(8)"    json:"filter_week_type,omitempty"`
	FilterStartTimeGte  *string    `gorm:"column:filter_start_time_gte;type:varchar(5)" json:"filter_start_time_gte,omitempty"`
	FilterEndTimeLte    *string    `gorm:"column:filter_end_time_lte;type:varchar(5)"   json:"filter_end_time_lte,omitempty"`
	FilterCapacityGte   *int       `gorm:"column:filter_capacity_gte"    json:"filter_capacity_gte,omitempty"`
	FilterDateOverride  *time.Time `gorm:"column:filter_date_override;type:date" json:"filter_date_override,omitempty"`
	FilterUseCurrentDay bool       `gorm:"column:filter_use_current_day;not null;default:false"  json:"filter_use_current_day"`
	FilterUseCurrentWk  bool       `gorm:"column:filter_use_current_week;not null;default:false" json:"filter_use_current_week"`
	FilterSchemaVersion int        `gorm:"column:filter_schema_version;not null;default:1"       json:"filter_schema_version"`

	VersionedModel
}

// TableName 指定表名
func (DisplayScreen) TableName() string { return "display_screens" }

// CacheKey 该屏幕负载在缓存中的键
func (s *DisplayScreen) CacheKey() string { return "display:" + s.Slug }

// CacheTTLSeconds 缓存有效期（秒），未配置时返回给定默认值
func (s *DisplayScreen) CacheTTLSeconds(def int) int {
	if s.RefreshInterval > 0 {
		return s.RefreshInterval
	}
	return def
}
