package dto

import "time"

// ── 显示屏模块 DTO ──

// CreateDisplayScreenRequest 创建显示屏请求
type CreateDisplayScreenRequest struct {
	Name            string `json:"name"             binding:"required,min=2,max=255"`
	Slug            string `json:"slug"             binding:"omitempty,max=128"` // 为空时自动生成
	RefreshInterval int    `json:"refresh_interval" binding:"omitempty,min=1,max=86400"`
	LayoutTheme     string `json:"layout_theme"     binding:"omitempty,max=32"`

	FilterSemesterID    *uint   `json:"filter_semester_id"`
	FilterBuildingID    *uint   `json:"filter_building_id"`
	FilterClassroomID   *uint   `json:"filter_classroom_id"`
	FilterCourseID      *uint   `json:"filter_course_id"`
	FilterProfessorID   *uint   `json:"filter_professor_id"`
	FilterGroupCode     string  `json:"filter_group_code"  binding:"omitempty,max=64"`
	FilterDayOfWeek     *string `json:"filter_day_of_week" binding:"omitempty,oneof=saturday sunday monday tuesday wednesday thursday friday"`
	FilterWeekType      *string `json:"filter_week_type"   binding:"omitempty,oneof=every odd even"`
	FilterStartTimeGte  *string `json:"filter_start_time_gte"`
	FilterEndTimeLte    *string `json:"filter_end_time_lte"`
	FilterCapacityGte   *int    `json:"filter_capacity_gte" binding:"omitempty,min=1"`
	FilterDateOverride  *string `json:"filter_date_override"`
	FilterUseCurrentDay bool    `json:"filter_use_current_day"`
	FilterUseCurrentWk  bool    `json:"filter_use_current_week"`
}

// UpdateDisplayScreenRequest 更新显示屏请求
// 筛选列整体替换：请求中省略的维度视为清除
type UpdateDisplayScreenRequest struct {
	Name            *string `json:"name"             binding:"omitempty,min=2,max=255"`
	RefreshInterval *int    `json:"refresh_interval" binding:"omitempty,min=1,max=86400"`
	LayoutTheme     *string `json:"layout_theme"     binding:"omitempty,max=32"`
	IsActive        *bool   `json:"is_active"`

	FilterSemesterID    *uint   `json:"filter_semester_id"`
	FilterBuildingID    *uint   `json:"filter_building_id"`
	FilterClassroomID   *uint   `json:"filter_classroom_id"`
	FilterCourseID      *uint   `json:"filter_course_id"`
	FilterProfessorID   *uint   `json:"filter_professor_id"`
	FilterGroupCode     string  `json:"filter_group_code"  binding:"omitempty,max=64"`
	FilterDayOfWeek     *string `json:"filter_day_of_week" binding:"omitempty,oneof=saturday sunday monday tuesday wednesday thursday friday"`
	FilterWeekType      *string `json:"filter_week_type"   binding:"omitempty,oneof=every odd even"`
	FilterStartTimeGte  *string `json:"filter_start_time_gte"`
	FilterEndTimeLte    *string `json:"filter_end_time_lte"`
	FilterCapacityGte   *int    `json:"filter_capacity_gte" binding:"omitempty,min=1"`
	FilterDateOverride  *string `json:"filter_date_override"`
	FilterUseCurrentDay bool    `json:"filter_use_current_day"`
	FilterUseCurrentWk  bool    `json:"filter_use_current_week"`

	Version int `json:"version" binding:"required,min=1"`
}

// DisplayScreenResponse 显示屏管理端响应
type DisplayScreenResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	AccessToken     string `json:"access_token,omitempty"` // 仅创建时返回
	RefreshInterval int    `json:"refresh_interval"`
	LayoutTheme     string `json:"layout_theme"`
	IsActive        bool   `json:"is_active"`
	Filter          ScreenFilterEcho `json:"filter"`
	Version         int    `json:"version"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// ScreenFilterEcho 屏幕筛选条件回显
type ScreenFilterEcho struct {
	SemesterID    *uint   `json:"semester_id,omitempty"`
	BuildingID    *uint   `json:"building_id,omitempty"`
	ClassroomID   *uint   `json:"classroom_id,omitempty"`
	CourseID      *uint   `json:"course_id,omitempty"`
	ProfessorID   *uint   `json:"professor_id,omitempty"`
	GroupCode     string  `json:"group_code,omitempty"`
	DayOfWeek     *string `json:"day_of_week,omitempty"`
	WeekType      *string `json:"week_type,omitempty"`
	StartTimeGte  *string `json:"start_time_gte,omitempty"`
	EndTimeLte    *string `json:"end_time_lte,omitempty"`
	CapacityGte   *int    `json:"capacity_gte,omitempty"`
	DateOverride  *string `json:"date_override,omitempty"`
	UseCurrentDay bool    `json:"use_current_day"`
	UseCurrentWk  bool    `json:"use_current_week"`
	SchemaVersion int     `json:"schema_version"`
	HasSelectors  bool    `json:"has_selectors"`
}

// ── 公共负载（无需认证，由 slug 访问）──

// DisplayPublicPayload 显示屏公共负载
type DisplayPublicPayload struct {
	Screen      ScreenBrief          `json:"screen"`
	Filter      ScreenFilterEcho     `json:"filter"`
	Sessions    []SessionOccurrence  `json:"sessions"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// ScreenBrief 负载中的屏幕信息
type ScreenBrief struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	RefreshInterval int    `json:"refresh_interval"`
	LayoutTheme     string `json:"layout_theme"`
	IsActive        bool   `json:"is_active"`
}

// SessionOccurrence 一次具体的课程发生（周期课、停课覆盖或补课注入）
type SessionOccurrence struct {
	ID                 uint   `json:"id"`
	SessionID          uint   `json:"session_id"`
	CourseTitle        string `json:"course_title"`
	ProfessorName      string `json:"professor_name"`
	DayOfWeek          string `json:"day_of_week"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	WeekType           string `json:"week_type"`
	ClassroomTitle     string `json:"classroom_title"`
	BuildingTitle      string `json:"building_title"`
	GroupCode          string `json:"group_code"`
	Capacity           *int   `json:"capacity,omitempty"`
	Note               string `json:"note"`
	Date               string `json:"date,omitempty"` // "2006-01-02"，无锚点日期时为空
	IsCancelled        bool   `json:"is_cancelled"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancellationNote   string `json:"cancellation_note,omitempty"`
	Status             string `json:"status"` // scheduled | cancelled | makeup
	IsMakeup           bool   `json:"is_makeup"`
	MakeupForSessionID *uint  `json:"makeup_for_session_id,omitempty"`
}
