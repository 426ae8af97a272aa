package model

import "time"

// FilterSpec 显示屏筛选条件的值对象
// 从 DisplayScreen 的扁平筛选列构造；"是否配置了筛选"只在这里判定一次，
// 物化查询和缓存失效判定共用同一份定义，避免两处口径漂移
type FilterSpec struct {
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
	UseCurrentDay bool
	UseCurrentWk  bool
	SchemaVersion int

	// HasSelectors 构造时计算：任意一个筛选维度被配置即为 true
	HasSelectors bool
}

// NewFilterSpec 从屏幕记录构造筛选值对象
func NewFilterSpec(screen *DisplayScreen) FilterSpec {
	spec := FilterSpec{
		SemesterID:    screen.FilterSemesterID,
		BuildingID:    screen.FilterBuildingID,
		ClassroomID:   screen.FilterClassroomID,
		CourseID:      screen.FilterCourseID,
		ProfessorID:   screen.FilterProfessorID,
		GroupCode:     screen.FilterGroupCode,
		DayOfWeek:     screen.FilterDayOfWeek,
		WeekType:      screen.FilterWeekType,
		StartTimeGte:  screen.FilterStartTimeGte,
		EndTimeLte:    screen.FilterEndTimeLte,
		CapacityGte:   screen.FilterCapacityGte,
		DateOverride:  screen.FilterDateOverride,
		UseCurrentDay: screen.FilterUseCurrentDay,
		UseCurrentWk:  screen.FilterUseCurrentWk,
		SchemaVersion: screen.FilterSchemaVersion,
	}

	spec.HasSelectors = spec.SemesterID != nil ||
		spec.BuildingID != nil ||
		spec.ClassroomID != nil ||
		spec.CourseID != nil ||
		spec.ProfessorID != nil ||
		spec.GroupCode != "" ||
		spec.DayOfWeek != nil ||
		spec.WeekType != nil ||
		spec.StartTimeGte != nil ||
		spec.EndTimeLte != nil ||
		spec.CapacityGte != nil ||
		spec.DateOverride != nil ||
		spec.UseCurrentDay ||
		spec.UseCurrentWk

	return spec
}
