package dto

// ── 课表条目模块 DTO ──

// CreateClassSessionRequest 创建周期性课表条目请求
type CreateClassSessionRequest struct {
	SemesterID  uint   `json:"semester_id"  binding:"required"`
	CourseID    uint   `json:"course_id"    binding:"required"`
	ProfessorID uint   `json:"professor_id" binding:"required"`
	ClassroomID uint   `json:"classroom_id" binding:"required"`
	GroupCode   string `json:"group_code"   binding:"omitempty,max=64"`
	DayOfWeek   string `json:"day_of_week"  binding:"required,oneof=saturday sunday monday tuesday wednesday thursday friday"`
	StartTime   string `json:"start_time"   binding:"required"` // "08:00"
	EndTime     string `json:"end_time"     binding:"required"` // "10:00"
	WeekType    string `json:"week_type"    binding:"omitempty,oneof=every odd even"`
	Capacity    *int   `json:"capacity"     binding:"omitempty,min=1"`
	Note        string `json:"note"         binding:"omitempty,max=1000"`
}

// UpdateClassSessionRequest 更新周期性课表条目请求
type UpdateClassSessionRequest struct {
	CourseID    *uint   `json:"course_id"`
	ProfessorID *uint   `json:"professor_id"`
	ClassroomID *uint   `json:"classroom_id"`
	GroupCode   *string `json:"group_code"  binding:"omitempty,max=64"`
	DayOfWeek   *string `json:"day_of_week" binding:"omitempty,oneof=saturday sunday monday tuesday wednesday thursday friday"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	WeekType    *string `json:"week_type"   binding:"omitempty,oneof=every odd even"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=1"`
	Note        *string `json:"note"        binding:"omitempty,max=1000"`
	Version     int     `json:"version"     binding:"required,min=1"`
}

// ClassSessionListRequest 课表条目列表查询参数
type ClassSessionListRequest struct {
	SemesterID  uint   `form:"semester_id"`
	CourseID    uint   `form:"course_id"`
	ProfessorID uint   `form:"professor_id"`
	ClassroomID uint   `form:"classroom_id"`
	DayOfWeek   string `form:"day_of_week" binding:"omitempty,oneof=saturday sunday monday tuesday wednesday thursday friday"`
	PaginationRequest
}

// ClassSessionResponse 课表条目响应
type ClassSessionResponse struct {
	ID          uint            `json:"id"`
	SemesterID  uint            `json:"semester_id"`
	Course      *CourseBrief    `json:"course,omitempty"`
	Professor   *ProfessorBrief `json:"professor,omitempty"`
	Classroom   *ClassroomBrief `json:"classroom,omitempty"`
	GroupCode   string          `json:"group_code"`
	DayOfWeek   string          `json:"day_of_week"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	WeekType    string          `json:"week_type"`
	Capacity    *int            `json:"capacity,omitempty"`
	Note        string          `json:"note,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code,omitempty"`
}

// ProfessorBrief 教师简要信息
type ProfessorBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ClassroomBrief 教室简要信息
type ClassroomBrief struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}
