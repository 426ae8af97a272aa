package model

// ── 星期常量（周六为每周第一天）──

const (
	DaySaturday  = "saturday"
	DaySunday    = "sunday"
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
)

// DayOrder 星期在一周内的序号，周六=0 … 周五=6
// 显示负载的排序和"下一个匹配日"推进都依赖这个顺序
var DayOrder = map[string]int{
	DaySaturday:  0,
	DaySunday:    1,
	DayMonday:    2,
	DayTuesday:   3,
	DayWednesday: 4,
	DayThursday:  5,
	DayFriday:    6,
}

// IsValidDay 判断星期标签是否合法
func IsValidDay(day string) bool {
	_, ok := DayOrder[day]
	return ok
}

// ── 单双周常量 ──

const (
	WeekTypeEvery = "every" // 每周
	WeekTypeOdd   = "odd"   // 单周（学期第 0 周为单周）
	WeekTypeEven  = "even"  // 双周
)

// IsValidWeekType 判断周类型是否合法
func IsValidWeekType(wt string) bool {
	return wt == WeekTypeEvery || wt == WeekTypeOdd || wt == WeekTypeEven
}

// ── 课表条目状态 ──

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCancelled = "cancelled"
	SessionStatusMakeup    = "makeup"
)

// ClassSession 周期性课表条目 — 对应 class_sessions
// 每条记录表示某学期内每周（或单/双周）重复一次的课
type ClassSession struct {
	ID            uint   `gorm:"primaryKey"     json:"id"`
	InstitutionID uint   `gorm:"not null;index" json:"institution_id"`
	SemesterID    uint   `gorm:"not null;index" json:"semester_id"`
	CourseID      uint   `gorm:"not null"       json:"course_id"`
	ProfessorID   uint   `gorm:"not null"       json:"professor_id"`
	ClassroomID   uint   `gorm:"not null"       json:"classroom_id"`
	GroupCode     string `gorm:"type:varchar(64);not null;default:''" json:"group_code"`
	DayOfWeek     string `gorm:"type:varchar(16);not null"            json:"day_of_week"`
	StartTime     string `gorm:"type:varchar(5);not null"             json:"start_time"` // "HH:MM"
	EndTime       string `gorm:"type:varchar(5);not null"             json:"end_time"`
	WeekType      string `gorm:"type:varchar(8);not null;default:'every'" json:"week_type"`
	Capacity      *int   `gorm:"type:int"  json:"capacity,omitempty"`
	Note          string `gorm:"type:text" json:"note"`
	VersionedModel

	// 关联
	Semester  *Semester  `gorm:"foreignKey:SemesterID"  json:"semester,omitempty"`
	Course    *Course    `gorm:"foreignKey:CourseID"    json:"course,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
}

// TableName 指定表名
func (ClassSession) TableName() string { return "class_sessions" }
