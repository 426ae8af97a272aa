package model

import "time"

// ClassCancellation 停课记录 — 对应 class_cancellations
// 只标记某节课在某个具体日期不上，不删除周期性课表条目本身
type ClassCancellation struct {
	ID             uint      `gorm:"primaryKey"             json:"id"`
	ClassSessionID uint      `gorm:"not null;index"         json:"class_session_id"`
	Date           time.Time `gorm:"type:date;not null"     json:"date"`
	Reason         string    `gorm:"type:text"              json:"reason"`
	Note           string    `gorm:"type:text"              json:"note"` // 屏幕上替代课程备注显示的文案
	IsActive       bool      `gorm:"not null;default:true"  json:"is_active"`
	SoftDeleteModel

	// 关联
	ClassSession *ClassSession `gorm:"foreignKey:ClassSessionID" json:"class_session,omitempty"`
}

// TableName 指定表名
func (ClassCancellation) TableName() string { return "class_cancellations" }

// MakeupClassSession 补课记录 — 对应 makeup_class_sessions
// 一次性事件，挂在某个周期性课表条目（父条目）下，可以换教室和时间
type MakeupClassSession struct {
	ID             uint      `gorm:"primaryKey"         json:"id"`
	InstitutionID  uint      `gorm:"not null;index"     json:"institution_id"`
	ClassSessionID uint      `gorm:"not null;index"     json:"class_session_id"`
	Date           time.Time `gorm:"type:date;not null" json:"date"`
	StartTime      string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime        string    `gorm:"type:varchar(5);not null" json:"end_time"`
	ClassroomID    uint      `gorm:"not null"           json:"classroom_id"`
	GroupCode      string    `gorm:"type:varchar(64);not null;default:''" json:"group_code"`
	Note           string    `gorm:"type:text" json:"note"`
	SoftDeleteModel

	// 关联
	ClassSession *ClassSession `gorm:"foreignKey:ClassSessionID" json:"class_session,omitempty"`
	Classroom    *Classroom    `gorm:"foreignKey:ClassroomID"    json:"classroom,omitempty"`
}

// TableName 指定表名
func (MakeupClassSession) TableName() string { return "makeup_class_sessions" }
