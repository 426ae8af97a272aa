package model

import "time"

// Semester 学期表 — 对应 semesters
// 每个租户同一时间最多有一个激活学期；周奇偶计算以激活学期的开始日期为锚点
type Semester struct {
	ID            uint      `gorm:"primaryKey"                 json:"id"`
	InstitutionID uint      `gorm:"not null;index"             json:"institution_id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	StartDate     time.Time `gorm:"type:date;not null"         json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null"         json:"end_date"`
	IsActive      bool      `gorm:"not null;default:false"     json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// ContainsDate 判断日期是否落在学期区间内（含两端）
func (s *Semester) ContainsDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(s.StartDate)) && !d.After(DateOnly(s.EndDate))
}

// DateOnly 去掉时分秒，只保留日期部分
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
