package service

import (
	"time"

	"github.com/ErfanTavana/unischedule/internal/model"
)

// ── 单双周与星期解析 ──
// 一周从周六开始（周六=0 … 周五=6）。学期第 0 周为单周，
// 奇偶以学期开始日期为锚点、以 14 天为周期交替。

// DayLabelForDate 返回日期对应的星期标签
func DayLabelForDate(date time.Time) string {
	switch date.Weekday() {
	case time.Saturday:
		return model.DaySaturday
	case time.Sunday:
		return model.DaySunday
	case time.Monday:
		return model.DayMonday
	case time.Tuesday:
		return model.DayTuesday
	case time.Wednesday:
		return model.DayWednesday
	case time.Thursday:
		return model.DayThursday
	default:
		return model.DayFriday
	}
}

// WeekTypeForDate 计算日期相对学期开始的单双周
// 早于学期开始的日期把经过天数钳制为 0，统一落在第 0 周（单周）。
// 这是沿用已上线系统的行为：屏幕在学期开始前预览时显示第 0 周内容，
// 而不是报错或显示空表。
func WeekTypeForDate(date, semesterStart time.Time) string {
	days := daysBetween(date, semesterStart)
	if days < 0 {
		days = 0
	}
	weeks := days / 7
	if weeks%2 == 0 {
		return model.WeekTypeOdd
	}
	return model.WeekTypeEven
}

// daysBetween 按日历日计算 a-b 的天数差，忽略时区偏移
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(au.Sub(bu).Hours() / 24)
}

// ResolveDay 解析筛选条件的生效星期
// 优先级：显式指定 > 日期覆盖推导 > "跟随当天" > 无约束(nil)
func ResolveDay(spec model.FilterSpec, now time.Time) *string {
	if spec.DayOfWeek != nil {
		return spec.DayOfWeek
	}
	if spec.DateOverride != nil {
		label := DayLabelForDate(*spec.DateOverride)
		return &label
	}
	if spec.UseCurrentDay {
		label := DayLabelForDate(now)
		return &label
	}
	return nil
}

// ResolveWeekType 解析筛选条件的生效周类型
// semester 为 nil 时无法推导奇偶，返回 nil（无约束），调用方不得视为错误
func ResolveWeekType(spec model.FilterSpec, semester *model.Semester, now time.Time) *string {
	if spec.WeekType != nil {
		return spec.WeekType
	}
	if semester == nil {
		return nil
	}
	if spec.DateOverride != nil {
		wt := WeekTypeForDate(*spec.DateOverride, semester.StartDate)
		return &wt
	}
	if spec.UseCurrentWk {
		wt := WeekTypeForDate(now, semester.StartDate)
		return &wt
	}
	return nil
}

// ResolveTargetDate 解析物化的锚点日期
// 日期覆盖优先；其次任一星期/周类型约束生效时以"今天"为基准，
// 有星期约束时推进到下一个匹配的日期（可能就是今天）；
// 完全无约束时返回 nil，停课和补课无法叠加（纯周期视图）
func ResolveTargetDate(spec model.FilterSpec, now time.Time) *time.Time {
	if spec.DateOverride != nil {
		d := model.DateOnly(*spec.DateOverride)
		return &d
	}
	if day := ResolveDay(spec, now); day != nil {
		d := NextDateForDay(now, *day)
		return &d
	}
	if spec.UseCurrentWk || spec.WeekType != nil {
		d := model.DateOnly(now)
		return &d
	}
	return nil
}

// NextDateForDay 从 from 开始（含当天）向后找到第一个落在指定星期的日期
func NextDateForDay(from time.Time, day string) time.Time {
	delta := model.DayOrder[day] - saturdayFirstIndex(from.Weekday())
	if delta < 0 {
		delta += 7
	}
	return model.DateOnly(from).AddDate(0, 0, delta)
}

// saturdayFirstIndex 把 Go 的星期（周日=0）换算为周六起始的序号
func saturdayFirstIndex(wd time.Weekday) int {
	return (int(wd) + 1) % 7
}

// ── 时间与周类型兼容判断 ──

// TimeRangesOverlap 半开区间重叠判断，首尾相接不算重叠
// "HH:MM" 定长格式下字符串比较与时间比较等价
func TimeRangesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// WeekTypesCompatible 两个周类型是否可能落在同一周
// every 与任何类型兼容；单/双周只与自身兼容
func WeekTypesCompatible(a, b string) bool {
	if a == model.WeekTypeEvery || b == model.WeekTypeEvery {
		return true
	}
	return a == b
}

// SessionOccursOnDate 周期课程在指定日期是否应该上课
// 星期必须一致，且日期奇偶与课程周类型兼容（every 两种奇偶都上）
func SessionOccursOnDate(session *model.ClassSession, date time.Time, semesterStart time.Time) bool {
	if session.DayOfWeek != DayLabelForDate(date) {
		return false
	}
	if session.WeekType == model.WeekTypeEvery {
		return true
	}
	return session.WeekType == WeekTypeForDate(date, semesterStart)
}

// MakeupMatchesWeekType 补课是否通过屏幕的周类型筛选
// 补课自身没有周类型，按父条目周类型和补课日期的奇偶双重判断
func MakeupMatchesWeekType(screenWT *string, sessionWT string, dateWT *string) bool {
	if screenWT == nil || *screenWT == model.WeekTypeEvery {
		return true
	}
	valid := map[string]bool{*screenWT: true, model.WeekTypeEvery: true}
	if !valid[sessionWT] {
		return false
	}
	if dateWT == nil {
		return *screenWT == sessionWT
	}
	return valid[*dateWT]
}

// ── 日期序列化 ──

const dateLayout = "2006-01-02"

// ParseDate 解析 "2006-01-02" 格式日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate 序列化为 "2006-01-02" 格式
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
