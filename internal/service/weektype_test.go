package service

import (
	"testing"
	"time"

	"github.com/ErfanTavana/unischedule/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("解析日期 %q 失败: %v", s, err)
	}
	return d
}

func TestDayLabelForDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-06", model.DaySaturday},
		{"2024-01-07", model.DaySunday},
		{"2024-01-08", model.DayMonday},
		{"2024-01-09", model.DayTuesday},
		{"2024-01-10", model.DayWednesday},
		{"2024-01-11", model.DayThursday},
		{"2024-01-12", model.DayFriday},
	}
	for _, tt := range tests {
		if got := DayLabelForDate(mustDate(t, tt.date)); got != tt.want {
			t.Errorf("DayLabelForDate(%s) = %s，期望 %s", tt.date, got, tt.want)
		}
	}
}

func TestWeekTypeForDate_ParityAndPeriod(t *testing.T) {
	start := mustDate(t, "2024-01-06") // 周六，第 0 周

	tests := []struct {
		date string
		want string
	}{
		{"2024-01-06", model.WeekTypeOdd},  // 第 0 周 = 单周
		{"2024-01-12", model.WeekTypeOdd},  // 第 0 周最后一天
		{"2024-01-13", model.WeekTypeEven}, // 第 1 周 = 双周
		{"2024-01-20", model.WeekTypeOdd},  // 第 2 周，14 天周期回到单周
		{"2024-02-03", model.WeekTypeOdd},  // 第 4 周
	}
	for _, tt := range tests {
		if got := WeekTypeForDate(mustDate(t, tt.date), start); got != tt.want {
			t.Errorf("WeekTypeForDate(%s) = %s，期望 %s", tt.date, got, tt.want)
		}
	}
}

func TestWeekTypeForDate_ClampsBeforeSemesterStart(t *testing.T) {
	start := mustDate(t, "2024-01-06")

	// 学期开始前的日期钳制到第 0 周，与开始日同为单周
	for _, d := range []string{"2024-01-05", "2023-12-30", "2023-06-01"} {
		if got := WeekTypeForDate(mustDate(t, d), start); got != model.WeekTypeOdd {
			t.Errorf("学期开始前的 %s 应钳制为单周，实际 %s", d, got)
		}
	}
}

func TestResolveDay_Precedence(t *testing.T) {
	now := mustDate(t, "2024-01-08") // 周一
	override := mustDate(t, "2024-01-09")
	explicit := model.DayFriday

	// 显式指定优先于日期覆盖
	spec := model.FilterSpec{DayOfWeek: &explicit, DateOverride: &override, UseCurrentDay: true}
	if got := ResolveDay(spec, now); got == nil || *got != model.DayFriday {
		t.Errorf("显式星期应优先，实际 %v", got)
	}

	// 日期覆盖优先于"跟随当天"
	spec = model.FilterSpec{DateOverride: &override, UseCurrentDay: true}
	if got := ResolveDay(spec, now); got == nil || *got != model.DayTuesday {
		t.Errorf("日期覆盖应推导出周二，实际 %v", got)
	}

	// 跟随当天
	spec = model.FilterSpec{UseCurrentDay: true}
	if got := ResolveDay(spec, now); got == nil || *got != model.DayMonday {
		t.Errorf("跟随当天应得到周一，实际 %v", got)
	}

	// 无约束
	if got := ResolveDay(model.FilterSpec{}, now); got != nil {
		t.Errorf("无约束应返回 nil，实际 %v", got)
	}
}

func TestResolveWeekType_NilSemesterMeansNoConstraint(t *testing.T) {
	now := mustDate(t, "2024-01-08")

	spec := model.FilterSpec{UseCurrentWk: true}
	if got := ResolveWeekType(spec, nil, now); got != nil {
		t.Errorf("无学期时应返回 nil 而非报错，实际 %v", got)
	}

	// 显式周类型不依赖学期
	pinned := model.WeekTypeEven
	spec = model.FilterSpec{WeekType: &pinned}
	if got := ResolveWeekType(spec, nil, now); got == nil || *got != model.WeekTypeEven {
		t.Errorf("显式周类型应原样返回，实际 %v", got)
	}
}

func TestResolveTargetDate(t *testing.T) {
	now := mustDate(t, "2024-01-08") // 周一

	// 日期覆盖优先
	override := mustDate(t, "2024-02-01")
	spec := model.FilterSpec{DateOverride: &override, UseCurrentDay: true}
	if got := ResolveTargetDate(spec, now); got == nil || !got.Equal(model.DateOnly(override)) {
		t.Errorf("日期覆盖应直接作为锚点，实际 %v", got)
	}

	// 显式星期推进到下一个匹配日：周一 → 下周六是 2024-01-13
	day := model.DaySaturday
	spec = model.FilterSpec{DayOfWeek: &day}
	if got := ResolveTargetDate(spec, now); got == nil || FormatDate(*got) != "2024-01-13" {
		t.Errorf("周一向后找周六应得到 2024-01-13，实际 %v", got)
	}

	// 当天恰好匹配时不推进
	day = model.DayMonday
	spec = model.FilterSpec{DayOfWeek: &day}
	if got := ResolveTargetDate(spec, now); got == nil || FormatDate(*got) != "2024-01-08" {
		t.Errorf("当天匹配时锚点应为今天，实际 %v", got)
	}

	// 只有周类型约束时锚定今天
	pinned := model.WeekTypeOdd
	spec = model.FilterSpec{WeekType: &pinned}
	if got := ResolveTargetDate(spec, now); got == nil || FormatDate(*got) != "2024-01-08" {
		t.Errorf("仅周类型约束时锚点应为今天，实际 %v", got)
	}

	// 完全无约束时没有锚点
	if got := ResolveTargetDate(model.FilterSpec{}, now); got != nil {
		t.Errorf("无约束时应返回 nil，实际 %v", got)
	}
}

func TestTimeRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		s1, e1, s2, e2             string
		want                       bool
	}{
		{"部分重叠", "08:00", "10:00", "09:00", "11:00", true},
		{"完全包含", "08:00", "12:00", "09:00", "10:00", true},
		{"首尾相接不冲突", "08:00", "10:00", "10:00", "12:00", false},
		{"完全分离", "08:00", "09:00", "10:00", "11:00", false},
		{"完全相同", "08:00", "10:00", "08:00", "10:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeRangesOverlap(tt.s1, tt.e1, tt.s2, tt.e2)
			if got != tt.want {
				t.Errorf("TimeRangesOverlap = %v，期望 %v", got, tt.want)
			}
			// 重叠判断必须对称
			if rev := TimeRangesOverlap(tt.s2, tt.e2, tt.s1, tt.e1); rev != got {
				t.Errorf("重叠判断不对称: %v vs %v", got, rev)
			}
		})
	}
}

func TestWeekTypesCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{model.WeekTypeEvery, model.WeekTypeEvery, true},
		{model.WeekTypeEvery, model.WeekTypeOdd, true},
		{model.WeekTypeEven, model.WeekTypeEvery, true},
		{model.WeekTypeOdd, model.WeekTypeOdd, true},
		{model.WeekTypeOdd, model.WeekTypeEven, false},
	}
	for _, tt := range tests {
		if got := WeekTypesCompatible(tt.a, tt.b); got != tt.want {
			t.Errorf("WeekTypesCompatible(%s,%s) = %v，期望 %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSessionOccursOnDate(t *testing.T) {
	start := mustDate(t, "2024-01-06")
	session := &model.ClassSession{DayOfWeek: model.DaySaturday, WeekType: model.WeekTypeOdd}

	// 单周课在单周周六上课
	if !SessionOccursOnDate(session, mustDate(t, "2024-01-06"), start) {
		t.Error("单周课在第 0 周周六应上课")
	}
	if !SessionOccursOnDate(session, mustDate(t, "2024-01-20"), start) {
		t.Error("单周课在第 2 周周六应上课")
	}
	// 双周周六不上课
	if SessionOccursOnDate(session, mustDate(t, "2024-01-13"), start) {
		t.Error("单周课在第 1 周周六不应上课")
	}
	// 星期不匹配
	if SessionOccursOnDate(session, mustDate(t, "2024-01-07"), start) {
		t.Error("周六的课在周日不应上课")
	}

	// every 课两种奇偶都上
	every := &model.ClassSession{DayOfWeek: model.DaySaturday, WeekType: model.WeekTypeEvery}
	for _, d := range []string{"2024-01-06", "2024-01-13", "2024-01-20"} {
		if !SessionOccursOnDate(every, mustDate(t, d), start) {
			t.Errorf("every 课在 %s 应上课", d)
		}
	}
}

func TestMakeupMatchesWeekType(t *testing.T) {
	odd := model.WeekTypeOdd
	even := model.WeekTypeEven
	every := model.WeekTypeEvery

	// 屏幕不筛选周类型时全部通过
	if !MakeupMatchesWeekType(nil, model.WeekTypeEven, &odd) {
		t.Error("屏幕无周类型筛选时应通过")
	}
	if !MakeupMatchesWeekType(&every, model.WeekTypeOdd, nil) {
		t.Error("屏幕筛选 every 时应通过")
	}

	// 父条目周类型与筛选不符
	if MakeupMatchesWeekType(&odd, model.WeekTypeEven, &odd) {
		t.Error("双周父条目不应通过单周筛选")
	}

	// 父条目兼容、补课日期奇偶也兼容
	if !MakeupMatchesWeekType(&odd, model.WeekTypeOdd, &odd) {
		t.Error("单周父条目 + 单周日期应通过单周筛选")
	}
	if !MakeupMatchesWeekType(&odd, model.WeekTypeEvery, &odd) {
		t.Error("every 父条目 + 单周日期应通过单周筛选")
	}

	// 父条目兼容但补课日期落在另一奇偶
	if MakeupMatchesWeekType(&odd, model.WeekTypeOdd, &even) {
		t.Error("补课日期为双周时不应通过单周筛选")
	}

	// 无法推导日期奇偶时退化为父条目精确匹配
	if !MakeupMatchesWeekType(&odd, model.WeekTypeOdd, nil) {
		t.Error("无日期奇偶时单周父条目应通过单周筛选")
	}
	if MakeupMatchesWeekType(&odd, model.WeekTypeEvery, nil) {
		t.Error("无日期奇偶时 every 父条目不应通过单周筛选")
	}
}
