package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/ErfanTavana/unischedule/internal/dto"
)

// ICSFeedService 显示屏日历订阅：把屏幕负载转成 iCalendar 文本
// 与公共 JSON 负载同源（复用 GetPublicPayload 的缓存与物化路径），
// 同一屏幕的两种输出永远一致
type ICSFeedService interface {
	// Calendar 按 slug 生成 iCalendar 内容
	Calendar(ctx context.Context, slug string) (string, error)
}

type icsFeedService struct {
	display DisplayService
	logger  *zap.Logger
	now     func() time.Time
}

// NewICSFeedService 创建 ICSFeedService 实例
func NewICSFeedService(display DisplayService, logger *zap.Logger) ICSFeedService {
	return &icsFeedService{
		display: display,
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── Calendar ──────────────────────

func (s *icsFeedService) Calendar(ctx context.Context, slug string) (string, error) {
	payload, err := s.display.GetPublicPayload(ctx, slug)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//unischedule//display//ZH")
	cal.SetName(payload.Screen.Title)

	now := s.now()
	for i := range payload.Sessions {
		occ := &payload.Sessions[i]

		start, end, ok := s.occurrenceTimes(occ, now)
		if !ok {
			continue
		}

		event := cal.AddEvent(eventUID(occ))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(occ.CourseTitle)
		if location := occurrenceLocation(occ); location != "" {
			event.SetLocation(location)
		}
		if desc := occurrenceDescription(occ); desc != "" {
			event.SetDescription(desc)
		}
		if occ.IsCancelled {
			event.SetStatus(ics.ObjectStatusCancelled)
		}
	}

	return cal.Serialize(), nil
}

// occurrenceTimes 计算事件的起止时刻
// 有锚点日期直接用；纯周期行（无日期）落到下一个对应星期
func (s *icsFeedService) occurrenceTimes(occ *dto.SessionOccurrence, now time.Time) (time.Time, time.Time, bool) {
	var day time.Time
	if occ.Date != "" {
		parsed, err := ParseDate(occ.Date)
		if err != nil {
			s.logger.Warn("负载日期无法解析", zap.String("date", occ.Date))
			return time.Time{}, time.Time{}, false
		}
		day = parsed
	} else {
		day = NextDateForDay(now, occ.DayOfWeek)
	}

	start, ok := combineDayAndClock(day, occ.StartTime)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := combineDayAndClock(day, occ.EndTime)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func combineDayAndClock(day time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), true
}

// eventUID 事件标识：补课和周期课分开编号，同一条目同一天保持稳定
func eventUID(occ *dto.SessionOccurrence) string {
	kind := "session"
	if occ.IsMakeup {
		kind = "makeup"
	}
	if occ.Date != "" {
		return fmt.Sprintf("%s-%d-%s@unischedule", kind, occ.ID, occ.Date)
	}
	return fmt.Sprintf("%s-%d@unischedule", kind, occ.ID)
}

func occurrenceLocation(occ *dto.SessionOccurrence) string {
	if occ.ClassroomTitle == "" {
		return ""
	}
	if occ.BuildingTitle == "" {
		return occ.ClassroomTitle
	}
	return occ.BuildingTitle + " " + occ.ClassroomTitle
}

func occurrenceDescription(occ *dto.SessionOccurrence) string {
	desc := ""
	if occ.ProfessorName != "" {
		desc = "教师：" + occ.ProfessorName
	}
	if occ.IsCancelled && occ.CancellationReason != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += "停课原因：" + occ.CancellationReason
	}
	if occ.Note != "" {
		if desc != "" {
			desc += "\n"
		}
		desc += "备注：" + occ.Note
	}
	return desc
}
