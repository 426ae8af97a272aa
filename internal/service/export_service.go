package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSessions   = errors.New("该学期暂无课表条目")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将一个学期的周期课表导出为 Excel (.xlsx)，每个星期一个 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出学期课表为 Excel
	ExportTimetable(ctx context.Context, institutionID, semesterID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 导出学期课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每个星期一个 Sheet（saturday → friday，跳过没有课的天）
//   - 列：开始时间 / 结束时间 / 课程 / 教师 / 教室 / 教学楼 / 分组 / 单双周 / 备注
//   - 行按开始时间升序

func (s *exportService) ExportTimetable(ctx context.Context, institutionID, semesterID uint) (*bytes.Buffer, string, error) {
	semester, err := s.repo.Semester.GetByID(ctx, institutionID, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Uint("semester_id", semesterID), zap.Error(err))
		return nil, "", err
	}

	sessions, err := s.repo.ClassSession.ListForDisplay(ctx, repository.SessionQuery{
		InstitutionID: institutionID,
		SemesterID:    &semesterID,
	})
	if err != nil {
		s.logger.Error("查询课表条目失败", zap.Error(err))
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoSessions
	}

	// 按星期分组并排序
	byDay := make(map[string][]*model.ClassSession)
	for i := range sessions {
		session := &sessions[i]
		byDay[session.DayOfWeek] = append(byDay[session.DayOfWeek], session)
	}
	for _, daySessions := range byDay {
		sort.Slice(daySessions, func(i, j int) bool {
			if daySessions[i].StartTime != daySessions[j].StartTime {
				return daySessions[i].StartTime < daySessions[j].StartTime
			}
			return daySessions[i].ID < daySessions[j].ID
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"开始时间", "结束时间", "课程", "教师", "教室", "教学楼", "分组", "单双周", "备注"}
	dayOrder := []string{
		model.DaySaturday, model.DaySunday, model.DayMonday, model.DayTuesday,
		model.DayWednesday, model.DayThursday, model.DayFriday,
	}

	firstSheet := true
	for _, day := range dayOrder {
		daySessions, ok := byDay[day]
		if !ok {
			continue
		}

		sheet := day
		if firstSheet {
			// excelize 默认创建 "Sheet1"，第一个可用的天直接改名复用
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, "", ErrExportGenerateFail
			}
			firstSheet = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}

		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}

		for row, session := range daySessions {
			values := []interface{}{
				session.StartTime,
				session.EndTime,
				courseTitle(session),
				professorName(session),
				classroomName(session),
				buildingName(session),
				session.GroupCode,
				session.WeekType,
				session.Note,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, "", ErrExportGenerateFail
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", semester.Title)
	return buf, filename, nil
}

func courseTitle(session *model.ClassSession) string {
	if session.Course != nil {
		return session.Course.Title
	}
	return ""
}

func professorName(session *model.ClassSession) string {
	if session.Professor != nil {
		return session.Professor.FullName()
	}
	return ""
}

func classroomName(session *model.ClassSession) string {
	if session.Classroom != nil {
		return session.Classroom.Name
	}
	return ""
}

func buildingName(session *model.ClassSession) string {
	if session.Classroom != nil && session.Classroom.Building != nil {
		return session.Classroom.Building.Name
	}
	return ""
}
