package service

import (
	"time"

	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
)

// ── 共享测试数据 ──
// 学期从 2024-01-06（周六）开始：01-06 / 01-20 为单周，01-13 为双周

const testInstitutionID uint = 1

type scheduleFixture struct {
	repo   *repository.Repository
	stores *mockStores

	semester  *model.Semester
	building  *model.Building
	roomR101  *model.Classroom
	roomR102  *model.Classroom
	courseDS  *model.Course
	courseOS  *model.Course
	profZhang *model.Professor
	profLi    *model.Professor

	// 周六 08:00-10:00 every，R101，张老师，数据结构
	baseSession *model.ClassSession
}

func newScheduleFixture() *scheduleFixture {
	repo, stores := newMockRepository()

	f := &scheduleFixture{repo: repo, stores: stores}

	f.semester = stores.addSemester(model.Semester{
		InstitutionID: testInstitutionID,
		Title:         "2024 春季学期",
		StartDate:     date(2024, 1, 6),
		EndDate:       date(2024, 6, 20),
		IsActive:      true,
	})
	f.building = stores.addBuilding(model.Building{
		InstitutionID: testInstitutionID,
		Name:          "主教学楼",
	})
	f.roomR101 = stores.addClassroom(model.Classroom{BuildingID: f.building.ID, Name: "R101"})
	f.roomR102 = stores.addClassroom(model.Classroom{BuildingID: f.building.ID, Name: "R102"})
	f.courseDS = stores.addCourse(model.Course{InstitutionID: testInstitutionID, Title: "数据结构", Code: "CS201"})
	f.courseOS = stores.addCourse(model.Course{InstitutionID: testInstitutionID, Title: "操作系统", Code: "CS301"})
	f.profZhang = stores.addProfessor(model.Professor{InstitutionID: testInstitutionID, FirstName: "伟", LastName: "张"})
	f.profLi = stores.addProfessor(model.Professor{InstitutionID: testInstitutionID, FirstName: "娜", LastName: "李"})

	f.baseSession = stores.addSession(model.ClassSession{
		InstitutionID: testInstitutionID,
		SemesterID:    f.semester.ID,
		CourseID:      f.courseDS.ID,
		ProfessorID:   f.profZhang.ID,
		ClassroomID:   f.roomR101.ID,
		DayOfWeek:     model.DaySaturday,
		StartTime:     "08:00",
		EndTime:       "10:00",
		WeekType:      model.WeekTypeEvery,
	})
	return f
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint      { return &v }
func intPtr(v int) *int         { return &v }
func strPtr(v string) *string   { return &v }
func timePtr(t time.Time) *time.Time { return &t }
