package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ErfanTavana/unischedule/internal/dto"
	"github.com/ErfanTavana/unischedule/internal/model"
)

func newSessionService(f *scheduleFixture) (ClassSessionService, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	return NewClassSessionService(f.repo, inv, zap.NewNop()), inv
}

// 基准数据：R101 周六 08:00-10:00 every（张老师）
// 周六 09:00-11:00 单周、同教室不同老师 —— 时间重叠且共享教室，必须冲突
func TestSessionCreateConflictSharedClassroom(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)

	_, err := svc.Create(context.Background(), testInstitutionID, &dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseOS.ID,
		ProfessorID: f.profLi.ID,
		ClassroomID: f.roomR101.ID,
		DayOfWeek:   model.DaySaturday,
		StartTime:   "09:00",
		EndTime:     "11:00",
		WeekType:    model.WeekTypeOdd,
	}, "tester")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Errorf("共享教室且时间重叠应返回 ErrScheduleConflict，实际 %v", err)
	}
}

// 周六 10:00-12:00 同教室 —— 首尾相接不算重叠
func TestSessionCreateTouchingEdgesNoConflict(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)

	resp, err := svc.Create(context.Background(), testInstitutionID, &dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseOS.ID,
		ProfessorID: f.profLi.ID,
		ClassroomID: f.roomR101.ID,
		DayOfWeek:   model.DaySaturday,
		StartTime:   "10:00",
		EndTime:     "12:00",
	}, "tester")
	if err != nil {
		t.Fatalf("首尾相接的时段不应冲突: %v", err)
	}
	if resp.WeekType != model.WeekTypeEvery {
		t.Errorf("未指定周类型应默认为 every，实际 %s", resp.WeekType)
	}
}

// 不同教室但同一个老师 —— 教师维度同样独占
func TestSessionCreateConflictSharedProfessor(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)

	_, err := svc.Create(context.Background(), testInstitutionID, &dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseOS.ID,
		ProfessorID: f.profZhang.ID,
		ClassroomID: f.roomR102.ID,
		DayOfWeek:   model.DaySaturday,
		StartTime:   "09:00",
		EndTime:     "11:00",
	}, "tester")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Errorf("共享教师且时间重叠应返回 ErrScheduleConflict，实际 %v", err)
	}
}

// 单周 vs 双周永远不落在同一周，同教室同时段也不冲突
func TestSessionCreateOppositeParityNoConflict(t *testing.T) {
	f := newScheduleFixture()
	f.stores.addSession(model.ClassSession{
		InstitutionID: testInstitutionID,
		SemesterID:    f.semester.ID,
		CourseID:      f.courseOS.ID,
		ProfessorID:   f.profLi.ID,
		ClassroomID:   f.roomR102.ID,
		DayOfWeek:     model.DayMonday,
		StartTime:     "14:00",
		EndTime:       "16:00",
		WeekType:      model.WeekTypeOdd,
	})
	svc, _ := newSessionService(f)

	if _, err := svc.Create(context.Background(), testInstitutionID, &dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseDS.ID,
		ProfessorID: f.profZhang.ID,
		ClassroomID: f.roomR102.ID,
		DayOfWeek:   model.DayMonday,
		StartTime:   "14:00",
		EndTime:     "16:00",
		WeekType:    model.WeekTypeEven,
	}, "tester"); err != nil {
		t.Errorf("单周与双周同时段不应冲突: %v", err)
	}
}

func TestSessionCreateInvalidTime(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)
	ctx := context.Background()

	cases := []struct{ start, end string }{
		{"10:00", "08:00"}, // 颠倒
		{"08:00", "08:00"}, // 零长度
		{"8:00", "10:00"},  // 非定长格式
		{"25:00", "26:00"}, // 非法时刻
	}
	for _, c := range cases {
		_, err := svc.Create(ctx, testInstitutionID, &dto.CreateClassSessionRequest{
			SemesterID:  f.semester.ID,
			CourseID:    f.courseDS.ID,
			ProfessorID: f.profZhang.ID,
			ClassroomID: f.roomR101.ID,
			DayOfWeek:   model.DayMonday,
			StartTime:   c.start,
			EndTime:     c.end,
		}, "tester")
		if !errors.Is(err, ErrSessionTimeInvalid) {
			t.Errorf("时段 %s-%s 应返回 ErrSessionTimeInvalid，实际 %v", c.start, c.end, err)
		}
	}
}

func TestSessionCreateRejectsDanglingReferences(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)
	ctx := context.Background()

	base := dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseDS.ID,
		ProfessorID: f.profZhang.ID,
		ClassroomID: f.roomR101.ID,
		DayOfWeek:   model.DayMonday,
		StartTime:   "08:00",
		EndTime:     "10:00",
	}

	req := base
	req.CourseID = 9999
	if _, err := svc.Create(ctx, testInstitutionID, &req, "tester"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("引用不存在课程应返回 ErrCourseNotFound，实际 %v", err)
	}

	req = base
	req.ProfessorID = 9999
	if _, err := svc.Create(ctx, testInstitutionID, &req, "tester"); !errors.Is(err, ErrProfessorNotFound) {
		t.Errorf("引用不存在教师应返回 ErrProfessorNotFound，实际 %v", err)
	}

	req = base
	req.ClassroomID = 9999
	if _, err := svc.Create(ctx, testInstitutionID, &req, "tester"); !errors.Is(err, ErrClassroomNotFound) {
		t.Errorf("引用不存在教室应返回 ErrClassroomNotFound，实际 %v", err)
	}
}

// 更新时冲突检测必须排除条目自身，否则原地保存都会被拒
func TestSessionUpdateExcludesSelf(t *testing.T) {
	f := newScheduleFixture()
	svc, _ := newSessionService(f)

	resp, err := svc.Update(context.Background(), testInstitutionID, f.baseSession.ID, &dto.UpdateClassSessionRequest{
		Note:    strPtr("换了教材"),
		Version: 1,
	}, "tester")
	if err != nil {
		t.Fatalf("原时段不变的更新不应冲突: %v", err)
	}
	if resp.Note != "换了教材" {
		t.Errorf("备注未更新，实际 %q", resp.Note)
	}
	if resp.Version != 2 {
		t.Errorf("版本应推进到 2，实际 %d", resp.Version)
	}
}

// 写路径必须触发缓存失效：创建/更新窄判、删除强制
func TestSessionWritePathsInvalidate(t *testing.T) {
	f := newScheduleFixture()
	svc, inv := newSessionService(f)
	ctx := context.Background()

	created, err := svc.Create(ctx, testInstitutionID, &dto.CreateClassSessionRequest{
		SemesterID:  f.semester.ID,
		CourseID:    f.courseOS.ID,
		ProfessorID: f.profLi.ID,
		ClassroomID: f.roomR102.ID,
		DayOfWeek:   model.DayMonday,
		StartTime:   "08:00",
		EndTime:     "10:00",
	}, "tester")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	calls := inv.snapshot()
	if len(calls) != 1 || calls[0].force {
		t.Fatalf("创建应触发一次窄判失效，实际 %+v", calls)
	}

	if _, err := svc.Update(ctx, testInstitutionID, created.ID, &dto.UpdateClassSessionRequest{
		DayOfWeek: strPtr(model.DayTuesday),
		Version:   1,
	}, "tester"); err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	// 更新要对原快照和新快照各失效一次
	calls = inv.snapshot()
	if len(calls) != 3 {
		t.Fatalf("更新后应累计 3 次失效调用，实际 %d", len(calls))
	}

	if err := svc.Delete(ctx, testInstitutionID, created.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	calls = inv.snapshot()
	last := calls[len(calls)-1]
	if !last.force {
		t.Error("删除应触发强制失效")
	}
}
