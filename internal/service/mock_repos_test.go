package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ErfanTavana/unischedule/internal/model"
	"github.com/ErfanTavana/unischedule/internal/repository"
	pkgerrors "github.com/ErfanTavana/unischedule/pkg/errors"
)

// ── 内存版 Repository 实现 ──
// 行为与数据库实现对齐：租户隔离、乐观锁、周类型连带 every、半开区间重叠。
// 只实现业务层测试需要的语义，不模拟 SQL 细节。

type mockStores struct {
	mu sync.Mutex

	nextID uint

	semesters     map[uint]model.Semester
	courses       map[uint]model.Course
	professors    map[uint]model.Professor
	buildings     map[uint]model.Building
	classrooms    map[uint]model.Classroom
	sessions      map[uint]model.ClassSession
	cancellations map[uint]model.ClassCancellation
	makeups       map[uint]model.MakeupClassSession
	screens       map[uint]model.DisplayScreen

	// 非 nil 时对应的列表查询直接失败，模拟数据库故障
	cancellationListErr error
	makeupListErr       error
}

func newMockStores() *mockStores {
	return &mockStores{
		nextID:        1,
		semesters:     map[uint]model.Semester{},
		courses:       map[uint]model.Course{},
		professors:    map[uint]model.Professor{},
		buildings:     map[uint]model.Building{},
		classrooms:    map[uint]model.Classroom{},
		sessions:      map[uint]model.ClassSession{},
		cancellations: map[uint]model.ClassCancellation{},
		makeups:       map[uint]model.MakeupClassSession{},
		screens:       map[uint]model.DisplayScreen{},
	}
}

func (m *mockStores) id() uint {
	id := m.nextID
	m.nextID++
	return id
}

// newMockRepository 组装挂满内存实现的 Repository 聚合
func newMockRepository() (*repository.Repository, *mockStores) {
	stores := newMockStores()
	repo := &repository.Repository{
		Semester:      &mockSemesterRepo{s: stores},
		Course:        &mockCourseRepo{s: stores},
		Professor:     &mockProfessorRepo{s: stores},
		Building:      &mockBuildingRepo{s: stores},
		Classroom:     &mockClassroomRepo{s: stores},
		ClassSession:  &mockClassSessionRepo{s: stores},
		Cancellation:  &mockCancellationRepo{s: stores},
		Makeup:        &mockMakeupRepo{s: stores},
		DisplayScreen: &mockDisplayScreenRepo{s: stores},
	}
	return repo, stores
}

// ── 测试数据种子 ──

func (m *mockStores) addSemester(sem model.Semester) *model.Semester {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sem.ID == 0 {
		sem.ID = m.id()
	}
	if sem.Version == 0 {
		sem.Version = 1
	}
	m.semesters[sem.ID] = sem
	stored := m.semesters[sem.ID]
	return &stored
}

func (m *mockStores) addCourse(c model.Course) *model.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.courses[c.ID] = c
	stored := m.courses[c.ID]
	return &stored
}

func (m *mockStores) addProfessor(p model.Professor) *model.Professor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.id()
	}
	m.professors[p.ID] = p
	stored := m.professors[p.ID]
	return &stored
}

func (m *mockStores) addBuilding(b model.Building) *model.Building {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		b.ID = m.id()
	}
	m.buildings[b.ID] = b
	stored := m.buildings[b.ID]
	return &stored
}

func (m *mockStores) addClassroom(c model.Classroom) *model.Classroom {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.classrooms[c.ID] = c
	stored := m.classrooms[c.ID]
	return &stored
}

func (m *mockStores) addSession(session model.ClassSession) *model.ClassSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == 0 {
		session.ID = m.id()
	}
	if session.Version == 0 {
		session.Version = 1
	}
	if session.WeekType == "" {
		session.WeekType = model.WeekTypeEvery
	}
	m.sessions[session.ID] = session
	stored := m.sessions[session.ID]
	return &stored
}

func (m *mockStores) addCancellation(cancellation model.ClassCancellation) *model.ClassCancellation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancellation.ID == 0 {
		cancellation.ID = m.id()
	}
	m.cancellations[cancellation.ID] = cancellation
	stored := m.cancellations[cancellation.ID]
	return &stored
}

func (m *mockStores) addMakeup(makeup model.MakeupClassSession) *model.MakeupClassSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if makeup.ID == 0 {
		makeup.ID = m.id()
	}
	m.makeups[makeup.ID] = makeup
	stored := m.makeups[makeup.ID]
	return &stored
}

func (m *mockStores) addScreen(screen model.DisplayScreen) *model.DisplayScreen {
	m.mu.Lock()
	defer m.mu.Unlock()
	if screen.ID == 0 {
		screen.ID = m.id()
	}
	if screen.Version == 0 {
		screen.Version = 1
	}
	m.screens[screen.ID] = screen
	stored := m.screens[screen.ID]
	return &stored
}

// ── Semester ──

type mockSemesterRepo struct {
	s *mockStores
}

func (r *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	semester.ID = r.s.id()
	if semester.Version == 0 {
		semester.Version = 1
	}
	r.s.semesters[semester.ID] = *semester
	return nil
}

func (r *mockSemesterRepo) GetByID(_ context.Context, institutionID, id uint) (*model.Semester, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	semester, ok := r.s.semesters[id]
	if !ok || semester.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &semester, nil
}

func (r *mockSemesterRepo) GetActive(_ context.Context, institutionID uint) (*model.Semester, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, semester := range r.s.semesters {
		if semester.InstitutionID == institutionID && semester.IsActive {
			found := semester
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockSemesterRepo) List(_ context.Context, institutionID uint) ([]model.Semester, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.Semester
	for _, semester := range r.s.semesters {
		if semester.InstitutionID == institutionID {
			result = append(result, semester)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (r *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.semesters[semester.ID]
	if !ok || stored.Version != semester.Version {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version++
	r.s.semesters[semester.ID] = *semester
	return nil
}

func (r *mockSemesterRepo) Delete(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	semester, ok := r.s.semesters[id]
	if ok && semester.InstitutionID == institutionID {
		delete(r.s.semesters, id)
	}
	return nil
}

func (r *mockSemesterRepo) ClearActive(_ context.Context, institutionID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, semester := range r.s.semesters {
		if semester.InstitutionID == institutionID && semester.IsActive {
			semester.IsActive = false
			r.s.semesters[id] = semester
		}
	}
	return nil
}

func (r *mockSemesterRepo) SetActive(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	semester, ok := r.s.semesters[id]
	if !ok || semester.InstitutionID != institutionID {
		return gorm.ErrRecordNotFound
	}
	semester.IsActive = true
	r.s.semesters[id] = semester
	return nil
}

// ── 基础档案 ──

type mockCourseRepo struct {
	s *mockStores
}

func (r *mockCourseRepo) GetByID(_ context.Context, institutionID, id uint) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	course, ok := r.s.courses[id]
	if !ok || course.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &course, nil
}

func (r *mockCourseRepo) List(_ context.Context, institutionID uint) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.Course
	for _, course := range r.s.courses {
		if course.InstitutionID == institutionID {
			result = append(result, course)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

type mockProfessorRepo struct {
	s *mockStores
}

func (r *mockProfessorRepo) GetByID(_ context.Context, institutionID, id uint) (*model.Professor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	professor, ok := r.s.professors[id]
	if !ok || professor.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &professor, nil
}

type mockBuildingRepo struct {
	s *mockStores
}

func (r *mockBuildingRepo) GetByID(_ context.Context, institutionID, id uint) (*model.Building, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	building, ok := r.s.buildings[id]
	if !ok || building.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &building, nil
}

type mockClassroomRepo struct {
	s *mockStores
}

func (r *mockClassroomRepo) GetByIDInInstitution(_ context.Context, institutionID, id uint) (*model.Classroom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	classroom, ok := r.s.classrooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	building, ok := r.s.buildings[classroom.BuildingID]
	if !ok || building.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	b := building
	classroom.Building = &b
	return &classroom, nil
}

// ── ClassSession ──

type mockClassSessionRepo struct {
	s *mockStores
}

func (r *mockClassSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = r.s.id()
	if session.Version == 0 {
		session.Version = 1
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *mockClassSessionRepo) GetByID(_ context.Context, institutionID, id uint) (*model.ClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	r.preload(&session)
	return &session, nil
}

func (r *mockClassSessionRepo) List(_ context.Context, institutionID uint, q repository.SessionQuery, offset, limit int) ([]model.ClassSession, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.InstitutionID = institutionID
	matched := r.match(q)
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *mockClassSessionRepo) Update(_ context.Context, session *model.ClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.sessions[session.ID]
	if !ok || stored.Version != session.Version {
		return pkgerrors.ErrOptimisticLock
	}
	session.Version++
	copied := *session
	copied.Semester, copied.Course, copied.Professor, copied.Classroom = nil, nil, nil, nil
	r.s.sessions[session.ID] = copied
	return nil
}

func (r *mockClassSessionRepo) Delete(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if ok && session.InstitutionID == institutionID {
		delete(r.s.sessions, id)
	}
	return nil
}

func (r *mockClassSessionRepo) HasTimeConflict(_ context.Context, cand repository.ConflictCandidate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, session := range r.s.sessions {
		if session.InstitutionID != cand.InstitutionID ||
			session.SemesterID != cand.SemesterID ||
			session.DayOfWeek != cand.DayOfWeek {
			continue
		}
		if cand.ExcludeID != 0 && session.ID == cand.ExcludeID {
			continue
		}
		if !WeekTypesCompatible(session.WeekType, cand.WeekType) {
			continue
		}
		if !TimeRangesOverlap(session.StartTime, session.EndTime, cand.StartTime, cand.EndTime) {
			continue
		}
		if session.ClassroomID == cand.ClassroomID || session.ProfessorID == cand.ProfessorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockClassSessionRepo) ListForDisplay(_ context.Context, q repository.SessionQuery) ([]model.ClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.match(q), nil
}

// match 套用 SessionQuery 的全部维度，返回关联已填充的副本
func (r *mockClassSessionRepo) match(q repository.SessionQuery) []model.ClassSession {
	var result []model.ClassSession
	for _, session := range r.s.sessions {
		if session.InstitutionID != q.InstitutionID {
			continue
		}
		if q.SemesterID != nil && session.SemesterID != *q.SemesterID {
			continue
		}
		if q.ClassroomID != nil && session.ClassroomID != *q.ClassroomID {
			continue
		}
		if q.BuildingID != nil {
			classroom, ok := r.s.classrooms[session.ClassroomID]
			if !ok || classroom.BuildingID != *q.BuildingID {
				continue
			}
		}
		if q.CourseID != nil && session.CourseID != *q.CourseID {
			continue
		}
		if q.ProfessorID != nil && session.ProfessorID != *q.ProfessorID {
			continue
		}
		if q.GroupCode != "" && session.GroupCode != q.GroupCode {
			continue
		}
		if q.DayOfWeek != nil && session.DayOfWeek != *q.DayOfWeek {
			continue
		}
		if q.WeekType != nil {
			if *q.WeekType == model.WeekTypeEvery {
				if session.WeekType != model.WeekTypeEvery {
					continue
				}
			} else if session.WeekType != model.WeekTypeEvery && session.WeekType != *q.WeekType {
				continue
			}
		}
		if q.StartTimeGte != nil && session.StartTime < *q.StartTimeGte {
			continue
		}
		if q.EndTimeLte != nil && session.EndTime > *q.EndTimeLte {
			continue
		}
		if q.CapacityGte != nil {
			if session.Capacity == nil || *session.Capacity < *q.CapacityGte {
				continue
			}
		}
		if q.DateOverride != nil {
			semester, ok := r.s.semesters[session.SemesterID]
			if !ok || !semester.ContainsDate(*q.DateOverride) {
				continue
			}
		}
		copied := session
		r.preload(&copied)
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *mockClassSessionRepo) preload(session *model.ClassSession) {
	if semester, ok := r.s.semesters[session.SemesterID]; ok {
		sem := semester
		session.Semester = &sem
	}
	if course, ok := r.s.courses[session.CourseID]; ok {
		c := course
		session.Course = &c
	}
	if professor, ok := r.s.professors[session.ProfessorID]; ok {
		p := professor
		session.Professor = &p
	}
	if classroom, ok := r.s.classrooms[session.ClassroomID]; ok {
		cr := classroom
		if building, ok := r.s.buildings[cr.BuildingID]; ok {
			b := building
			cr.Building = &b
		}
		session.Classroom = &cr
	}
}

// ── Cancellation ──

type mockCancellationRepo struct {
	s *mockStores
}

func (r *mockCancellationRepo) Create(_ context.Context, cancellation *model.ClassCancellation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cancellation.ID = r.s.id()
	copied := *cancellation
	copied.ClassSession = nil
	r.s.cancellations[cancellation.ID] = copied
	return nil
}

func (r *mockCancellationRepo) GetByID(_ context.Context, institutionID, id uint) (*model.ClassCancellation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cancellation, ok := r.s.cancellations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	session, ok := r.s.sessions[cancellation.ClassSessionID]
	if !ok || session.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	parent := session
	cancellation.ClassSession = &parent
	return &cancellation, nil
}

func (r *mockCancellationRepo) ListBySession(_ context.Context, sessionID uint) ([]model.ClassCancellation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.ClassCancellation
	for _, cancellation := range r.s.cancellations {
		if cancellation.ClassSessionID == sessionID {
			result = append(result, cancellation)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (r *mockCancellationRepo) ListActiveForDate(_ context.Context, institutionID uint, date time.Time) ([]model.ClassCancellation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.cancellationListErr != nil {
		return nil, r.s.cancellationListErr
	}
	day := model.DateOnly(date)
	var result []model.ClassCancellation
	for _, cancellation := range r.s.cancellations {
		if !cancellation.IsActive || !model.DateOnly(cancellation.Date).Equal(day) {
			continue
		}
		session, ok := r.s.sessions[cancellation.ClassSessionID]
		if !ok || session.InstitutionID != institutionID {
			continue
		}
		result = append(result, cancellation)
	}
	return result, nil
}

func (r *mockCancellationRepo) Update(_ context.Context, cancellation *model.ClassCancellation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.cancellations[cancellation.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Reason = cancellation.Reason
	stored.Note = cancellation.Note
	stored.IsActive = cancellation.IsActive
	stored.UpdatedBy = cancellation.UpdatedBy
	r.s.cancellations[cancellation.ID] = stored
	return nil
}

func (r *mockCancellationRepo) Delete(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cancellation, ok := r.s.cancellations[id]
	if !ok {
		return nil
	}
	session, ok := r.s.sessions[cancellation.ClassSessionID]
	if ok && session.InstitutionID == institutionID {
		delete(r.s.cancellations, id)
	}
	return nil
}

func (r *mockCancellationRepo) ExistsActive(_ context.Context, sessionID uint, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day := model.DateOnly(date)
	for _, cancellation := range r.s.cancellations {
		if cancellation.ClassSessionID == sessionID && cancellation.IsActive &&
			model.DateOnly(cancellation.Date).Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

// ── Makeup ──

type mockMakeupRepo struct {
	s *mockStores
}

func (r *mockMakeupRepo) Create(_ context.Context, makeup *model.MakeupClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	makeup.ID = r.s.id()
	copied := *makeup
	copied.ClassSession, copied.Classroom = nil, nil
	r.s.makeups[makeup.ID] = copied
	return nil
}

func (r *mockMakeupRepo) GetByID(_ context.Context, institutionID, id uint) (*model.MakeupClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	makeup, ok := r.s.makeups[id]
	if !ok || makeup.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	r.preload(&makeup)
	return &makeup, nil
}

func (r *mockMakeupRepo) List(_ context.Context, institutionID uint, offset, limit int) ([]model.MakeupClassSession, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.MakeupClassSession
	for _, makeup := range r.s.makeups {
		if makeup.InstitutionID == institutionID {
			copied := makeup
			r.preload(&copied)
			matched = append(matched, copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *mockMakeupRepo) ListForDate(_ context.Context, institutionID uint, date time.Time) ([]model.MakeupClassSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.makeupListErr != nil {
		return nil, r.s.makeupListErr
	}
	day := model.DateOnly(date)
	var result []model.MakeupClassSession
	for _, makeup := range r.s.makeups {
		if makeup.InstitutionID != institutionID || !model.DateOnly(makeup.Date).Equal(day) {
			continue
		}
		copied := makeup
		r.preload(&copied)
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockMakeupRepo) Update(_ context.Context, makeup *model.MakeupClassSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.makeups[makeup.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Date = makeup.Date
	stored.StartTime = makeup.StartTime
	stored.EndTime = makeup.EndTime
	stored.ClassroomID = makeup.ClassroomID
	stored.GroupCode = makeup.GroupCode
	stored.Note = makeup.Note
	stored.UpdatedBy = makeup.UpdatedBy
	r.s.makeups[makeup.ID] = stored
	return nil
}

func (r *mockMakeupRepo) Delete(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	makeup, ok := r.s.makeups[id]
	if ok && makeup.InstitutionID == institutionID {
		delete(r.s.makeups, id)
	}
	return nil
}

func (r *mockMakeupRepo) TimeConflictExists(_ context.Context, cand repository.MakeupConflictCandidate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day := model.DateOnly(cand.Date)
	for _, makeup := range r.s.makeups {
		if makeup.InstitutionID != cand.InstitutionID || !model.DateOnly(makeup.Date).Equal(day) {
			continue
		}
		if cand.ExcludeID != 0 && makeup.ID == cand.ExcludeID {
			continue
		}
		if !TimeRangesOverlap(makeup.StartTime, makeup.EndTime, cand.StartTime, cand.EndTime) {
			continue
		}
		parent, ok := r.s.sessions[makeup.ClassSessionID]
		if !ok {
			continue
		}
		if makeup.ClassroomID == cand.ClassroomID ||
			parent.ProfessorID == cand.ProfessorID ||
			makeup.ClassSessionID == cand.ClassSessionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockMakeupRepo) preload(makeup *model.MakeupClassSession) {
	if session, ok := r.s.sessions[makeup.ClassSessionID]; ok {
		parent := session
		if semester, ok := r.s.semesters[parent.SemesterID]; ok {
			sem := semester
			parent.Semester = &sem
		}
		if course, ok := r.s.courses[parent.CourseID]; ok {
			c := course
			parent.Course = &c
		}
		if professor, ok := r.s.professors[parent.ProfessorID]; ok {
			p := professor
			parent.Professor = &p
		}
		makeup.ClassSession = &parent
	}
	if classroom, ok := r.s.classrooms[makeup.ClassroomID]; ok {
		cr := classroom
		if building, ok := r.s.buildings[cr.BuildingID]; ok {
			b := building
			cr.Building = &b
		}
		makeup.Classroom = &cr
	}
}

// ── DisplayScreen ──

type mockDisplayScreenRepo struct {
	s *mockStores
}

func (r *mockDisplayScreenRepo) Create(_ context.Context, screen *model.DisplayScreen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	screen.ID = r.s.id()
	if screen.Version == 0 {
		screen.Version = 1
	}
	r.s.screens[screen.ID] = *screen
	return nil
}

func (r *mockDisplayScreenRepo) GetByID(_ context.Context, institutionID, id uint) (*model.DisplayScreen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	screen, ok := r.s.screens[id]
	if !ok || screen.InstitutionID != institutionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &screen, nil
}

func (r *mockDisplayScreenRepo) GetBySlug(_ context.Context, slug string) (*model.DisplayScreen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, screen := range r.s.screens {
		if screen.Slug == slug {
			found := screen
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockDisplayScreenRepo) List(_ context.Context, institutionID uint) ([]model.DisplayScreen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.DisplayScreen
	for _, screen := range r.s.screens {
		if screen.InstitutionID == institutionID {
			result = append(result, screen)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *mockDisplayScreenRepo) ListActiveByInstitution(_ context.Context, institutionID uint) ([]model.DisplayScreen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.DisplayScreen
	for _, screen := range r.s.screens {
		if screen.InstitutionID == institutionID && screen.IsActive {
			result = append(result, screen)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockDisplayScreenRepo) Update(_ context.Context, screen *model.DisplayScreen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.screens[screen.ID]
	if !ok || stored.Version != screen.Version {
		return pkgerrors.ErrOptimisticLock
	}
	screen.Version++
	r.s.screens[screen.ID] = *screen
	return nil
}

func (r *mockDisplayScreenRepo) Delete(_ context.Context, institutionID, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	screen, ok := r.s.screens[id]
	if ok && screen.InstitutionID == institutionID {
		delete(r.s.screens, id)
	}
	return nil
}

// ── 失效器与缓存桩 ──

// recordingInvalidator 记录每次失效调用，供写路径测试断言
type recordingInvalidator struct {
	mu    sync.Mutex
	calls []invalidationCall
}

type invalidationCall struct {
	sessionID uint
	force     bool
}

func (r *recordingInvalidator) InvalidateForSession(_ context.Context, session *model.ClassSession, force bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invalidationCall{sessionID: session.ID, force: force})
}

func (r *recordingInvalidator) snapshot() []invalidationCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invalidationCall(nil), r.calls...)
}

// failingStore 永远失败的缓存，验证读路径降级
type failingStore struct {
	err error
}

func (f *failingStore) Get(_ context.Context, _ string) ([]byte, error) { return nil, f.err }

func (f *failingStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return f.err
}

func (f *failingStore) Delete(_ context.Context, _ string) error { return f.err }
