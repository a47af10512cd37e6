package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
)

// ── Mock RoadshowRepository ──

var errMockBatch = errors.New("mock: batch insert failed")

type mockRoadshowRepo struct {
	events map[int64]*model.RoadshowEvent
	nextID int64
	err    error // 非 nil 时所有方法返回该错误
	calls  int

	// batchFailAt >= 0 时 CreateBatch 在该下标处失败并回滚
	batchFailAt int
}

func newMockRoadshowRepo() *mockRoadshowRepo {
	return &mockRoadshowRepo{events: make(map[int64]*model.RoadshowEvent), nextID: 1, batchFailAt: -1}
}

func (m *mockRoadshowRepo) seed(e *model.RoadshowEvent) *model.RoadshowEvent {
	if e.ID == 0 {
		e.ID = m.nextID
	}
	if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
	m.events[e.ID] = e
	return e
}

func (m *mockRoadshowRepo) Create(_ context.Context, e *model.RoadshowEvent) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	e.ID = 0
	m.seed(e)
	return nil
}

func (m *mockRoadshowRepo) CreateBatch(_ context.Context, events []*model.RoadshowEvent) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	// 先写入副本，失败时整批丢弃，与事务回滚一致
	staged := make(map[int64]*model.RoadshowEvent, len(events))
	next := m.nextID
	for i, e := range events {
		if i == m.batchFailAt {
			for _, ev := range events[:i] {
				ev.ID = 0
			}
			return errMockBatch
		}
		e.ID = next
		next++
		staged[e.ID] = e
	}
	for id, e := range staged {
		m.events[id] = e
	}
	m.nextID = next
	return nil
}

func (m *mockRoadshowRepo) GetByID(_ context.Context, id int64) (*model.RoadshowEvent, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoadshowRepo) List(_ context.Context) ([]model.RoadshowEvent, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(*model.RoadshowEvent) bool { return true }), nil
}

func (m *mockRoadshowRepo) ListBetween(_ context.Context, fromDate, toDate string) ([]model.RoadshowEvent, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(e *model.RoadshowEvent) bool {
		d := strings.TrimSpace(e.StartTime)
		if len(d) > 10 {
			d = d[:10]
		}
		return d >= fromDate && d < toDate
	}), nil
}

func (m *mockRoadshowRepo) Update(_ context.Context, e *model.RoadshowEvent) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockRoadshowRepo) Delete(_ context.Context, id int64, _ string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

// sorted 按 id 升序返回，与真实仓储的插入顺序一致
func (m *mockRoadshowRepo) sorted(keep func(*model.RoadshowEvent) bool) []model.RoadshowEvent {
	ids := make([]int64, 0, len(m.events))
	for id := range m.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var result []model.RoadshowEvent
	for _, id := range ids {
		if keep(m.events[id]) {
			result = append(result, *m.events[id])
		}
	}
	return result
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[int64]*model.Course
	nextID  int64
	err     error
	noID    bool // 模拟写入成功但未返回 ID
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[int64]*model.Course), nextID: 100}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.err != nil {
		return m.err
	}
	if m.noID {
		return nil
	}
	course.ID = m.nextID
	m.nextID++
	for i := range course.Lessons {
		course.Lessons[i].CourseID = course.ID
	}
	m.courses[course.ID] = course
	return nil
}

// ── 测试辅助 ──

func newTestRepository() (*repository.Repository, *mockRoadshowRepo, *mockCourseRepo) {
	rs := newMockRoadshowRepo()
	cs := newMockCourseRepo()
	return &repository.Repository{Roadshow: rs, Course: cs}, rs, cs
}

func testLogger() *zap.Logger { return zap.NewNop() }

// wallTime 测试用墙上时间，格式同路演开始时间
func wallTime(s string) time.Time {
	t, ok := roadshow.ParseTime(s)
	if !ok {
		panic("bad test time: " + s)
	}
	return t
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
