//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=owlfi password=owlfi_password dbname=owlfi_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.RoadshowEvent{},
		&model.Course{},
		&model.CourseLesson{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// createEvent 写入一场路演并注册清理
func createEvent(t *testing.T, repo *repository.Repository, startTime string) *model.RoadshowEvent {
	t.Helper()
	e := &model.RoadshowEvent{
		Title:           fmt.Sprintf("集成测试路演-%d", time.Now().UnixNano()),
		StartTime:       startTime,
		DurationMinutes: 60,
		ManualStatus:    "warming_up",
	}
	if err := repo.Roadshow.Create(context.Background(), e); err != nil {
		t.Fatalf("创建路演失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Unscoped().Where("id = ?", e.ID).Delete(&model.RoadshowEvent{})
	})
	return e
}

// ═══════════════════════════════════════════════════════════
// Test: RoadshowRepository
// ═══════════════════════════════════════════════════════════

func TestRoadshowRepo_CreateAndGet(t *testing.T) {
	repo := repository.NewRepository(testDB)
	e := createEvent(t, repo, "2031-05-10 10:00")

	if e.ID == 0 {
		t.Fatal("期望写入后回填自增 ID")
	}

	found, err := repo.Roadshow.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("查询路演失败: %v", err)
	}
	if found.StartTime != "2031-05-10 10:00" {
		t.Errorf("start_time 应原样保存, got %s", found.StartTime)
	}
	if string(found.Materials) != "[]" {
		t.Errorf("materials 默认值应为 [], got %s", found.Materials)
	}
}

func TestRoadshowRepo_CreateBatchRollsBack(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	existing := createEvent(t, repo, "2031-05-11 10:00")

	title := fmt.Sprintf("批量回滚-%d", time.Now().UnixNano())
	batch := []*model.RoadshowEvent{
		{Title: title, StartTime: "2031-05-12 10:00", DurationMinutes: 60, ManualStatus: "warming_up"},
		// 主键冲突，迫使第二条失败
		{ID: existing.ID, Title: title, StartTime: "2031-05-13 10:00", DurationMinutes: 60, ManualStatus: "warming_up"},
	}
	if err := repo.Roadshow.CreateBatch(ctx, batch); err == nil {
		t.Fatal("期望主键冲突导致批量写入失败")
	}

	var count int64
	testDB.Model(&model.RoadshowEvent{}).Where("title = ?", title).Count(&count)
	if count != 0 {
		testDB.Unscoped().Where("title = ?", title).Delete(&model.RoadshowEvent{})
		t.Fatalf("事务应整体回滚, 实际残留 %d 条", count)
	}
}

func TestRoadshowRepo_ListKeepsInsertionOrder(t *testing.T) {
	repo := repository.NewRepository(testDB)
	later := createEvent(t, repo, "2031-06-20 15:00")
	earlier := createEvent(t, repo, "2031-06-01 09:00")

	events, err := repo.Roadshow.List(context.Background())
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}

	pos := map[int64]int{}
	for i, e := range events {
		pos[e.ID] = i
	}
	if pos[later.ID] > pos[earlier.ID] {
		t.Error("列表应保持插入顺序，而非按开始时间排序")
	}
}

func TestRoadshowRepo_ListBetween(t *testing.T) {
	repo := repository.NewRepository(testDB)
	inMonth := createEvent(t, repo, "2031-07-31 23:30")
	nextMonth := createEvent(t, repo, "2031-08-01 00:00")

	events, err := repo.Roadshow.ListBetween(context.Background(), "2031-07-01", "2031-08-01")
	if err != nil {
		t.Fatalf("区间查询失败: %v", err)
	}

	var gotIn, gotNext bool
	for _, e := range events {
		switch e.ID {
		case inMonth.ID:
			gotIn = true
		case nextMonth.ID:
			gotNext = true
		}
	}
	if !gotIn {
		t.Error("期望包含 7 月 31 日的路演")
	}
	if gotNext {
		t.Error("上界应为开区间，不应包含 8 月 1 日的路演")
	}
}

func TestRoadshowRepo_SoftDelete(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	e := createEvent(t, repo, "2031-09-01 10:00")

	if err := repo.Roadshow.Delete(ctx, e.ID, "operator-1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := repo.Roadshow.GetByID(ctx, e.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("软删除后应查不到, got %v", err)
	}

	if err := repo.Roadshow.Delete(ctx, e.ID, "operator-1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("重复删除应返回 ErrRecordNotFound, got %v", err)
	}

	var raw model.RoadshowEvent
	testDB.Unscoped().Where("id = ?", e.ID).First(&raw)
	if raw.DeletedBy == nil || *raw.DeletedBy != "operator-1" {
		t.Error("期望记录 deleted_by")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: CourseRepository
// ═══════════════════════════════════════════════════════════

func TestCourseRepo_CreateWithLessons(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	course := &model.Course{
		Title:    fmt.Sprintf("集成测试课程-%d", time.Now().UnixNano()),
		Category: "roadshow",
		Lessons: []model.CourseLesson{
			{Title: "replay", VideoProvider: "bilibili", VideoID: "BV1xx411c7mD"},
		},
	}
	if err := repo.Course.Create(ctx, course); err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Unscoped().Where("course_id = ?", course.ID).Delete(&model.CourseLesson{})
		testDB.Unscoped().Where("id = ?", course.ID).Delete(&model.Course{})
	})

	var found model.Course
	if err := testDB.Preload("Lessons").First(&found, course.ID).Error; err != nil {
		t.Fatalf("查询课程失败: %v", err)
	}
	if len(found.Lessons) != 1 || found.Lessons[0].CourseID != course.ID {
		t.Fatalf("课时应随课程写入并关联, got %+v", found.Lessons)
	}
	if found.Lessons[0].VideoID != "BV1xx411c7mD" {
		t.Errorf("unexpected video id: %s", found.Lessons[0].VideoID)
	}
}
