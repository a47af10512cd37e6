package service

import (
	"context"
	"errors"
	"testing"
)

func setupTestCourseConversionService() (CourseConversionService, *mockRoadshowRepo, *mockCourseRepo) {
	repo, rs, cs := newTestRepository()
	return NewCourseConversionService(repo, testLogger()), rs, cs
}

func TestCourseConversionService_ConvertToCourse(t *testing.T) {
	svc, rs, cs := setupTestCourseConversionService()
	e := seedEvent(rs, "医药行业年度策略", "2026-03-01 10:00", 90)
	e.ReplayURL = "https://www.bilibili.com/video/BV1GJ411x7h7?p=1"
	e.ExternalURL = "https://youtu.be/dQw4w9WgXcQ"
	e.CoverURL = "https://cdn.example.com/cover.png"
	before := *e

	id, err := svc.ConvertToCourse(context.Background(), e.ID, "op-001")
	if err != nil {
		t.Fatalf("ConvertToCourse 应成功: %v", err)
	}
	if id == 0 {
		t.Fatal("期望返回新课程 ID")
	}

	course := cs.courses[id]
	if course.Title != "医药行业年度策略" || course.CoverURL != e.CoverURL {
		t.Errorf("课程标题/封面不符: %+v", course)
	}
	if course.Description != "本课程整理自路演《医药行业年度策略》" {
		t.Errorf("描述应引用原路演标题: %s", course.Description)
	}
	if len(course.Lessons) != 1 {
		t.Fatalf("期望 1 个课时，实际 %d", len(course.Lessons))
	}
	lesson := course.Lessons[0]
	if lesson.Title != ReplayLessonTitle {
		t.Errorf("课时标题应为 replay，实际 %s", lesson.Title)
	}
	if lesson.VideoProvider != "bilibili" || lesson.VideoID != "BV1GJ411x7h7" {
		t.Errorf("应优先从回放链接提取视频: %s/%s", lesson.VideoProvider, lesson.VideoID)
	}
	if lesson.DurationMinutes != 90 || lesson.CourseID != id {
		t.Errorf("课时字段不符: %+v", lesson)
	}

	after := rs.events[e.ID]
	if after.Title != before.Title || after.ReplayURL != before.ReplayURL || after.UpdatedBy != before.UpdatedBy {
		t.Error("原路演不应被修改")
	}
}

func TestCourseConversionService_FallbackToExternalURL(t *testing.T) {
	svc, rs, cs := setupTestCourseConversionService()
	e := seedEvent(rs, "A", "2026-03-01 10:00", 60)
	e.ReplayURL = "https://example.com/not-a-video"
	e.ExternalURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	id, err := svc.ConvertToCourse(context.Background(), e.ID, "op")
	if err != nil {
		t.Fatalf("ConvertToCourse 应成功: %v", err)
	}
	lesson := cs.courses[id].Lessons[0]
	if lesson.VideoProvider != "youtube" || lesson.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("期望回退到外部链接: %s/%s", lesson.VideoProvider, lesson.VideoID)
	}
}

func TestCourseConversionService_NoRecognizedVideo(t *testing.T) {
	svc, rs, cs := setupTestCourseConversionService()
	e := seedEvent(rs, "A", "2026-03-01 10:00", 60)

	id, _ := svc.ConvertToCourse(context.Background(), e.ID, "op")
	lesson := cs.courses[id].Lessons[0]
	if lesson.VideoProvider != "" || lesson.VideoID != "" {
		t.Errorf("无可识别视频时应留空: %+v", lesson)
	}
}

func TestCourseConversionService_Unconfirmed(t *testing.T) {
	svc, rs, cs := setupTestCourseConversionService()
	e := seedEvent(rs, "A", "2026-03-01 10:00", 60)
	cs.noID = true

	id, err := svc.ConvertToCourse(context.Background(), e.ID, "op")
	if err != nil || id != 0 {
		t.Errorf("未确认创建时期望返回 0，实际 id=%d err=%v", id, err)
	}
}

func TestCourseConversionService_Errors(t *testing.T) {
	svc, rs, cs := setupTestCourseConversionService()

	_, err := svc.ConvertToCourse(context.Background(), 42, "op")
	if !errors.Is(err, ErrRoadshowNotFound) {
		t.Errorf("期望 ErrRoadshowNotFound，实际: %v", err)
	}

	e := seedEvent(rs, "A", "2026-03-01 10:00", 60)
	cs.err = errors.New("insert failed")
	id, err := svc.ConvertToCourse(context.Background(), e.ID, "op")
	if !errors.Is(err, ErrCourseCreateFailed) || id != 0 {
		t.Errorf("期望 ErrCourseCreateFailed 且 id=0，实际 id=%d err=%v", id, err)
	}
}
