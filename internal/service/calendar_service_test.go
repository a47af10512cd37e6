package service

import (
	"context"
	"errors"
	"testing"

	"owlfi/backend/internal/dto"
	apperrors "owlfi/backend/pkg/errors"
)

func setupTestCalendarService() (CalendarService, *mockRoadshowRepo) {
	repo, rs, _ := newTestRepository()
	svc := NewCalendarService(repo, FixedClock(wallTime("2026-03-15 12:00")), testLogger())
	return svc, rs
}

// ── Month 测试 ──

func TestCalendarService_Month_Buckets(t *testing.T) {
	svc, rs := setupTestCalendarService()
	seedEvent(rs, "晚场", "2026-03-01 15:00", 60)
	seedEvent(rs, "早场", "2026-03-01 10:00", 60)
	seedEvent(rs, "冲突一", "2026-03-20 10:00", 60)
	seedEvent(rs, "冲突二", "2026-03-20 10:59", 30)
	seedEvent(rs, "下月", "2026-04-01 10:00", 60)
	seedEvent(rs, "上月", "2026-02-28 10:00", 60)

	view, err := svc.Month(context.Background(), &dto.CalendarRequest{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("Month 应成功: %v", err)
	}
	if view.DaysInMonth != 31 || len(view.EventsByDay) != 31 || len(view.ConflictByDay) != 31 {
		t.Fatalf("期望 31 个日桶，实际 %d/%d", len(view.EventsByDay), len(view.ConflictByDay))
	}
	if view.LeadingBlankDays != 0 {
		t.Errorf("2026-03-01 是周日，期望偏移 0，实际 %d", view.LeadingBlankDays)
	}

	day1 := view.EventsByDay[1]
	if len(day1) != 2 || day1[0].Title != "晚场" {
		t.Errorf("默认保持插入顺序: %+v", day1)
	}
	if view.ConflictByDay[1] {
		t.Error("3 月 1 日无冲突")
	}
	if !view.ConflictByDay[20] || !view.EventsByDay[20][0].HasConflict {
		t.Error("3 月 20 日应有冲突")
	}

	total := 0
	for _, list := range view.EventsByDay {
		total += len(list)
	}
	if total != 4 {
		t.Errorf("当月应有 4 场，实际 %d", total)
	}
	if view.Prev != (dto.MonthRef{Year: 2026, Month: 2}) || view.Next != (dto.MonthRef{Year: 2026, Month: 4}) {
		t.Errorf("前后月不符: %+v %+v", view.Prev, view.Next)
	}
}

func TestCalendarService_Month_Chronological(t *testing.T) {
	svc, rs := setupTestCalendarService()
	seedEvent(rs, "晚场", "2026-03-01 15:00", 60)
	seedEvent(rs, "早场", "2026-03-01 10:00", 60)

	view, err := svc.Month(context.Background(), &dto.CalendarRequest{Year: 2026, Month: 3, Sort: "chronological"})
	if err != nil {
		t.Fatalf("Month 应成功: %v", err)
	}
	if view.EventsByDay[1][0].Title != "早场" {
		t.Errorf("期望按开始时间升序，首个为 %s", view.EventsByDay[1][0].Title)
	}
}

func TestCalendarService_Month_LeapFebruary(t *testing.T) {
	svc, _ := setupTestCalendarService()

	view, err := svc.Month(context.Background(), &dto.CalendarRequest{Year: 2028, Month: 2})
	if err != nil {
		t.Fatalf("Month 应成功: %v", err)
	}
	if view.DaysInMonth != 29 || len(view.EventsByDay) != 29 {
		t.Errorf("期望 29 天，实际 %d", view.DaysInMonth)
	}
	// 2028-02-01 是周二
	if view.LeadingBlankDays != 2 {
		t.Errorf("期望偏移 2，实际 %d", view.LeadingBlankDays)
	}
}

func TestCalendarService_Month_DegradedOnStoreFailure(t *testing.T) {
	svc, rs := setupTestCalendarService()
	rs.err = errors.New("store unavailable")

	view, err := svc.Month(context.Background(), &dto.CalendarRequest{Year: 2026, Month: 1})
	if !errors.Is(err, ErrRoadshowStore) {
		t.Errorf("期望 ErrRoadshowStore，实际: %v", err)
	}
	if view == nil || !view.Degraded {
		t.Fatal("期望降级视图")
	}
	if view.DaysInMonth != 31 || len(view.EventsByDay) != 31 {
		t.Error("降级视图仍应结构完整")
	}
	for d, list := range view.EventsByDay {
		if len(list) != 0 || view.ConflictByDay[d] {
			t.Errorf("降级视图第 %d 天应为空", d)
		}
	}
	if view.Prev != (dto.MonthRef{Year: 2025, Month: 12}) {
		t.Errorf("一月的上一月应为上一年十二月: %+v", view.Prev)
	}
}

func TestCalendarService_Month_InvalidMonth(t *testing.T) {
	svc, _ := setupTestCalendarService()

	_, err := svc.Month(context.Background(), &dto.CalendarRequest{Year: 2026, Month: 13})
	if !apperrors.IsValidation(err) {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

// ── Navigate 测试 ──

func TestCalendarService_Navigate(t *testing.T) {
	svc, _ := setupTestCalendarService()

	cases := []struct {
		year, month, delta int
		want               dto.MonthRef
	}{
		{2026, 1, -1, dto.MonthRef{Year: 2025, Month: 12}},
		{2025, 12, 1, dto.MonthRef{Year: 2026, Month: 1}},
		{2026, 6, 0, dto.MonthRef{Year: 2026, Month: 6}},
		{2026, 3, -15, dto.MonthRef{Year: 2024, Month: 12}},
		{2026, 3, 22, dto.MonthRef{Year: 2028, Month: 1}},
	}
	for _, tc := range cases {
		got, err := svc.Navigate(context.Background(), &dto.NavigateMonthRequest{Year: tc.year, Month: tc.month, Delta: tc.delta})
		if err != nil {
			t.Fatalf("Navigate 应成功: %v", err)
		}
		if *got != tc.want {
			t.Errorf("(%d,%d)%+d: 期望 %+v，实际 %+v", tc.year, tc.month, tc.delta, tc.want, *got)
		}
	}
}
