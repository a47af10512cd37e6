package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"owlfi/backend/internal/roadshow"
)

// ── 测试辅助 ──

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skipf("时区数据不可用: %v", err)
	}
	return loc
}

func setupTestICSService(t *testing.T, maxBytes int64) (ICSService, *mockRoadshowRepo) {
	repo, rs, _ := newTestRepository()
	svc := NewICSService(repo, shanghai(t), FixedClock(wallTime("2026-03-01 09:00")), 60, maxBytes, testLogger())
	return svc, rs
}

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:utc@test\r\n" +
	"SUMMARY:UTC 场\r\n" +
	"DTSTART:20260301T020000Z\r\n" +
	"DTEND:20260301T033000Z\r\n" +
	"URL:https://live.example.com/1\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:tz@test\r\n" +
	"SUMMARY:东京时区场\r\n" +
	"DTSTART;TZID=Asia/Tokyo:20260302T110000\r\n" +
	"DURATION:PT45M\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:floating@test\r\n" +
	"SUMMARY:本地时间场\r\n" +
	"DTSTART:20260303T150000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:allday@test\r\n" +
	"SUMMARY:全天\r\n" +
	"DTSTART;VALUE=DATE:20260304\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:notitle@test\r\n" +
	"DTSTART:20260305T100000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:reversed@test\r\n" +
	"SUMMARY:结束早于开始\r\n" +
	"DTSTART:20260306T100000\r\n" +
	"DTEND:20260306T090000\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// ── Import 测试 ──

func TestICSService_Import(t *testing.T) {
	svc, rs := setupTestICSService(t, 1<<20)

	result, err := svc.Import(context.Background(), strings.NewReader(sampleICS), "op-001")
	if err != nil {
		t.Fatalf("Import 应成功: %v", err)
	}
	if result.ImportedCount != 3 || result.SkippedCount != 3 {
		t.Fatalf("期望导入 3 跳过 3，实际 %d/%d", result.ImportedCount, result.SkippedCount)
	}

	want := []struct {
		title, start string
		dur          int
		url          string
	}{
		{"UTC 场", "2026-03-01 10:00", 90, "https://live.example.com/1"},
		{"东京时区场", "2026-03-02 10:00", 45, ""},
		{"本地时间场", "2026-03-03 15:00", 60, ""},
	}
	for i, w := range want {
		got := result.Events[i]
		if got.Title != w.title || got.StartTime != w.start || got.DurationMinutes != w.dur || got.ExternalURL != w.url {
			t.Errorf("第 %d 场不符: %+v", i, got)
		}
	}
	if len(rs.events) != 3 {
		t.Errorf("期望写入 3 条，实际 %d", len(rs.events))
	}
	if result.Events[0].ComputedStatus != "warming_up" {
		t.Errorf("期望 warming_up，实际 %s", result.Events[0].ComputedStatus)
	}
}

func TestICSService_Import_Invalid(t *testing.T) {
	svc, rs := setupTestICSService(t, 64)

	_, err := svc.Import(context.Background(), strings.NewReader(sampleICS), "op")
	if !errors.Is(err, ErrICSTooLarge) {
		t.Errorf("期望 ErrICSTooLarge，实际: %v", err)
	}
	if rs.calls != 0 {
		t.Error("超限时不应写入")
	}
}

func TestICSService_Import_BatchFailureKeepsNothing(t *testing.T) {
	svc, rs := setupTestICSService(t, 1<<20)
	rs.batchFailAt = 1

	_, err := svc.Import(context.Background(), strings.NewReader(sampleICS), "op")
	if !errors.Is(err, ErrRoadshowStore) {
		t.Fatalf("期望 ErrRoadshowStore，实际: %v", err)
	}
	if len(rs.events) != 0 {
		t.Errorf("中途失败时不应保留任何记录，实际 %d 条", len(rs.events))
	}
	if rs.calls != 1 {
		t.Errorf("期望整批只写一次，实际 %d 次", rs.calls)
	}
}

func TestICSService_Import_ClampsLongDuration(t *testing.T) {
	svc, rs := setupTestICSService(t, 1<<20)
	data := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:long@test\r\n" +
		"SUMMARY:长会期\r\n" +
		"DTSTART:20260301T100000\r\n" +
		"DURATION:P30D\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	result, err := svc.Import(context.Background(), strings.NewReader(data), "op")
	if err != nil {
		t.Fatalf("Import 应成功: %v", err)
	}
	if result.ImportedCount != 1 {
		t.Fatalf("期望导入 1，实际 %d", result.ImportedCount)
	}
	if got := rs.events[1].DurationMinutes; got != roadshow.MaxDurationMinutes {
		t.Errorf("时长应截断为 %d，实际 %d", roadshow.MaxDurationMinutes, got)
	}
}

func TestICSService_ImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed.ics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(sampleICS))
	}))
	defer srv.Close()

	svc, _ := setupTestICSService(t, 1<<20)

	result, err := svc.ImportURL(context.Background(), srv.URL+"/feed.ics", "op")
	if err != nil {
		t.Fatalf("ImportURL 应成功: %v", err)
	}
	if result.ImportedCount != 3 {
		t.Errorf("期望导入 3，实际 %d", result.ImportedCount)
	}

	_, err = svc.ImportURL(context.Background(), srv.URL+"/missing.ics", "op")
	if !errors.Is(err, ErrICSFetchFailed) {
		t.Errorf("HTTP 404 期望 ErrICSFetchFailed，实际: %v", err)
	}

	_, err = svc.ImportURL(context.Background(), "ftp://example.com/a.ics", "op")
	if !errors.Is(err, ErrICSFetchFailed) {
		t.Errorf("不支持的协议期望 ErrICSFetchFailed，实际: %v", err)
	}
}

// ── ExportMonth 测试 ──

func TestICSService_ExportMonth(t *testing.T) {
	svc, rs := setupTestICSService(t, 1<<20)
	e := seedEvent(rs, "新能源路演", "2026-03-01 10:00", 90)
	e.Speaker = "李经理"
	e.ReplayURL = "https://replay.example.com/1"
	seedEvent(rs, "坏数据", "2026-03-xx", 60)
	seedEvent(rs, "下月", "2026-04-01 10:00", 60)

	data, filename, err := svc.ExportMonth(context.Background(), 2026, 3)
	if err != nil {
		t.Fatalf("ExportMonth 应成功: %v", err)
	}
	if filename != "roadshow_2026-03.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("输出应为合法 iCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("期望 1 个 VEVENT，实际 %d", len(events))
	}
	evt := events[0]
	if evt.Id() != "roadshow-1@owlfi" {
		t.Errorf("UID 不符: %s", evt.Id())
	}
	if got := evt.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20260301T020000Z" {
		t.Errorf("DTSTART 应折算为 UTC，实际 %s", got)
	}
	if got := evt.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20260301T033000Z" {
		t.Errorf("DTEND 应为开始 + 时长，实际 %s", got)
	}
	if got := evt.GetProperty(ics.ComponentPropertyUrl).Value; got != "https://replay.example.com/1" {
		t.Errorf("无外部链接时应使用回放链接，实际 %s", got)
	}
}

// ── 解析辅助测试 ──

func TestParseICSDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"PT1H30M", 90 * time.Minute, true},
		{"PT45M", 45 * time.Minute, true},
		{"P1D", 24 * time.Hour, true},
		{"P1W", 7 * 24 * time.Hour, true},
		{"-PT15M", -15 * time.Minute, true},
		{"P", 0, false},
		{"PT", 0, false},
		{"1H", 0, false},
		{"P99999999999W", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseICSDuration(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: 期望 (%v,%v)，实际 (%v,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}
