package model

import (
	"testing"

	"gorm.io/datatypes"

	"owlfi/backend/internal/roadshow"
)

func TestRoadshowEvent_ReservationDisplayCount(t *testing.T) {
	e := &RoadshowEvent{ReservationBaseCount: 500, ReservationRealCount: 37}
	if got := e.ReservationDisplayCount(); got != 0 {
		t.Errorf("未开启预约时期望 0，实际=%d", got)
	}
	e.ReservationEnabled = true
	if got := e.ReservationDisplayCount(); got != 537 {
		t.Errorf("期望 537，实际=%d", got)
	}
}

func TestRoadshowEvent_HasReplay(t *testing.T) {
	if (&RoadshowEvent{ReplayURL: "   "}).HasReplay() {
		t.Error("空白回放链接不应视为有回放")
	}
	if !(&RoadshowEvent{ReplayURL: "https://v.qq.com/x/page/a0012abcd3e.html"}).HasReplay() {
		t.Error("期望有回放")
	}
}

func TestRoadshowEvent_ConflictsWith_NeverSelf(t *testing.T) {
	a := &RoadshowEvent{ID: 1, StartTime: "2026-03-01 10:00", DurationMinutes: 60}
	if a.ConflictsWith(a) {
		t.Error("同一场不应与自身冲突")
	}
	copyA := *a
	if a.ConflictsWith(&copyA) {
		t.Error("同 ID 不应视为冲突")
	}
	b := &RoadshowEvent{ID: 2, StartTime: "2026-03-01 10:30", DurationMinutes: 60}
	if !a.ConflictsWith(b) || !b.ConflictsWith(a) {
		t.Error("期望 A 与 B 互相冲突")
	}
}

func TestRoadshowEvent_ConflictsWith_Nil(t *testing.T) {
	a := &RoadshowEvent{ID: 1, StartTime: "2026-03-01 10:00", DurationMinutes: 60}
	if a.ConflictsWith(nil) {
		t.Error("与 nil 比较应返回 false")
	}
	var none *RoadshowEvent
	if none.ConflictsWith(a) {
		t.Error("nil 接收者应返回 false")
	}
}

func TestRoadshowEvent_Materials(t *testing.T) {
	e := &RoadshowEvent{}
	list, err := e.MaterialList()
	if err != nil || len(list) != 0 {
		t.Fatalf("空资料期望空列表，实际=%v err=%v", list, err)
	}

	err = e.SetMaterials([]roadshow.Material{
		{Kind: "fund", Name: "中证500", Code: "510500"},
		{Kind: "video", Name: "策略会纪要"},
		{Kind: "fund", Name: "中证500", Code: "510500"},
	})
	if err != nil {
		t.Fatalf("SetMaterials 失败: %v", err)
	}

	list, err = e.MaterialList()
	if err != nil {
		t.Fatalf("MaterialList 失败: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("期望保留 3 条（含重复），实际=%d", len(list))
	}
	if list[1].Kind != roadshow.MaterialReport {
		t.Errorf("未知类型期望归为 report，实际=%s", list[1].Kind)
	}

	e.Materials = datatypes.JSON(`{"broken":`)
	if _, err := e.MaterialList(); err == nil {
		t.Error("损坏的资料 JSON 期望返回错误")
	}
}
