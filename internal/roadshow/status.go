package roadshow

import "time"

// Status 路演展示状态
type Status string

const (
	StatusWarmingUp Status = "warming_up" // 预热中
	StatusLive      Status = "live"       // 直播中
	StatusReplay    Status = "replay"     // 可回放
	StatusEnded     Status = "ended"      // 已结束
)

// ParseStatus 校验运营手填状态标签是否属于封闭集合
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusWarmingUp, StatusLive, StatusReplay, StatusEnded:
		return st, true
	}
	return "", false
}

// Resolve 根据时间窗口、是否有回放以及调用方传入的 now 计算展示状态。
//
// 规则按顺序匹配：
//  1. 开始时间无法解析 → warming_up
//  2. now < start → warming_up
//  3. now <= end → live（两端闭区间，时长为 0 时仅 now == start 为直播中）
//  4. now > end → 有回放为 replay，否则 ended
//
// 纯函数：不缓存、不落库，每次渲染都重新计算。
func Resolve(w Window, hasReplay bool, now time.Time) Status {
	if !w.Valid {
		return StatusWarmingUp
	}
	if now.Before(w.Start) {
		return StatusWarmingUp
	}
	if !now.After(w.End()) {
		return StatusLive
	}
	if hasReplay {
		return StatusReplay
	}
	return StatusEnded
}

// Ended 窗口结束时刻严格早于 now（往期路演判定）。无法解析的窗口永不视为结束。
func Ended(w Window, now time.Time) bool {
	return w.Valid && w.End().Before(now)
}
