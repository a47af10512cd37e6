package roadshow

import (
	"sort"
	"time"
)

// ── 月历聚合 ──────────────────────────────────────────────────
//
// 月份对外一律 1 起始（1 = 一月）。每个月都会生成 1..DaysInMonth 的完整日桶，
// 即使某天没有路演也保留空桶；同日冲突标记对桶内所有两两组合求“任一冲突”。
// ─────────────────────────────────────────────────────────────

// Month 月历聚合结果
type Month[T Scheduled] struct {
	Year             int
	Month            int
	LeadingBlankDays int // 当月 1 号的星期偏移（周日 = 0）
	DaysInMonth      int
	EventsByDay      map[int][]T
	ConflictByDay    map[int]bool
}

// ValidMonth 月份是否在 1..12
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// DaysIn 指定年月的天数（公历，含闰年二月）
func DaysIn(year, month int) int {
	// 下月第 0 天即本月最后一天
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday 指定年月 1 号是星期几（周日 = 0）
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// ShiftMonth 月份前后翻页，跨年时精确进退位
func ShiftMonth(year, month, delta int) (int, int) {
	idx := year*12 + (month - 1) + delta
	y := idx / 12
	m := idx%12 + 1
	if idx%12 < 0 {
		// 公元前的年份不会出现，这里仅保证取模结果为正
		y--
		m += 12
	}
	return y, m
}

// MonthRange 指定年月的起止日期（含首日，不含次月首日）
func MonthRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// BuildMonth 把 items 按日期分入指定年月的日桶。
//
// 桶内默认保持 items 的原始顺序；chronological=true 时按开始时间升序稳定排序。
// 开始时间无法解析或不在该月的条目不入桶。
func BuildMonth[T Scheduled](items []T, year, month int, chronological bool) Month[T] {
	days := DaysIn(year, month)
	m := Month[T]{
		Year:             year,
		Month:            month,
		LeadingBlankDays: FirstWeekday(year, month),
		DaysInMonth:      days,
		EventsByDay:      make(map[int][]T, days),
		ConflictByDay:    make(map[int]bool, days),
	}
	for d := 1; d <= days; d++ {
		m.EventsByDay[d] = []T{}
		m.ConflictByDay[d] = false
	}

	for _, it := range items {
		w := it.Window()
		if !w.Valid {
			continue
		}
		if w.Start.Year() != year || int(w.Start.Month()) != month {
			continue
		}
		d := w.Start.Day()
		m.EventsByDay[d] = append(m.EventsByDay[d], it)
	}

	for d := 1; d <= days; d++ {
		bucket := m.EventsByDay[d]
		if len(bucket) < 2 {
			continue
		}
		if chronological {
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Window().Start.Before(bucket[j].Window().Start)
			})
		}
		windows := make([]Window, len(bucket))
		for i, it := range bucket {
			windows[i] = it.Window()
		}
		m.ConflictByDay[d] = AnyConflict(windows)
	}

	return m
}
