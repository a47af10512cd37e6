package roadshow

import (
	"strings"
	"time"
)

// ── 时间文本解析 ──────────────────────────────────────────────
//
// 路演开始时间以文本形式存储：YYYY-MM-DD HH:MM[:SS]，日期与时间之间
// 允许空格或 T 分隔。所有时间均视为同一隐式本地时区下的墙上时间，
// 引擎内部不做任何时区换算：解析结果统一标记为 UTC，仅作为可比较的值使用。
// ─────────────────────────────────────────────────────────────

const (
	layoutMinute = "2006-01-02 15:04"
	layoutSecond = "2006-01-02 15:04:05"
	layoutDate   = "2006-01-02"
)

// ParseTime 解析开始时间文本。ok=false 表示无法解析，调用方必须走各自的兜底分支，
// 绝不能以“当前时间”代替。
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// 日期部分固定 10 个字符，第 11 个字符为分隔符
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10] + " " + s[11:]
	}

	var layout string
	switch len(s) {
	case len(layoutMinute):
		layout = layoutMinute
	case len(layoutSecond):
		layout = layoutSecond
		if s[16] != ':' {
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}
	// time.Parse 会合并连续空格并接受一位小时，这里先按固定位置卡死形状
	if s[4] != '-' || s[7] != '-' || s[10] != ' ' || s[13] != ':' || !digitsAt(s, 0, 1, 2, 3, 5, 6, 8, 9, 11, 12, 14, 15) {
		return time.Time{}, false
	}
	if layout == layoutSecond && !digitsAt(s, 17, 18) {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func digitsAt(s string, idx ...int) bool {
	for _, i := range idx {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// WallClock 把任意时区的时刻折算为与 ParseTime 相同表示的墙上时间
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// DateOf 取日期部分（按日分桶与同日判断均只看这一部分）
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatTime 输出规范形式 YYYY-MM-DD HH:MM
func FormatTime(t time.Time) string {
	return t.Format(layoutMinute)
}

// FormatDate 输出 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatClock 输出 HH:MM
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
