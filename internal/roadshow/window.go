package roadshow

import "time"

// Window 一场路演的时间窗口：[Start, Start+Duration]
//
// Valid=false 表示开始时间无法解析，此时 Start 无意义。
type Window struct {
	Start           time.Time
	DurationMinutes int
	Valid           bool
}

// MaxDurationMinutes 单场时长上限（一周）；超出部分按上限计算，
// 保证 End 不会因 time.Duration 溢出而早于 Start
const MaxDurationMinutes = 7 * 24 * 60

// NewWindow 由开始时间文本与时长构造时间窗口，时长截断到 [0, MaxDurationMinutes]
func NewWindow(startTime string, durationMinutes int) Window {
	start, ok := ParseTime(startTime)
	durationMinutes = ClampDuration(durationMinutes)
	return Window{Start: start, DurationMinutes: durationMinutes, Valid: ok}
}

// ClampDuration 把时长截断到 [0, MaxDurationMinutes]
func ClampDuration(minutes int) int {
	switch {
	case minutes < 0:
		return 0
	case minutes > MaxDurationMinutes:
		return MaxDurationMinutes
	}
	return minutes
}

// End 结束时刻 = Start + DurationMinutes
func (w Window) End() time.Time {
	return w.Start.Add(time.Duration(w.DurationMinutes) * time.Minute)
}

// Date 日期部分
func (w Window) Date() time.Time {
	return DateOf(w.Start)
}

// Scheduled 能提供时间窗口的实体（日历聚合与冲突标记使用）
type Scheduled interface {
	Window() Window
}
