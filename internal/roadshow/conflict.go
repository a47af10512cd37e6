package roadshow

// Conflicts 判断两个时间窗口是否冲突。
//
// 仅同一天内比较（跨午夜不建模）；区间严格重叠才算冲突，
// 一场的结束时刻恰好等于另一场的开始时刻不算冲突。
// 任一开始时间无法解析时无法断言冲突，返回 false。
func Conflicts(a, b Window) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	if !a.Date().Equal(b.Date()) {
		return false
	}
	return a.Start.Before(b.End()) && b.Start.Before(a.End())
}

// FlagConflicts 为列表中每一项计算“是否与其他任意一项冲突”。
//
// 先按日期分组，再在每天的小列表内两两比较；返回值与 items 下标一一对应。
func FlagConflicts[T Scheduled](items []T) []bool {
	flags := make([]bool, len(items))

	byDate := make(map[string][]int)
	windows := make([]Window, len(items))
	for i, it := range items {
		w := it.Window()
		windows[i] = w
		if !w.Valid {
			continue
		}
		key := FormatDate(w.Start)
		byDate[key] = append(byDate[key], i)
	}

	for _, idx := range byDate {
		for x := 0; x < len(idx); x++ {
			for y := x + 1; y < len(idx); y++ {
				if Conflicts(windows[idx[x]], windows[idx[y]]) {
					flags[idx[x]] = true
					flags[idx[y]] = true
				}
			}
		}
	}
	return flags
}

// AnyConflict 列表中是否存在任意一对冲突
func AnyConflict(windows []Window) bool {
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if Conflicts(windows[i], windows[j]) {
				return true
			}
		}
	}
	return false
}
