package dto

// ── 月历 DTO ──

// CalendarRequest 月历查询参数（月份 1 起始）
type CalendarRequest struct {
	Year  int    `form:"year"  binding:"required,min=1970,max=9999"`
	Month int    `form:"month" binding:"required,min=1,max=12"`
	Sort  string `form:"sort"  binding:"omitempty,oneof=insertion chronological"`
}

// NavigateMonthRequest 月份翻页参数
type NavigateMonthRequest struct {
	Year  int `form:"year"  binding:"required,min=1970,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
	Delta int `form:"delta" binding:"min=-1200,max=1200"`
}

// MonthRef 年月
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CalendarView 月历视图模型
type CalendarView struct {
	Year             int                    `json:"year"`
	Month            int                    `json:"month"`
	LeadingBlankDays int                    `json:"leading_blank_days"`
	DaysInMonth      int                    `json:"days_in_month"`
	EventsByDay      map[int][]RoadshowView `json:"events_by_day"`
	ConflictByDay    map[int]bool           `json:"conflict_by_day"`
	Prev             MonthRef               `json:"prev"`
	Next             MonthRef               `json:"next"`
	Degraded         bool                   `json:"degraded"`
}

// ImportICSRequest ICS 导入（URL 方式）
type ImportICSRequest struct {
	URL string `json:"url" binding:"required"`
}

// ImportICSResponse ICS 导入结果
type ImportICSResponse struct {
	ImportedCount int            `json:"imported_count"`
	SkippedCount  int            `json:"skipped_count"`
	Events        []RoadshowView `json:"events"`
}

// MonthQuery 导出与订阅使用的年月参数
type MonthQuery struct {
	Year  int `form:"year"  binding:"required,min=1970,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
