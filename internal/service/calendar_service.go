package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
	apperrors "owlfi/backend/pkg/errors"
)

// CalendarService 月历业务接口
type CalendarService interface {
	// Month 指定年月的月历；存储失败时返回结构完整但无路演的降级视图以及错误
	Month(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarView, error)
	Navigate(ctx context.Context, req *dto.NavigateMonthRequest) (*dto.MonthRef, error)
}

type calendarService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, clock Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Month ──────────────────────

func (s *calendarService) Month(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarView, error) {
	if !roadshow.ValidMonth(req.Month) {
		return nil, apperrors.NewValidation("month", "月份应在 1-12 之间")
	}
	chronological := req.Sort == "chronological"

	events, err := loadMonth(ctx, s.repo, req.Year, req.Month)
	if err != nil {
		s.logger.Error("查询月度路演失败",
			zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Error(err))
		view := toCalendarView(roadshow.BuildMonth[*model.RoadshowEvent](nil, req.Year, req.Month, chronological), s.clock())
		view.Degraded = true
		return view, storeErr(err)
	}

	m := roadshow.BuildMonth(events, req.Year, req.Month, chronological)
	return toCalendarView(m, s.clock()), nil
}

// ────────────────────── Navigate ──────────────────────

func (s *calendarService) Navigate(_ context.Context, req *dto.NavigateMonthRequest) (*dto.MonthRef, error) {
	if !roadshow.ValidMonth(req.Month) {
		return nil, apperrors.NewValidation("month", "月份应在 1-12 之间")
	}
	y, m := roadshow.ShiftMonth(req.Year, req.Month, req.Delta)
	return &dto.MonthRef{Year: y, Month: m}, nil
}

// ── 内部辅助方法 ──

// loadMonth 查询某月的全部路演（按开始日期过滤，保持插入顺序）
func loadMonth(ctx context.Context, repo *repository.Repository, year, month int) ([]*model.RoadshowEvent, error) {
	first, next := roadshow.MonthRange(year, month)
	events, err := repo.Roadshow.ListBetween(ctx, roadshow.FormatDate(first), roadshow.FormatDate(next))
	if err != nil {
		return nil, err
	}
	return eventPtrs(events), nil
}

// toCalendarView 每场路演的 HasConflict 只在同一天的桶内比较
func toCalendarView(m roadshow.Month[*model.RoadshowEvent], now time.Time) *dto.CalendarView {
	prevY, prevM := roadshow.ShiftMonth(m.Year, m.Month, -1)
	nextY, nextM := roadshow.ShiftMonth(m.Year, m.Month, 1)

	view := &dto.CalendarView{
		Year:             m.Year,
		Month:            m.Month,
		LeadingBlankDays: m.LeadingBlankDays,
		DaysInMonth:      m.DaysInMonth,
		EventsByDay:      make(map[int][]dto.RoadshowView, m.DaysInMonth),
		ConflictByDay:    make(map[int]bool, m.DaysInMonth),
		Prev:             dto.MonthRef{Year: prevY, Month: prevM},
		Next:             dto.MonthRef{Year: nextY, Month: nextM},
	}
	for d := 1; d <= m.DaysInMonth; d++ {
		view.EventsByDay[d] = buildViews(m.EventsByDay[d], now)
		view.ConflictByDay[d] = m.ConflictByDay[d]
	}
	return view
}
