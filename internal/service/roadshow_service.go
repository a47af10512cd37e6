package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
)

// ── 路演模块业务错误 ──

var (
	ErrRoadshowNotFound = errors.New("路演不存在")
	ErrRoadshowStore    = errors.New("路演数据存储不可用")
)

// storeErr 包装存储层错误，调用方可用 errors.Is 区分“不存在”与“存储故障”
func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrRoadshowStore, err)
}

// RoadshowService 路演业务接口
type RoadshowService interface {
	// List 列出全部路演；存储失败时返回降级的空视图以及错误
	List(ctx context.Context) (*dto.RoadshowListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RoadshowView, error)
	Create(ctx context.Context, req *dto.CreateRoadshowRequest, callerID string) (*dto.RoadshowWriteResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoadshowRequest, callerID string) (*dto.RoadshowWriteResponse, error)
	Delete(ctx context.Context, id int64, callerID string) error
	ReplaceMaterials(ctx context.Context, id int64, req *dto.ReplaceMaterialsRequest, callerID string) (*dto.RoadshowView, error)
	CheckConflicts(ctx context.Context, req *dto.CheckConflictsRequest) (*dto.CheckConflictsResponse, error)
	// ListPast 已结束的路演（结束时刻严格早于当前），按开始时间倒序
	ListPast(ctx context.Context) (*dto.RoadshowListResponse, error)
}

type roadshowService struct {
	repo            *repository.Repository
	clock           Clock
	defaultDuration int
	logger          *zap.Logger
}

// NewRoadshowService 创建 RoadshowService 实例
func NewRoadshowService(repo *repository.Repository, clock Clock, defaultDuration int, logger *zap.Logger) RoadshowService {
	return &roadshowService{repo: repo, clock: clock, defaultDuration: defaultDuration, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *roadshowService) List(ctx context.Context) (*dto.RoadshowListResponse, error) {
	events, err := s.repo.Roadshow.List(ctx)
	if err != nil {
		s.logger.Error("列出路演失败", zap.Error(err))
		return &dto.RoadshowListResponse{List: []dto.RoadshowView{}, Degraded: true}, storeErr(err)
	}

	return &dto.RoadshowListResponse{List: buildViews(eventPtrs(events), s.clock())}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roadshowService) GetByID(ctx context.Context, id int64) (*dto.RoadshowView, error) {
	e, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	hasConflict := len(s.sameDayConflicts(ctx, e)) > 0
	v := toRoadshowView(e, s.clock(), hasConflict)
	return &v, nil
}

// ────────────────────── Create ──────────────────────

func (s *roadshowService) Create(ctx context.Context, req *dto.CreateRoadshowRequest, callerID string) (*dto.RoadshowWriteResponse, error) {
	e, err := s.newEvent(req)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = &callerID
	e.UpdatedBy = &callerID

	if err := s.repo.Roadshow.Create(ctx, e); err != nil {
		s.logger.Error("创建路演失败", zap.String("title", e.Title), zap.Error(err))
		return nil, storeErr(err)
	}

	s.logger.Info("路演已创建", zap.Int64("id", e.ID), zap.String("start_time", e.StartTime))
	return s.writeResponse(ctx, e), nil
}

// ────────────────────── Update ──────────────────────

func (s *roadshowService) Update(ctx context.Context, id int64, req *dto.UpdateRoadshowRequest, callerID string) (*dto.RoadshowWriteResponse, error) {
	// 先完成全部校验，校验失败时不触达存储
	apply, err := s.prepareUpdate(req)
	if err != nil {
		return nil, err
	}

	e, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(e)
	e.UpdatedBy = &callerID

	if err := s.repo.Roadshow.Update(ctx, e); err != nil {
		s.logger.Error("更新路演失败", zap.Int64("id", id), zap.Error(err))
		return nil, storeErr(err)
	}

	return s.writeResponse(ctx, e), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roadshowService) Delete(ctx context.Context, id int64, callerID string) error {
	if err := s.repo.Roadshow.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoadshowNotFound
		}
		s.logger.Error("删除路演失败", zap.Int64("id", id), zap.Error(err))
		return storeErr(err)
	}

	s.logger.Info("路演已删除", zap.Int64("id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── ReplaceMaterials ──────────────────────

func (s *roadshowService) ReplaceMaterials(ctx context.Context, id int64, req *dto.ReplaceMaterialsRequest, callerID string) (*dto.RoadshowView, error) {
	materials, err := normalizeMaterials(req.Materials)
	if err != nil {
		return nil, err
	}

	e, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Materials = materials
	e.UpdatedBy = &callerID

	if err := s.repo.Roadshow.Update(ctx, e); err != nil {
		s.logger.Error("更新路演资料失败", zap.Int64("id", id), zap.Error(err))
		return nil, storeErr(err)
	}

	hasConflict := len(s.sameDayConflicts(ctx, e)) > 0
	v := toRoadshowView(e, s.clock(), hasConflict)
	return &v, nil
}

// ────────────────────── CheckConflicts ──────────────────────

func (s *roadshowService) CheckConflicts(ctx context.Context, req *dto.CheckConflictsRequest) (*dto.CheckConflictsResponse, error) {
	start, err := normalizeStartTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	dur, err := normalizeDuration(req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	w := roadshow.NewWindow(start, dur)
	others, err := s.sameDay(ctx, w)
	if err != nil {
		s.logger.Error("查询同日路演失败", zap.String("start_time", start), zap.Error(err))
		return nil, storeErr(err)
	}

	briefs := []dto.ConflictBrief{}
	for _, o := range others {
		if o.ID == req.ExcludeID {
			continue
		}
		if roadshow.Conflicts(w, o.Window()) {
			briefs = append(briefs, toConflictBrief(o))
		}
	}

	return &dto.CheckConflictsResponse{HasConflict: len(briefs) > 0, Conflicts: briefs}, nil
}

// ────────────────────── ListPast ──────────────────────

func (s *roadshowService) ListPast(ctx context.Context) (*dto.RoadshowListResponse, error) {
	events, err := s.repo.Roadshow.List(ctx)
	if err != nil {
		s.logger.Error("列出往期路演失败", zap.Error(err))
		return &dto.RoadshowListResponse{List: []dto.RoadshowView{}, Degraded: true}, storeErr(err)
	}

	now := s.clock()
	all := eventPtrs(events)
	flags := roadshow.FlagConflicts(all)

	type pastItem struct {
		e           *model.RoadshowEvent
		hasConflict bool
	}
	past := make([]pastItem, 0, len(all))
	for i, e := range all {
		if roadshow.Ended(e.Window(), now) {
			past = append(past, pastItem{e: e, hasConflict: flags[i]})
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].e.Window().Start.After(past[j].e.Window().Start)
	})

	views := make([]dto.RoadshowView, 0, len(past))
	for _, p := range past {
		views = append(views, toRoadshowView(p.e, now, p.hasConflict))
	}
	return &dto.RoadshowListResponse{List: views}, nil
}

// ── 内部辅助方法 ──

func (s *roadshowService) getEvent(ctx context.Context, id int64) (*model.RoadshowEvent, error) {
	e, err := s.repo.Roadshow.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoadshowNotFound
		}
		s.logger.Error("查询路演失败", zap.Int64("id", id), zap.Error(err))
		return nil, storeErr(err)
	}
	return e, nil
}

// newEvent 校验创建请求并构造待写入的记录
func (s *roadshowService) newEvent(req *dto.CreateRoadshowRequest) (*model.RoadshowEvent, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	start, err := normalizeStartTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	dur := s.defaultDuration
	if req.DurationMinutes != nil {
		if dur, err = normalizeDuration(*req.DurationMinutes); err != nil {
			return nil, err
		}
	}
	manual, err := normalizeManualStatus(req.ManualStatus)
	if err != nil {
		return nil, err
	}
	base, err := normalizeCount("reservation_base_count", req.ReservationBaseCount)
	if err != nil {
		return nil, err
	}
	realCount, err := normalizeCount("reservation_real_count", req.ReservationRealCount)
	if err != nil {
		return nil, err
	}
	materials, err := normalizeMaterials(req.Materials)
	if err != nil {
		return nil, err
	}
	h5, err := normalizeH5Config(req.H5Config)
	if err != nil {
		return nil, err
	}

	return &model.RoadshowEvent{
		Title:                title,
		StartTime:            start,
		DurationMinutes:      dur,
		ManualStatus:         manual,
		ExternalURL:          strings.TrimSpace(req.ExternalURL),
		ReplayURL:            strings.TrimSpace(req.ReplayURL),
		CoverURL:             strings.TrimSpace(req.CoverURL),
		Speaker:              strings.TrimSpace(req.Speaker),
		Summary:              req.Summary,
		ReservationEnabled:   req.ReservationEnabled,
		ReservationBaseCount: base,
		ReservationRealCount: realCount,
		Materials:            materials,
		H5Config:             h5,
	}, nil
}

// prepareUpdate 校验更新请求，返回把改动应用到记录上的函数
func (s *roadshowService) prepareUpdate(req *dto.UpdateRoadshowRequest) (func(*model.RoadshowEvent), error) {
	var steps []func(*model.RoadshowEvent)

	if req.Title != nil {
		title, err := normalizeTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.Title = title })
	}
	if req.StartTime != nil {
		start, err := normalizeStartTime(*req.StartTime)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.StartTime = start })
	}
	if req.DurationMinutes != nil {
		dur, err := normalizeDuration(*req.DurationMinutes)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.DurationMinutes = dur })
	}
	if req.ManualStatus != nil {
		manual, err := normalizeManualStatus(*req.ManualStatus)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.ManualStatus = manual })
	}
	if req.ReservationBaseCount != nil {
		n, err := normalizeCount("reservation_base_count", *req.ReservationBaseCount)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.ReservationBaseCount = n })
	}
	if req.ReservationRealCount != nil {
		n, err := normalizeCount("reservation_real_count", *req.ReservationRealCount)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.ReservationRealCount = n })
	}
	if req.Materials != nil {
		materials, err := normalizeMaterials(*req.Materials)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.Materials = materials })
	}
	if len(req.H5Config) > 0 {
		h5, err := normalizeH5Config(req.H5Config)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(e *model.RoadshowEvent) { e.H5Config = h5 })
	}

	return func(e *model.RoadshowEvent) {
		if req.ExternalURL != nil {
			e.ExternalURL = strings.TrimSpace(*req.ExternalURL)
		}
		if req.ReplayURL != nil {
			e.ReplayURL = strings.TrimSpace(*req.ReplayURL)
		}
		if req.CoverURL != nil {
			e.CoverURL = strings.TrimSpace(*req.CoverURL)
		}
		if req.Speaker != nil {
			e.Speaker = strings.TrimSpace(*req.Speaker)
		}
		if req.Summary != nil {
			e.Summary = *req.Summary
		}
		if req.ReservationEnabled != nil {
			e.ReservationEnabled = *req.ReservationEnabled
		}
		for _, step := range steps {
			step(e)
		}
	}, nil
}

// sameDay 查询与窗口同一天的全部路演
func (s *roadshowService) sameDay(ctx context.Context, w roadshow.Window) ([]*model.RoadshowEvent, error) {
	if !w.Valid {
		return nil, nil
	}
	from := roadshow.FormatDate(w.Start)
	to := roadshow.FormatDate(w.Date().AddDate(0, 0, 1))
	events, err := s.repo.Roadshow.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return eventPtrs(events), nil
}

// sameDayConflicts 与 e 冲突的同日路演（不含自身）；查询失败时仅记录日志，不影响主流程
func (s *roadshowService) sameDayConflicts(ctx context.Context, e *model.RoadshowEvent) []*model.RoadshowEvent {
	others, err := s.sameDay(ctx, e.Window())
	if err != nil {
		s.logger.Warn("查询同日路演失败，跳过冲突提示", zap.Int64("id", e.ID), zap.Error(err))
		return nil
	}
	var out []*model.RoadshowEvent
	for _, o := range others {
		if e.ConflictsWith(o) {
			out = append(out, o)
		}
	}
	return out
}

// writeResponse 写入成功后的视图；冲突只作为提示返回，从不阻止写入
func (s *roadshowService) writeResponse(ctx context.Context, e *model.RoadshowEvent) *dto.RoadshowWriteResponse {
	conflicts := s.sameDayConflicts(ctx, e)
	briefs := make([]dto.ConflictBrief, 0, len(conflicts))
	for _, c := range conflicts {
		briefs = append(briefs, toConflictBrief(c))
	}
	return &dto.RoadshowWriteResponse{
		Roadshow:  toRoadshowView(e, s.clock(), len(briefs) > 0),
		Conflicts: briefs,
	}
}
