package service

import (
	"encoding/json"
	"time"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/model"
	"owlfi/backend/internal/roadshow"
)

// ── 视图模型构建（运营端与公众端共用同一套推导） ──

// buildViews 为一组路演生成视图，HasConflict 在这组路演内两两比较得出
func buildViews(events []*model.RoadshowEvent, now time.Time) []dto.RoadshowView {
	flags := roadshow.FlagConflicts(events)
	views := make([]dto.RoadshowView, 0, len(events))
	for i, e := range events {
		views = append(views, toRoadshowView(e, now, flags[i]))
	}
	return views
}

func toRoadshowView(e *model.RoadshowEvent, now time.Time, hasConflict bool) dto.RoadshowView {
	w := e.Window()
	v := dto.RoadshowView{
		ID:                      e.ID,
		Title:                   e.Title,
		ComputedStatus:          string(roadshow.Resolve(w, e.HasReplay(), now)),
		ManualStatus:            e.ManualStatus,
		Schedulable:             w.Valid,
		StartTime:               e.StartTime,
		DurationMinutes:         e.DurationMinutes,
		HasConflict:             hasConflict,
		ReservationEnabled:      e.ReservationEnabled,
		ReservationDisplayCount: e.ReservationDisplayCount(),
		Materials:               toMaterialViews(e),
		ExternalURL:             e.ExternalURL,
		ReplayURL:               e.ReplayURL,
		CoverURL:                e.CoverURL,
		Speaker:                 e.Speaker,
		Summary:                 e.Summary,
	}
	if w.Valid {
		v.Date = roadshow.FormatDate(w.Start)
		v.Time = roadshow.FormatClock(w.Start)
		v.EndTime = roadshow.FormatTime(w.End())
	}
	if len(e.H5Config) > 0 && string(e.H5Config) != "null" {
		v.H5Config = json.RawMessage(e.H5Config)
	}
	return v
}

// toMaterialViews 历史数据中无法解析的资料列表按空列表展示
func toMaterialViews(e *model.RoadshowEvent) []dto.MaterialView {
	list, err := e.MaterialList()
	if err != nil {
		return []dto.MaterialView{}
	}
	out := make([]dto.MaterialView, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MaterialView{
			Kind: string(m.Kind),
			Name: m.Name,
			Code: m.Code,
			URL:  m.URL,
		})
	}
	return out
}

func toConflictBrief(e *model.RoadshowEvent) dto.ConflictBrief {
	return dto.ConflictBrief{
		ID:              e.ID,
		Title:           e.Title,
		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes,
	}
}

// eventPtrs 把查询结果转成指针切片，便于参与泛型聚合
func eventPtrs(events []model.RoadshowEvent) []*model.RoadshowEvent {
	out := make([]*model.RoadshowEvent, len(events))
	for i := range events {
		out[i] = &events[i]
	}
	return out
}
