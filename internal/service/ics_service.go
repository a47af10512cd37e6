package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
	apperrors "owlfi/backend/pkg/errors"
)

// ICSService 日历订阅导出与 ICS 导入
type ICSService interface {
	// ExportMonth 某月路演的 iCalendar 订阅内容
	ExportMonth(ctx context.Context, year, month int) ([]byte, string, error)
	// Import 从上传内容导入，每个有效 VEVENT 生成一场路演
	Import(ctx context.Context, r io.Reader, callerID string) (*dto.ImportICSResponse, error)
	// ImportURL 从订阅链接导入（支持 webcal://）
	ImportURL(ctx context.Context, rawURL string, callerID string) (*dto.ImportICSResponse, error)
}

type icsService struct {
	repo            *repository.Repository
	loc             *time.Location
	clock           Clock
	defaultDuration int
	maxBytes        int64
	logger          *zap.Logger
}

// NewICSService 创建 ICSService 实例
func NewICSService(repo *repository.Repository, loc *time.Location, clock Clock, defaultDuration int, maxBytes int64, logger *zap.Logger) ICSService {
	return &icsService{
		repo:            repo,
		loc:             loc,
		clock:           clock,
		defaultDuration: defaultDuration,
		maxBytes:        maxBytes,
		logger:          logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportMonth — 生成月度订阅
// ═══════════════════════════════════════════════════════════
//
// 开始时间无法解析的路演不写入；DTSTART/DTEND 按配置时区折算为 UTC 输出。

func (s *icsService) ExportMonth(ctx context.Context, year, month int) ([]byte, string, error) {
	if !roadshow.ValidMonth(month) {
		return nil, "", apperrors.NewValidation("month", "月份应在 1-12 之间")
	}

	events, err := loadMonth(ctx, s.repo, year, month)
	if err != nil {
		s.logger.Error("查询月度路演失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, "", storeErr(err)
	}

	cal := ics.NewCalendarFor("owlfi")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("路演日历 %d-%02d", year, month))
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.instant(s.clock())
	for _, e := range events {
		w := e.Window()
		if !w.Valid {
			continue
		}
		evt := cal.AddEvent(fmt.Sprintf("roadshow-%d@owlfi", e.ID))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(s.instant(w.Start))
		evt.SetEndAt(s.instant(w.End()))
		evt.SetSummary(e.Title)
		if desc := eventDescription(e); desc != "" {
			evt.SetDescription(desc)
		}
		if link := eventLink(e); link != "" {
			evt.SetURL(link)
		}
	}

	filename := fmt.Sprintf("roadshow_%d-%02d.ics", year, month)
	return []byte(cal.Serialize()), filename, nil
}

// ═══════════════════════════════════════════════════════════
// Import — 导入 ICS
// ═══════════════════════════════════════════════════════════

func (s *icsService) Import(ctx context.Context, r io.Reader, callerID string) (*dto.ImportICSResponse, error) {
	data, err := readICS(r, s.maxBytes)
	if err != nil {
		return nil, err
	}

	drafts, skipped, err := ParseICS(bytes.NewReader(data), s.loc, s.defaultDuration)
	if err != nil {
		s.logger.Warn("解析 ICS 失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportICSResponse{SkippedCount: skipped, Events: []dto.RoadshowView{}}
	events := make([]*model.RoadshowEvent, 0, len(drafts))
	for _, d := range drafts {
		e := &model.RoadshowEvent{
			Title:           d.Title,
			StartTime:       d.StartTime,
			DurationMinutes: d.DurationMinutes,
			ManualStatus:    string(roadshow.StatusWarmingUp),
			ExternalURL:     d.ExternalURL,
			Summary:         d.Summary,
		}
		if _, err := normalizeTitle(e.Title); err != nil {
			resp.SkippedCount++
			continue
		}
		if err := e.SetMaterials(nil); err != nil {
			return nil, err
		}
		e.CreatedBy = &callerID
		e.UpdatedBy = &callerID
		events = append(events, e)
	}

	// 整批在一个事务中写入，部分失败不留半截数据
	if err := s.repo.Roadshow.CreateBatch(ctx, events); err != nil {
		s.logger.Error("导入路演失败", zap.Int("batch", len(events)), zap.Error(err))
		return nil, storeErr(err)
	}

	now := s.clock()
	for _, e := range events {
		resp.Events = append(resp.Events, toRoadshowView(e, now, false))
	}
	resp.ImportedCount = len(events)

	s.logger.Info("ICS 导入完成",
		zap.Int("imported", resp.ImportedCount), zap.Int("skipped", resp.SkippedCount))
	return resp, nil
}

func (s *icsService) ImportURL(ctx context.Context, rawURL string, callerID string) (*dto.ImportICSResponse, error) {
	body, err := FetchICSContent(ctx, rawURL, s.maxBytes)
	if err != nil {
		s.logger.Warn("获取 ICS 失败", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	defer body.Close()

	return s.Import(ctx, body, callerID)
}

// ── 内部辅助方法 ──

// instant 把墙上时间放回配置时区，得到真实时刻
func (s *icsService) instant(wall time.Time) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, s.loc)
}

func eventDescription(e *model.RoadshowEvent) string {
	var parts []string
	if e.Speaker != "" {
		parts = append(parts, "主讲："+e.Speaker)
	}
	if e.Summary != "" {
		parts = append(parts, e.Summary)
	}
	return strings.Join(parts, "\n")
}

// eventLink 优先外部直播链接，其次回放链接
func eventLink(e *model.RoadshowEvent) string {
	if e.ExternalURL != "" {
		return e.ExternalURL
	}
	return e.ReplayURL
}
