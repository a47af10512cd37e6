package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"owlfi/backend/internal/roadshow"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为路演草稿。
//
//   - SUMMARY → 标题
//   - DTSTART 折算到配置时区后取墙上时间 → 开始时间
//   - DTEND − DTSTART（缺省时读 DURATION）→ 时长（分钟）
//   - URL → 外部链接
//   - 全天事件、缺少标题或时间无法解析的 VEVENT 跳过并计数
//   - 不展开 RRULE，只取首次发生
// ─────────────────────────────────────────────────────────────

const icsFetchTimeout = 30 * time.Second

var (
	ErrICSInvalid     = errors.New("ICS 内容格式无效")
	ErrICSTooLarge    = errors.New("ICS 内容超过大小限制")
	ErrICSFetchFailed = errors.New("获取 ICS 失败")
)

// icsDraft ICS 解析中间结构
type icsDraft struct {
	UID             string
	Title           string
	StartTime       string // YYYY-MM-DD HH:MM
	DurationMinutes int
	ExternalURL     string
	Summary         string
}

// FetchICSContent 从 URL 获取 ICS 内容，webcal:// 按 https:// 处理
func FetchICSContent(ctx context.Context, rawURL string, maxBytes int64) (io.ReadCloser, error) {
	u := strings.TrimSpace(rawURL)
	switch {
	case strings.HasPrefix(u, "webcal://"):
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"):
	default:
		return nil, fmt.Errorf("%w: 不支持的链接协议", ErrICSFetchFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrICSFetchFailed, err)
	}
	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrICSFetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d", ErrICSFetchFailed, resp.StatusCode)
	}
	// 多读 1 字节用于判断是否超限
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, maxBytes+1),
		Closer: resp.Body,
	}, nil
}

// readICS 读取全部内容，超过 maxBytes 返回 ErrICSTooLarge
func readICS(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrICSInvalid, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrICSTooLarge
	}
	return data, nil
}

// ParseICS 解析 ICS 内容，返回可导入的草稿以及被跳过的 VEVENT 数量
func ParseICS(reader io.Reader, loc *time.Location, defaultDuration int) ([]icsDraft, int, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrICSInvalid, err)
	}

	var drafts []icsDraft
	skipped := 0
	for _, evt := range cal.Events() {
		d, ok := parseVEvent(evt, loc, defaultDuration)
		if !ok {
			skipped++
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, skipped, nil
}

func parseVEvent(evt *ics.VEvent, loc *time.Location, defaultDuration int) (icsDraft, bool) {
	title := strings.TrimSpace(propValue(evt, ics.ComponentPropertySummary))
	if title == "" {
		return icsDraft{}, false
	}
	if isAllDay(evt, ics.ComponentPropertyDtStart) {
		return icsDraft{}, false
	}

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return icsDraft{}, false
	}

	dur := defaultDuration
	if end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
		dur = int(end.Sub(start) / time.Minute)
	} else if d, ok := parseICSDuration(propValue(evt, ics.ComponentPropertyDuration)); ok {
		dur = int(d / time.Minute)
	}
	if dur < 0 {
		return icsDraft{}, false
	}
	// 跨越多日的长事件按单场时长上限截断
	dur = roadshow.ClampDuration(dur)

	return icsDraft{
		UID:             evt.Id(),
		Title:           title,
		StartTime:       roadshow.FormatTime(roadshow.WallClock(start)),
		DurationMinutes: dur,
		ExternalURL:     strings.TrimSpace(propValue(evt, ics.ComponentPropertyUrl)),
		Summary:         strings.TrimSpace(propValue(evt, ics.ComponentPropertyDescription)),
	}, true
}

func propValue(evt *ics.VEvent, name ics.ComponentProperty) string {
	if p := evt.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// isAllDay VALUE=DATE 或仅含日期的取值视为全天事件
func isAllDay(evt *ics.VEvent, name ics.ComponentProperty) bool {
	p := evt.GetProperty(name)
	if p == nil {
		return false
	}
	for k, v := range p.ICalParameters {
		if strings.EqualFold(k, "VALUE") && len(v) > 0 && strings.EqualFold(v[0], "DATE") {
			return true
		}
	}
	return len(p.Value) == len("20060102")
}

// parseICSDateTime 解析 ICS 日期时间，结果折算到 loc
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

var icsDurationRe = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// icsDurationCap 单个 DURATION 分量的上限，五个分量相加也不会溢出 int64
const icsDurationCap = 10 * 365 * 24 * time.Hour

// parseICSDuration 解析 RFC 5545 DURATION，如 PT1H30M、P1D
func parseICSDuration(val string) (time.Duration, bool) {
	val = strings.TrimSpace(val)
	m := icsDurationRe.FindStringSubmatch(val)
	if m == nil || val == "P" || strings.HasSuffix(val, "T") {
		return 0, false
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil || time.Duration(n) > icsDurationCap/unit {
			return 0, false
		}
		d += time.Duration(n) * unit
	}
	if m[1] == "-" {
		d = -d
	}
	return d, true
}
