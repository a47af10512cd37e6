package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"

	"owlfi/backend/internal/dto"
	"owlfi/backend/internal/roadshow"
	apperrors "owlfi/backend/pkg/errors"
)

// ── 写入边界校验 ──
//
// 以下函数只做校验与规整，不访问存储；任一失败即返回 ValidationError。

const maxTitleLen = 200

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", apperrors.NewValidation("title", "标题不能为空")
	}
	if utf8.RuneCountInString(t) > maxTitleLen {
		return "", apperrors.NewValidation("title", "标题过长")
	}
	return t, nil
}

// normalizeStartTime 校验并规整开始时间：T 分隔统一为空格，秒为 0 时省略
func normalizeStartTime(s string) (string, error) {
	t, ok := roadshow.ParseTime(s)
	if !ok {
		return "", apperrors.NewValidation("start_time", "开始时间格式应为 YYYY-MM-DD HH:MM[:SS]")
	}
	if t.Second() != 0 {
		return t.Format("2006-01-02 15:04:05"), nil
	}
	return roadshow.FormatTime(t), nil
}

func normalizeDuration(d int) (int, error) {
	if d < 0 {
		return 0, apperrors.NewValidation("duration_minutes", "时长不能为负数")
	}
	if d > roadshow.MaxDurationMinutes {
		return 0, apperrors.NewValidation("duration_minutes", "时长不能超过一周")
	}
	return d, nil
}

// normalizeManualStatus 运营标注仅作展示用途，空值按 warming_up 处理
func normalizeManualStatus(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return string(roadshow.StatusWarmingUp), nil
	}
	st, ok := roadshow.ParseStatus(s)
	if !ok {
		return "", apperrors.NewValidation("manual_status", "状态取值无效")
	}
	return string(st), nil
}

func normalizeCount(field string, n int) (int, error) {
	if n < 0 {
		return 0, apperrors.NewValidation(field, "人数不能为负数")
	}
	return n, nil
}

// normalizeMaterials 资料按原顺序保存，类型无法识别时归为 report
func normalizeMaterials(in []dto.MaterialInput) (datatypes.JSON, error) {
	list := make([]roadshow.Material, 0, len(in))
	for _, m := range in {
		if strings.TrimSpace(m.Name) == "" {
			return nil, apperrors.NewValidation("materials", "资料名称不能为空")
		}
		list = append(list, roadshow.Material{
			Kind: roadshow.MaterialKind(m.Kind),
			Name: m.Name,
			Code: m.Code,
			URL:  m.URL,
		})
	}
	b, err := json.Marshal(roadshow.NormalizeMaterials(list))
	if err != nil {
		return nil, apperrors.NewValidation("materials", "资料列表无法序列化")
	}
	return datatypes.JSON(b), nil
}

// normalizeH5Config 内嵌播放器配置必须是 JSON 对象或 null，整体接受或整体拒绝。
// 返回 nil 表示清空。
func normalizeH5Config(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, apperrors.NewValidation("h5_config", "播放器配置必须是 JSON 对象")
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, apperrors.NewValidation("h5_config", "播放器配置必须是 JSON 对象")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, apperrors.NewValidation("h5_config", "播放器配置必须是 JSON 对象")
	}
	return datatypes.JSON(buf.Bytes()), nil
}
