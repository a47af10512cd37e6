package model

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"owlfi/backend/internal/roadshow"
)

// RoadshowEvent 路演场次表 — 对应 roadshow_events
//
// ManualStatus 为运营手填的编辑标注，与计算得到的展示状态完全独立；
// 展示以 roadshow.Resolve 的计算结果为准，计算结果从不回写本表。
type RoadshowEvent struct {
	ID                   int64          `gorm:"primaryKey;autoIncrement"                        json:"id"`
	Title                string         `gorm:"type:varchar(200);not null"                      json:"title"`
	StartTime            string         `gorm:"type:varchar(32);not null"                       json:"start_time"` // YYYY-MM-DD HH:MM[:SS]
	DurationMinutes      int            `gorm:"not null;default:60"                             json:"duration_minutes"`
	ManualStatus         string         `gorm:"type:varchar(20);not null;default:'warming_up'"  json:"manual_status"`
	ExternalURL          string         `gorm:"type:text;not null;default:''"                   json:"external_url"`
	ReplayURL            string         `gorm:"type:text;not null;default:''"                   json:"replay_url"`
	CoverURL             string         `gorm:"type:text;not null;default:''"                   json:"cover_url"`
	Speaker              string         `gorm:"type:varchar(100);not null;default:''"           json:"speaker"`
	Summary              string         `gorm:"type:text;not null;default:''"                   json:"summary"`
	ReservationEnabled   bool           `gorm:"not null;default:false"                          json:"reservation_enabled"`
	ReservationBaseCount int            `gorm:"not null;default:0"                              json:"reservation_base_count"`
	ReservationRealCount int            `gorm:"not null;default:0"                              json:"reservation_real_count"`
	Materials            datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"                json:"materials"`
	H5Config             datatypes.JSON `gorm:"type:jsonb"                                      json:"h5_config,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (RoadshowEvent) TableName() string { return "roadshow_events" }

// Window 时间窗口（每次调用都重新解析，不缓存）
func (e *RoadshowEvent) Window() roadshow.Window {
	return roadshow.NewWindow(e.StartTime, e.DurationMinutes)
}

// HasReplay 回放链接非空即视为提供回放
func (e *RoadshowEvent) HasReplay() bool {
	return strings.TrimSpace(e.ReplayURL) != ""
}

// ReservationDisplayCount 开启预约时展示 基数 + 真实人数，否则为 0
func (e *RoadshowEvent) ReservationDisplayCount() int {
	if !e.ReservationEnabled {
		return 0
	}
	return e.ReservationBaseCount + e.ReservationRealCount
}

// ConflictsWith 与另一场路演是否冲突；同一场（同指针或同 ID）永不与自身冲突，nil 视为不冲突
func (e *RoadshowEvent) ConflictsWith(o *RoadshowEvent) bool {
	if e == nil || o == nil || e == o || (e.ID != 0 && e.ID == o.ID) {
		return false
	}
	return roadshow.Conflicts(e.Window(), o.Window())
}

// MaterialList 反序列化资料列表；空值视为空列表
func (e *RoadshowEvent) MaterialList() ([]roadshow.Material, error) {
	if len(e.Materials) == 0 || string(e.Materials) == "null" {
		return []roadshow.Material{}, nil
	}
	var list []roadshow.Material
	if err := json.Unmarshal(e.Materials, &list); err != nil {
		return nil, err
	}
	return roadshow.NormalizeMaterials(list), nil
}

// SetMaterials 规整后序列化资料列表（保持顺序，允许重复）
func (e *RoadshowEvent) SetMaterials(list []roadshow.Material) error {
	b, err := json.Marshal(roadshow.NormalizeMaterials(list))
	if err != nil {
		return err
	}
	e.Materials = datatypes.JSON(b)
	return nil
}
