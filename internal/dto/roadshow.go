package dto

import "encoding/json"

// ── 路演模块 DTO ──

// MaterialInput 资料条目（kind 无法识别时按 report 处理）
type MaterialInput struct {
	Kind string `json:"kind"`
	Name string `json:"name" binding:"required,max=200"`
	Code string `json:"code" binding:"omitempty,max=32"`
	URL  string `json:"url"  binding:"omitempty,max=2000"`
}

// CreateRoadshowRequest 创建路演请求
type CreateRoadshowRequest struct {
	Title                string          `json:"title"                  binding:"required,max=200"`
	StartTime            string          `json:"start_time"             binding:"required"` // "2026-03-01 10:00"
	DurationMinutes      *int            `json:"duration_minutes"       binding:"omitempty,min=0,max=10080"`
	ManualStatus         string          `json:"manual_status"          binding:"omitempty,oneof=warming_up live replay ended"`
	ExternalURL          string          `json:"external_url"           binding:"omitempty,max=2000"`
	ReplayURL            string          `json:"replay_url"             binding:"omitempty,max=2000"`
	CoverURL             string          `json:"cover_url"              binding:"omitempty,max=2000"`
	Speaker              string          `json:"speaker"                binding:"omitempty,max=100"`
	Summary              string          `json:"summary"`
	ReservationEnabled   bool            `json:"reservation_enabled"`
	ReservationBaseCount int             `json:"reservation_base_count" binding:"min=0"`
	ReservationRealCount int             `json:"reservation_real_count" binding:"min=0"`
	Materials            []MaterialInput `json:"materials"              binding:"omitempty,dive"`
	H5Config             json.RawMessage `json:"h5_config"`
}

// UpdateRoadshowRequest 更新路演请求（字段为空表示不修改）
type UpdateRoadshowRequest struct {
	Title                *string          `json:"title"                  binding:"omitempty,max=200"`
	StartTime            *string          `json:"start_time"`
	DurationMinutes      *int             `json:"duration_minutes"       binding:"omitempty,min=0,max=10080"`
	ManualStatus         *string          `json:"manual_status"          binding:"omitempty,oneof=warming_up live replay ended"`
	ExternalURL          *string          `json:"external_url"           binding:"omitempty,max=2000"`
	ReplayURL            *string          `json:"replay_url"             binding:"omitempty,max=2000"`
	CoverURL             *string          `json:"cover_url"              binding:"omitempty,max=2000"`
	Speaker              *string          `json:"speaker"                binding:"omitempty,max=100"`
	Summary              *string          `json:"summary"`
	ReservationEnabled   *bool            `json:"reservation_enabled"`
	ReservationBaseCount *int             `json:"reservation_base_count" binding:"omitempty,min=0"`
	ReservationRealCount *int             `json:"reservation_real_count" binding:"omitempty,min=0"`
	Materials            *[]MaterialInput `json:"materials"              binding:"omitempty,dive"`
	H5Config             json.RawMessage  `json:"h5_config"`
}

// ReplaceMaterialsRequest 整体替换资料列表（顺序即展示顺序）
type ReplaceMaterialsRequest struct {
	Materials []MaterialInput `json:"materials" binding:"dive"`
}

// CheckConflictsRequest 冲突预检请求
type CheckConflictsRequest struct {
	StartTime       string `json:"start_time"       binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0,max=10080"`
	ExcludeID       int64  `json:"exclude_id"`
}

// MaterialView 资料展示
type MaterialView struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
	URL  string `json:"url,omitempty"`
}

// RoadshowView 单场路演视图模型（运营端与公众端共用）
type RoadshowView struct {
	ID                      int64           `json:"id"`
	Title                   string          `json:"title"`
	ComputedStatus          string          `json:"computed_status"`
	ManualStatus            string          `json:"manual_status"`
	Schedulable             bool            `json:"schedulable"` // 开始时间可解析
	StartTime               string          `json:"start_time"`
	Date                    string          `json:"date"`
	Time                    string          `json:"time"`
	EndTime                 string          `json:"end_time,omitempty"`
	DurationMinutes         int             `json:"duration_minutes"`
	HasConflict             bool            `json:"has_conflict"`
	ReservationEnabled      bool            `json:"reservation_enabled"`
	ReservationDisplayCount int             `json:"reservation_display_count"`
	Materials               []MaterialView  `json:"materials"`
	ExternalURL             string          `json:"external_url,omitempty"`
	ReplayURL               string          `json:"replay_url,omitempty"`
	CoverURL                string          `json:"cover_url,omitempty"`
	Speaker                 string          `json:"speaker,omitempty"`
	Summary                 string          `json:"summary,omitempty"`
	H5Config                json.RawMessage `json:"h5_config,omitempty"`
}

// ConflictBrief 冲突场次简要信息
type ConflictBrief struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// RoadshowWriteResponse 创建/更新响应：冲突仅作提示，不阻止写入
type RoadshowWriteResponse struct {
	Roadshow  RoadshowView    `json:"roadshow"`
	Conflicts []ConflictBrief `json:"conflicts"`
}

// CheckConflictsResponse 冲突预检响应
type CheckConflictsResponse struct {
	HasConflict bool            `json:"has_conflict"`
	Conflicts   []ConflictBrief `json:"conflicts"`
}

// RoadshowListResponse 路演列表；Degraded 表示存储不可用时返回的空视图
type RoadshowListResponse struct {
	List     []RoadshowView `json:"list"`
	Degraded bool           `json:"degraded"`
}

// ConvertCourseResponse 路演转课程响应；CourseID 为 0 表示未能确认创建结果
type ConvertCourseResponse struct {
	CourseID int64 `json:"course_id"`
}
