package handler

import "owlfi/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Roadshow *RoadshowHandler
	Calendar *CalendarHandler
	Course   *CourseHandler
	Export   *ExportHandler
	ICS      *ICSHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, revoker TokenRevoker) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(revoker),
		Roadshow: NewRoadshowHandler(svc.Roadshow),
		Calendar: NewCalendarHandler(svc.Calendar, svc.ICS),
		Course:   NewCourseHandler(svc.Course),
		Export:   NewExportHandler(svc.Export),
		ICS:      NewICSHandler(svc.ICS),
	}
}
