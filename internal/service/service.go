package service

import (
	"time"

	"go.uber.org/zap"

	"owlfi/backend/config"
	"owlfi/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Roadshow RoadshowService
	Calendar CalendarService
	Course   CourseConversionService
	Export   ExportService
	ICS      ICSService
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, repo *repository.Repository, loc *time.Location, clock Clock, logger *zap.Logger) *Service {
	return &Service{
		Roadshow: NewRoadshowService(repo, clock, cfg.Roadshow.DefaultDurationMinutes, logger),
		Calendar: NewCalendarService(repo, clock, logger),
		Course:   NewCourseConversionService(repo, logger),
		Export:   NewExportService(repo, clock, logger),
		ICS:      NewICSService(repo, loc, clock, cfg.Roadshow.DefaultDurationMinutes, cfg.Roadshow.ICSMaxBytes, logger),
	}
}
