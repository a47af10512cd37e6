package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"owlfi/backend/internal/model"
	"owlfi/backend/internal/repository"
	"owlfi/backend/internal/roadshow"
)

// ── 课程转换业务错误 ──

var (
	ErrCourseCreateFailed = errors.New("课程创建失败")
)

// ReplayLessonTitle 转换生成的唯一课时标题
const ReplayLessonTitle = "replay"

// CourseConversionService 路演转课程
type CourseConversionService interface {
	// ConvertToCourse 读取一场路演并生成独立的课程记录，返回新课程 ID。
	// 写入后未拿到 ID 时返回 0，原路演记录不做任何修改。
	ConvertToCourse(ctx context.Context, eventID int64, callerID string) (int64, error)
}

type courseConversionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseConversionService 创建 CourseConversionService 实例
func NewCourseConversionService(repo *repository.Repository, logger *zap.Logger) CourseConversionService {
	return &courseConversionService{repo: repo, logger: logger}
}

// ────────────────────── ConvertToCourse ──────────────────────

func (s *courseConversionService) ConvertToCourse(ctx context.Context, eventID int64, callerID string) (int64, error) {
	e, err := s.repo.Roadshow.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRoadshowNotFound
		}
		s.logger.Error("查询路演失败", zap.Int64("id", eventID), zap.Error(err))
		return 0, storeErr(err)
	}

	course := BuildCourse(e)
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID
	for i := range course.Lessons {
		course.Lessons[i].CreatedBy = &callerID
		course.Lessons[i].UpdatedBy = &callerID
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("路演转课程失败", zap.Int64("event_id", eventID), zap.Error(err))
		return 0, fmt.Errorf("%w: %w", ErrCourseCreateFailed, err)
	}
	if course.ID == 0 {
		s.logger.Warn("课程写入后未返回 ID", zap.Int64("event_id", eventID))
		return 0, nil
	}

	s.logger.Info("路演已转为课程", zap.Int64("event_id", eventID), zap.Int64("course_id", course.ID))
	return course.ID, nil
}

// BuildCourse 路演到课程的投影：一个标题固定为 replay 的课时，
// 视频标识依次从回放链接、外部链接中提取，描述引用原路演标题。
func BuildCourse(e *model.RoadshowEvent) *model.Course {
	lesson := model.CourseLesson{
		Title:           ReplayLessonTitle,
		SortOrder:       1,
		DurationMinutes: e.DurationMinutes,
	}
	if ref, ok := roadshow.ExtractVideoFrom(e.ReplayURL, e.ExternalURL); ok {
		lesson.VideoProvider = ref.Provider
		lesson.VideoID = ref.ID
	}
	switch {
	case e.ReplayURL != "":
		lesson.VideoURL = e.ReplayURL
	case e.ExternalURL != "":
		lesson.VideoURL = e.ExternalURL
	}

	return &model.Course{
		Title:       e.Title,
		Description: fmt.Sprintf("本课程整理自路演《%s》", e.Title),
		CoverURL:    e.CoverURL,
		Category:    "roadshow",
		Lessons:     []model.CourseLesson{lesson},
	}
}
