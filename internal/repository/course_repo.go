package repository

import (
	"context"

	"gorm.io/gorm"

	"owlfi/backend/internal/model"
)

// CourseRepository 课程数据访问接口（路演转课程的写入端）
type CourseRepository interface {
	// Create 在单个事务中写入课程及其课时
	Create(ctx context.Context, course *model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons := course.Lessons
		course.Lessons = nil
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range lessons {
			lessons[i].CourseID = course.ID
		}
		if len(lessons) > 0 {
			if err := tx.Create(&lessons).Error; err != nil {
				return err
			}
		}
		course.Lessons = lessons
		return nil
	})
}
