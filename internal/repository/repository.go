package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Roadshow RoadshowRepository
	Course   CourseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Roadshow: NewRoadshowRepo(db),
		Course:   NewCourseRepo(db),
	}
}
