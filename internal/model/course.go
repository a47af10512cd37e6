package model

// Course 课程表 — 对应 courses
type Course struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Title       string         `gorm:"type:varchar(200);not null"                   json:"title"`
	Description string         `gorm:"type:text;not null;default:''"                json:"description"`
	CoverURL    string         `gorm:"type:text;not null;default:''"                json:"cover_url"`
	Category    string         `gorm:"type:varchar(50);not null;default:'roadshow'" json:"category"`
	IsPublished bool           `gorm:"not null;default:false"                       json:"is_published"`
	Lessons     []CourseLesson `gorm:"foreignKey:CourseID"                          json:"lessons,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseLesson 课时表 — 对应 course_lessons
type CourseLesson struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"              json:"id"`
	CourseID        int64  `gorm:"not null;index"                        json:"course_id"`
	Title           string `gorm:"type:varchar(200);not null"            json:"title"`
	SortOrder       int    `gorm:"not null;default:0"                    json:"sort_order"`
	VideoProvider   string `gorm:"type:varchar(20);not null;default:''"  json:"video_provider"`
	VideoID         string `gorm:"type:varchar(64);not null;default:''"  json:"video_id"`
	VideoURL        string `gorm:"type:text;not null;default:''"         json:"video_url"`
	DurationMinutes int    `gorm:"not null;default:0"                    json:"duration_minutes"`
	BaseModel
}

// TableName 指定表名
func (CourseLesson) TableName() string { return "course_lessons" }
