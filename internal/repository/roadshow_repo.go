package repository

import (
	"context"

	"gorm.io/gorm"

	"owlfi/backend/internal/model"
)

// RoadshowRepository 路演数据访问接口
//
// 返回的列表保持插入顺序（按 id 升序），不做任何按时间的排序；
// 记录不存在时返回 gorm.ErrRecordNotFound。
type RoadshowRepository interface {
	Create(ctx context.Context, e *model.RoadshowEvent) error
	// CreateBatch 在单个事务中写入多场路演，任一失败则整体回滚
	CreateBatch(ctx context.Context, events []*model.RoadshowEvent) error
	GetByID(ctx context.Context, id int64) (*model.RoadshowEvent, error)
	List(ctx context.Context) ([]model.RoadshowEvent, error)
	// ListBetween 按开始时间的日期部分过滤：fromDate <= date < toDate（YYYY-MM-DD）
	ListBetween(ctx context.Context, fromDate, toDate string) ([]model.RoadshowEvent, error)
	Update(ctx context.Context, e *model.RoadshowEvent) error
	Delete(ctx context.Context, id int64, deletedBy string) error
}

type roadshowRepo struct {
	db *gorm.DB
}

// NewRoadshowRepo 创建 RoadshowRepository 实例
func NewRoadshowRepo(db *gorm.DB) RoadshowRepository {
	return &roadshowRepo{db: db}
}

func (r *roadshowRepo) Create(ctx context.Context, e *model.RoadshowEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *roadshowRepo) CreateBatch(ctx context.Context, events []*model.RoadshowEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range events {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roadshowRepo) GetByID(ctx context.Context, id int64) (*model.RoadshowEvent, error) {
	var e model.RoadshowEvent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *roadshowRepo) List(ctx context.Context) ([]model.RoadshowEvent, error) {
	var events []model.RoadshowEvent
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

func (r *roadshowRepo) ListBetween(ctx context.Context, fromDate, toDate string) ([]model.RoadshowEvent, error) {
	var events []model.RoadshowEvent
	err := r.db.WithContext(ctx).
		Where("LEFT(start_time, 10) >= ? AND LEFT(start_time, 10) < ?", fromDate, toDate).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

func (r *roadshowRepo) Update(ctx context.Context, e *model.RoadshowEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *roadshowRepo) Delete(ctx context.Context, id int64, deletedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&model.RoadshowEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
