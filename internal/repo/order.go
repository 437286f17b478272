package repo

import (
	"context"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Save(ctx context.Context, order entity.Order) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order entity.Order) (int64, error) {
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}
	err := r.db.WithContext(ctx).Create(&order).Error
	if err != nil {
		return 0, err
	}
	return order.Id, nil
}

func (r *orderRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepo) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
