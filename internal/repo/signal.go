package repo

import (
	"context"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"gorm.io/gorm"
)

type SignalRepo interface {
	Save(ctx context.Context, signal entity.Signal) (int64, error)
	Exists(ctx context.Context, symbol string, timestamp int64, intervalType string) (bool, error)
	Count(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Signal, error)
}

type signalRepo struct {
	db *gorm.DB
}

func NewSignalRepo(db *gorm.DB) SignalRepo {
	return &signalRepo{db: db}
}

func (r *signalRepo) Save(ctx context.Context, signal entity.Signal) (int64, error) {
	if signal.CreatedAt == 0 {
		signal.CreatedAt = time.Now().Unix()
	}
	err := r.db.WithContext(ctx).Create(&signal).Error
	if err != nil {
		return 0, err
	}
	return signal.Id, nil
}

func (r *signalRepo) Exists(ctx context.Context, symbol string, timestamp int64, intervalType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("symbol = ? AND timestamp = ? AND interval_type = ?", symbol, timestamp, intervalType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *signalRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Signal{}).Count(&count).Error
	return count, err
}

func (r *signalRepo) FindRecent(ctx context.Context, limit int) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}
