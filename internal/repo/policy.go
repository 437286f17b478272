package repo

import (
	"context"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"gorm.io/gorm"
)

type PolicyRepo interface {
	FindAll(ctx context.Context) ([]entity.MonitorPolicy, error)
	FindActive(ctx context.Context) ([]entity.MonitorPolicy, error)
	// ReplaceAll 整体替换监控配置, 在一个事务里先清空再写入
	ReplaceAll(ctx context.Context, policies []entity.MonitorPolicy) error
}

type policyRepo struct {
	db *gorm.DB
}

func NewPolicyRepo(db *gorm.DB) PolicyRepo {
	return &policyRepo{db: db}
}

func (r *policyRepo) FindAll(ctx context.Context) ([]entity.MonitorPolicy, error) {
	var policies []entity.MonitorPolicy
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepo) FindActive(ctx context.Context) ([]entity.MonitorPolicy, error) {
	var policies []entity.MonitorPolicy
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepo) ReplaceAll(ctx context.Context, policies []entity.MonitorPolicy) error {
	now := time.Now().Unix()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&entity.MonitorPolicy{}).Error; err != nil {
			return err
		}
		for i := range policies {
			policies[i].Id = 0
			policies[i].CreatedAt = now
			policies[i].UpdatedAt = now
			if err := tx.Create(&policies[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
