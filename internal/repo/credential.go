package repo

import (
	"context"
	"errors"
	"time"

	"github.com/wickmon/wickmon/internal/entity"
	"gorm.io/gorm"
)

type CredentialRepo interface {
	Create(ctx context.Context, cred entity.Credential) (int64, error)
	FindAll(ctx context.Context) ([]entity.Credential, error)
	FindById(ctx context.Context, id int64) (*entity.Credential, error)
	// GetActive 返回当前激活的凭证, 没有则返回 nil
	GetActive(ctx context.Context) (*entity.Credential, error)
	Activate(ctx context.Context, id int64) error
	DeleteById(ctx context.Context, id int64) error
	UpdateContracts(ctx context.Context, id int64, contracts string) error
	FindContract(ctx context.Context, symbol string) (*entity.Contract, error)
}

type credentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepo(db *gorm.DB) CredentialRepo {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) Create(ctx context.Context, cred entity.Credential) (int64, error) {
	now := time.Now().Unix()
	cred.CreatedAt = now
	cred.UpdatedAt = now
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cred.IsActive {
			// 新凭证激活时, 其余全部下线
			if err := tx.Model(&entity.Credential{}).Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&cred).Error
	})
	if err != nil {
		return 0, err
	}
	return cred.Id, nil
}

func (r *credentialRepo) FindAll(ctx context.Context) ([]entity.Credential, error) {
	var creds []entity.Credential
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&creds).Error
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *credentialRepo) FindById(ctx context.Context, id int64) (*entity.Credential, error) {
	var cred entity.Credential
	err := r.db.WithContext(ctx).First(&cred, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepo) GetActive(ctx context.Context) (*entity.Credential, error) {
	var cred entity.Credential
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepo) Activate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Credential{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Credential{}).Where("id = ?", id).
			Updates(map[string]any{"is_active": true, "updated_at": time.Now().Unix()}).Error
	})
}

func (r *credentialRepo) DeleteById(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entity.Credential{}, id).Error
}

func (r *credentialRepo) UpdateContracts(ctx context.Context, id int64, contracts string) error {
	return r.db.WithContext(ctx).Model(&entity.Credential{}).Where("id = ?", id).
		Updates(map[string]any{"contracts": contracts, "updated_at": time.Now().Unix()}).Error
}

// FindContract 在激活凭证缓存的合约元数据里查找指定交易对
func (r *credentialRepo) FindContract(ctx context.Context, symbol string) (*entity.Contract, error) {
	cred, err := r.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, nil
	}
	contracts, err := cred.ParseContracts()
	if err != nil {
		return nil, err
	}
	for i := range contracts {
		if contracts[i].Name == symbol {
			return &contracts[i], nil
		}
	}
	return nil, nil
}
