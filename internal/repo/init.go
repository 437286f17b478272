package repo

import (
	"github.com/wickmon/wickmon/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Credential{},
		&entity.MonitorPolicy{},
		&entity.Signal{},
		&entity.Order{},
	)
}
