package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
)

func AutoMigrateAssets(db *gorm.DB) error {
	return migrate(db, "assets", &types.Asset{})
}

func AutoMigrateWorld(db *gorm.DB) error {
	return migrate(db, "world",
		&types.Map{},
		&types.Grid{},
		&types.Teleporter{},
	)
}

func AutoMigrateAccounts(db *gorm.DB) error {
	return migrate(db, "accounts",
		&types.Avatar{},
		&types.User{},
	)
}

func migrate(db *gorm.DB, name string, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate %s: %w", name, err)
	}
	return nil
}
