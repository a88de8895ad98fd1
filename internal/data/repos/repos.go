package repos

import (
	"github.com/yungbote/gamehub-backend/internal/data/repos/accounts"
	"github.com/yungbote/gamehub-backend/internal/data/repos/assets"
	"github.com/yungbote/gamehub-backend/internal/data/repos/world"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AssetRepo = assets.AssetRepo
type AssetFilter = assets.Filter

type MapRepo = world.MapRepo
type GridRepo = world.GridRepo
type TeleporterRepo = world.TeleporterRepo

type UserRepo = accounts.UserRepo
type AvatarRepo = accounts.AvatarRepo

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return assets.NewAssetRepo(db, baseLog)
}

func NewMapRepo(db *gorm.DB, baseLog *logger.Logger) MapRepo {
	return world.NewMapRepo(db, baseLog)
}

func NewGridRepo(db *gorm.DB, baseLog *logger.Logger) GridRepo {
	return world.NewGridRepo(db, baseLog)
}

func NewTeleporterRepo(db *gorm.DB, baseLog *logger.Logger) TeleporterRepo {
	return world.NewTeleporterRepo(db, baseLog)
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return accounts.NewUserRepo(db, baseLog)
}

func NewAvatarRepo(db *gorm.DB, baseLog *logger.Logger) AvatarRepo {
	return accounts.NewAvatarRepo(db, baseLog)
}
