package accounts

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type AvatarRepo interface {
	Create(dbc dbctx.Context, row *types.Avatar) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Avatar, error)
	List(dbc dbctx.Context) ([]*types.Avatar, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type avatarRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvatarRepo(db *gorm.DB, baseLog *logger.Logger) AvatarRepo {
	return &avatarRepo{db: db, log: baseLog.With("repo", "AvatarRepo")}
}

func (r *avatarRepo) Create(dbc dbctx.Context, row *types.Avatar) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *avatarRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Avatar, error) {
	var row types.Avatar
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *avatarRepo) List(dbc dbctx.Context) ([]*types.Avatar, error) {
	out := []*types.Avatar{}
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *avatarRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Avatar{})
	return res.RowsAffected, res.Error
}
