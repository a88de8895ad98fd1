package accounts

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, row *types.User) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	UpdateAvatar(dbc dbctx.Context, userID uuid.UUID, avatarID *uuid.UUID) (int64, error)
	CountByRole(dbc dbctx.Context, role string) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, row *types.User) error {
	return dbc.DB(ur.db).Create(row).Error
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var row types.User
	if err := dbc.DB(ur.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	var row types.User
	if err := dbc.DB(ur.db).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (ur *userRepo) UpdateAvatar(dbc dbctx.Context, userID uuid.UUID, avatarID *uuid.UUID) (int64, error) {
	res := dbc.DB(ur.db).Model(&types.User{}).
		Where("id = ?", userID).
		Update("avatar_id", avatarID)
	return res.RowsAffected, res.Error
}

func (ur *userRepo) CountByRole(dbc dbctx.Context, role string) (int64, error) {
	var n int64
	err := dbc.DB(ur.db).Model(&types.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
