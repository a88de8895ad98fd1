package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

const MsgAvatarNotFound = "Avatar not found"

type AvatarService interface {
	Create(ctx context.Context, a *types.Avatar) (*types.Avatar, error)
	List(ctx context.Context) ([]*types.Avatar, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Avatar, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type avatarService struct {
	db      *gorm.DB
	log     *logger.Logger
	avatars repos.AvatarRepo
	assets  AssetDirectory
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, avatarRepo repos.AvatarRepo, assets AssetDirectory) AvatarService {
	return &avatarService{
		db:      db,
		log:     log.With("service", "AvatarService"),
		avatars: avatarRepo,
		assets:  assets,
	}
}

func (as *avatarService) Create(ctx context.Context, a *types.Avatar) (*types.Avatar, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" || a.WalkFileID == uuid.Nil || a.IdleFileID == uuid.Nil {
		return nil, apierr.Validation("Invalid avatar", errors.New("name, walk_file_id and idle_file_id are required"))
	}
	missing, err := missingAssets(ctx, as.assets, []uuid.UUID{a.WalkFileID, a.IdleFileID})
	if err != nil {
		return nil, apierr.Persistence("Error creating avatar", err)
	}
	if len(missing) > 0 {
		return nil, apierr.Validation("Invalid avatar", errors.New("unknown sprite file id: "+missing[0].String()))
	}
	a.ID = uuid.Nil
	if err := as.avatars.Create(dbctx.New(ctx), a); err != nil {
		return nil, apierr.Persistence("Error creating avatar", err)
	}
	return a, nil
}

func (as *avatarService) List(ctx context.Context) ([]*types.Avatar, error) {
	rows, err := as.avatars.List(dbctx.New(ctx))
	if err != nil {
		return nil, apierr.Persistence("Error retrieving avatars", err)
	}
	return rows, nil
}

func (as *avatarService) Get(ctx context.Context, id uuid.UUID) (*types.Avatar, error) {
	row, err := as.avatars.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving avatar", err)
	}
	if row == nil {
		return nil, apierr.NotFound(MsgAvatarNotFound)
	}
	return row, nil
}

func (as *avatarService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := as.avatars.FullDeleteByID(dbctx.New(ctx), id)
	if err != nil {
		return apierr.Persistence("Error deleting avatar", err)
	}
	if n == 0 {
		return apierr.NotFound(MsgAvatarNotFound)
	}
	return nil
}
