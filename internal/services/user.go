package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

const MsgUserNotFound = "User not found"

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarID *uuid.UUID) (*types.User, error)
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	avatarRepo repos.AvatarRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarRepo repos.AvatarRepo) UserService {
	return &userService{
		db:         db,
		log:        log.With("service", "UserService"),
		userRepo:   userRepo,
		avatarRepo: avatarRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		us.log.Warn("Request data not set in context")
		return nil, apierr.Unauthorized(MsgUnauthorized, errors.New("request data not set in context"))
	}
	return us.Get(ctx, rd.UserID)
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving user", err)
	}
	if user == nil {
		return nil, apierr.NotFound(MsgUserNotFound)
	}
	return user, nil
}

// UpdateAvatar sets or clears the user's avatar. Only the user themself or
// an ADMIN may do this.
func (us *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarID *uuid.UUID) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized(MsgUnauthorized, errors.New("request data not set in context"))
	}
	if rd.UserID != userID && rd.Role != types.RoleAdmin {
		return nil, apierr.Forbidden("Forbidden")
	}

	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if avatarID != nil {
			avatar, err := us.avatarRepo.GetByID(dbc, *avatarID)
			if err != nil {
				return apierr.Persistence("Error updating avatar", err)
			}
			if avatar == nil {
				return apierr.Validation("Invalid avatar", errors.New("avatar does not exist"))
			}
		}
		n, err := us.userRepo.UpdateAvatar(dbc, userID, avatarID)
		if err != nil {
			return apierr.Persistence("Error updating avatar", err)
		}
		if n == 0 {
			return apierr.NotFound(MsgUserNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return us.Get(ctx, userID)
}
