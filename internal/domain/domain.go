package domain

import (
	"github.com/yungbote/gamehub-backend/internal/domain/accounts"
	"github.com/yungbote/gamehub-backend/internal/domain/assets"
	"github.com/yungbote/gamehub-backend/internal/domain/world"
)

const (
	RoleUser  = accounts.RoleUser
	RoleAdmin = accounts.RoleAdmin
)

type Asset = assets.Asset

type Map = world.Map
type Grid = world.Grid
type Teleporter = world.Teleporter

type User = accounts.User
type Avatar = accounts.Avatar
