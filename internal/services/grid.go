package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

const MsgGridNotFound = "Grid not found"

type GridService interface {
	Create(ctx context.Context, data json.RawMessage) (*types.Grid, error)
	List(ctx context.Context) ([]*types.Grid, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Grid, error)
	Update(ctx context.Context, id uuid.UUID, data json.RawMessage) (*types.Grid, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gridService struct {
	db    *gorm.DB
	log   *logger.Logger
	grids repos.GridRepo
}

func NewGridService(db *gorm.DB, log *logger.Logger, gridRepo repos.GridRepo) GridService {
	return &gridService{db: db, log: log.With("service", "GridService"), grids: gridRepo}
}

func checkGridData(data json.RawMessage) error {
	if len(data) == 0 || !json.Valid(data) {
		return apierr.Validation("Invalid grid", errors.New("body must be valid JSON"))
	}
	return nil
}

func (gs *gridService) Create(ctx context.Context, data json.RawMessage) (*types.Grid, error) {
	if err := checkGridData(data); err != nil {
		return nil, err
	}
	row := &types.Grid{Data: datatypes.JSON(data)}
	if err := gs.grids.Create(dbctx.New(ctx), row); err != nil {
		return nil, apierr.Persistence("Error creating grid", err)
	}
	return row, nil
}

func (gs *gridService) List(ctx context.Context) ([]*types.Grid, error) {
	rows, err := gs.grids.List(dbctx.New(ctx))
	if err != nil {
		return nil, apierr.Persistence("Error retrieving grids", err)
	}
	return rows, nil
}

func (gs *gridService) Get(ctx context.Context, id uuid.UUID) (*types.Grid, error) {
	row, err := gs.grids.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving grid", err)
	}
	if row == nil {
		return nil, apierr.NotFound(MsgGridNotFound)
	}
	return row, nil
}

func (gs *gridService) Update(ctx context.Context, id uuid.UUID, data json.RawMessage) (*types.Grid, error) {
	if err := checkGridData(data); err != nil {
		return nil, err
	}
	n, err := gs.grids.Replace(dbctx.New(ctx), &types.Grid{ID: id, Data: datatypes.JSON(data), UpdatedAt: time.Now()})
	if err != nil {
		return nil, apierr.Persistence("Error updating grid", err)
	}
	if n == 0 {
		return nil, apierr.NotFound(MsgGridNotFound)
	}
	return gs.Get(ctx, id)
}

func (gs *gridService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := gs.grids.FullDeleteByID(dbctx.New(ctx), id)
	if err != nil {
		return apierr.Persistence("Error deleting grid", err)
	}
	if n == 0 {
		return apierr.NotFound(MsgGridNotFound)
	}
	return nil
}
