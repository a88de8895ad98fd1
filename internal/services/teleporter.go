package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

const MsgTeleporterNotFound = "Teleporter not found"

type TeleporterService interface {
	Create(ctx context.Context, t *types.Teleporter) (*types.Teleporter, error)
	List(ctx context.Context) ([]*types.Teleporter, error)
	ListBySourceGrid(ctx context.Context, gridID uuid.UUID) ([]*types.Teleporter, error)
	ListByDestinationMap(ctx context.Context, mapID uuid.UUID) ([]*types.Teleporter, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Teleporter, error)
	Update(ctx context.Context, id uuid.UUID, t *types.Teleporter) (*types.Teleporter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type teleporterService struct {
	db          *gorm.DB
	log         *logger.Logger
	teleporters repos.TeleporterRepo
}

func NewTeleporterService(db *gorm.DB, log *logger.Logger, teleporterRepo repos.TeleporterRepo) TeleporterService {
	return &teleporterService{
		db:          db,
		log:         log.With("service", "TeleporterService"),
		teleporters: teleporterRepo,
	}
}

// position is the coordinate pair a teleporter drops the player at.
type position struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func checkTeleporter(t *types.Teleporter) error {
	t.Identifier = strings.TrimSpace(t.Identifier)
	switch {
	case t.Identifier == "":
		return apierr.Validation("Invalid teleporter", errors.New("identifier is required"))
	case t.SourceGridID == uuid.Nil:
		return apierr.Validation("Invalid teleporter", errors.New("source_grid_id is required"))
	case t.DestinationMapID == uuid.Nil:
		return apierr.Validation("Invalid teleporter", errors.New("destination_map_id is required"))
	}
	var p position
	if err := json.Unmarshal(t.DestinationPosition, &p); err != nil || p.X == nil || p.Y == nil {
		return apierr.Validation("Invalid teleporter", errors.New("destination_position must be {x, y}"))
	}
	return nil
}

func (ts *teleporterService) Create(ctx context.Context, t *types.Teleporter) (*types.Teleporter, error) {
	if err := checkTeleporter(t); err != nil {
		return nil, err
	}
	t.ID = uuid.Nil
	if err := ts.teleporters.Create(dbctx.New(ctx), t); err != nil {
		return nil, apierr.Persistence("Error creating teleporter", err)
	}
	return t, nil
}

func (ts *teleporterService) List(ctx context.Context) ([]*types.Teleporter, error) {
	return ts.list(ts.teleporters.List(dbctx.New(ctx)))
}

func (ts *teleporterService) ListBySourceGrid(ctx context.Context, gridID uuid.UUID) ([]*types.Teleporter, error) {
	return ts.list(ts.teleporters.ListBySourceGrid(dbctx.New(ctx), gridID))
}

func (ts *teleporterService) ListByDestinationMap(ctx context.Context, mapID uuid.UUID) ([]*types.Teleporter, error) {
	return ts.list(ts.teleporters.ListByDestinationMap(dbctx.New(ctx), mapID))
}

func (ts *teleporterService) list(rows []*types.Teleporter, err error) ([]*types.Teleporter, error) {
	if err != nil {
		return nil, apierr.Persistence("Error retrieving teleporters", err)
	}
	return rows, nil
}

func (ts *teleporterService) Get(ctx context.Context, id uuid.UUID) (*types.Teleporter, error) {
	row, err := ts.teleporters.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving teleporter", err)
	}
	if row == nil {
		return nil, apierr.NotFound(MsgTeleporterNotFound)
	}
	return row, nil
}

func (ts *teleporterService) Update(ctx context.Context, id uuid.UUID, t *types.Teleporter) (*types.Teleporter, error) {
	if err := checkTeleporter(t); err != nil {
		return nil, err
	}
	t.ID = id
	t.UpdatedAt = time.Now()
	n, err := ts.teleporters.Replace(dbctx.New(ctx), t)
	if err != nil {
		return nil, apierr.Persistence("Error updating teleporter", err)
	}
	if n == 0 {
		return nil, apierr.NotFound(MsgTeleporterNotFound)
	}
	return ts.Get(ctx, id)
}

func (ts *teleporterService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := ts.teleporters.FullDeleteByID(dbctx.New(ctx), id)
	if err != nil {
		return apierr.Persistence("Error deleting teleporter", err)
	}
	if n == 0 {
		return apierr.NotFound(MsgTeleporterNotFound)
	}
	return nil
}
