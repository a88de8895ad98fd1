package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
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

const MsgMapNotFound = "Map not found"

type MapService interface {
	Create(ctx context.Context, m *types.Map) (*types.Map, error)
	List(ctx context.Context) ([]*types.Map, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Map, error)
	Update(ctx context.Context, id uuid.UUID, m *types.Map) (*types.Map, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type mapService struct {
	db     *gorm.DB
	log    *logger.Logger
	maps   repos.MapRepo
	assets AssetDirectory
}

// NewMapService builds the map CRUD service. assets may be nil, in which
// case referenced asset ids are stored unchecked.
func NewMapService(db *gorm.DB, log *logger.Logger, mapRepo repos.MapRepo, assets AssetDirectory) MapService {
	return &mapService{
		db:     db,
		log:    log.With("service", "MapService"),
		maps:   mapRepo,
		assets: assets,
	}
}

func (ms *mapService) prepare(ctx context.Context, m *types.Map) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return apierr.Validation("Invalid map", errors.New("name is required"))
	}
	if m.LayerFileIDs == nil {
		m.LayerFileIDs = datatypes.JSONSlice[uuid.UUID]{}
	}
	missing, err := missingAssets(ctx, ms.assets, m.AssetIDs())
	if err != nil {
		ms.log.Warn("Asset lookup failed", "error", err)
		return apierr.New(http.StatusBadGateway, "asset_lookup_failed", err)
	}
	if len(missing) > 0 {
		ids := make([]string, len(missing))
		for i, id := range missing {
			ids[i] = id.String()
		}
		return apierr.Validation("Invalid map", fmt.Errorf("unknown asset ids: %s", strings.Join(ids, ", ")))
	}
	return nil
}

func (ms *mapService) Create(ctx context.Context, m *types.Map) (*types.Map, error) {
	if err := ms.prepare(ctx, m); err != nil {
		return nil, err
	}
	m.ID = uuid.Nil
	if err := ms.maps.Create(dbctx.New(ctx), m); err != nil {
		return nil, apierr.Persistence("Error creating map", err)
	}
	return m, nil
}

func (ms *mapService) List(ctx context.Context) ([]*types.Map, error) {
	rows, err := ms.maps.List(dbctx.New(ctx))
	if err != nil {
		return nil, apierr.Persistence("Error retrieving maps", err)
	}
	return rows, nil
}

func (ms *mapService) Get(ctx context.Context, id uuid.UUID) (*types.Map, error) {
	row, err := ms.maps.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving map", err)
	}
	if row == nil {
		return nil, apierr.NotFound(MsgMapNotFound)
	}
	return row, nil
}

// Update replaces every field of the map; omitted fields are cleared.
func (ms *mapService) Update(ctx context.Context, id uuid.UUID, m *types.Map) (*types.Map, error) {
	if err := ms.prepare(ctx, m); err != nil {
		return nil, err
	}
	m.ID = id
	m.UpdatedAt = time.Now()
	n, err := ms.maps.Replace(dbctx.New(ctx), m)
	if err != nil {
		return nil, apierr.Persistence("Error updating map", err)
	}
	if n == 0 {
		return nil, apierr.NotFound(MsgMapNotFound)
	}
	return ms.Get(ctx, id)
}

func (ms *mapService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := ms.maps.FullDeleteByID(dbctx.New(ctx), id)
	if err != nil {
		return apierr.Persistence("Error deleting map", err)
	}
	if n == 0 {
		return apierr.NotFound(MsgMapNotFound)
	}
	return nil
}
