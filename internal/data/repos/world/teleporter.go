package world

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type TeleporterRepo interface {
	Create(dbc dbctx.Context, row *types.Teleporter) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Teleporter, error)
	List(dbc dbctx.Context) ([]*types.Teleporter, error)
	ListBySourceGrid(dbc dbctx.Context, gridID uuid.UUID) ([]*types.Teleporter, error)
	ListByDestinationMap(dbc dbctx.Context, mapID uuid.UUID) ([]*types.Teleporter, error)
	Replace(dbc dbctx.Context, row *types.Teleporter) (int64, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type teleporterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeleporterRepo(db *gorm.DB, baseLog *logger.Logger) TeleporterRepo {
	return &teleporterRepo{db: db, log: baseLog.With("repo", "TeleporterRepo")}
}

func (r *teleporterRepo) Create(dbc dbctx.Context, row *types.Teleporter) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *teleporterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Teleporter, error) {
	var row types.Teleporter
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *teleporterRepo) List(dbc dbctx.Context) ([]*types.Teleporter, error) {
	return r.find(dbc, "", uuid.Nil)
}

func (r *teleporterRepo) ListBySourceGrid(dbc dbctx.Context, gridID uuid.UUID) ([]*types.Teleporter, error) {
	return r.find(dbc, "source_grid_id = ?", gridID)
}

func (r *teleporterRepo) ListByDestinationMap(dbc dbctx.Context, mapID uuid.UUID) ([]*types.Teleporter, error) {
	return r.find(dbc, "destination_map_id = ?", mapID)
}

func (r *teleporterRepo) find(dbc dbctx.Context, where string, id uuid.UUID) ([]*types.Teleporter, error) {
	q := dbc.DB(r.db)
	if where != "" {
		q = q.Where(where, id)
	}
	out := []*types.Teleporter{}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *teleporterRepo) Replace(dbc dbctx.Context, row *types.Teleporter) (int64, error) {
	res := dbc.DB(r.db).Model(&types.Teleporter{}).
		Where("id = ?", row.ID).
		Select("identifier", "source_grid_id", "destination_map_id", "destination_position", "updated_at").
		Updates(row)
	return res.RowsAffected, res.Error
}

func (r *teleporterRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Teleporter{})
	return res.RowsAffected, res.Error
}
