package world

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type MapRepo interface {
	Create(dbc dbctx.Context, row *types.Map) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Map, error)
	List(dbc dbctx.Context) ([]*types.Map, error)
	// Replace overwrites every mutable column of an existing map.
	Replace(dbc dbctx.Context, row *types.Map) (int64, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type mapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMapRepo(db *gorm.DB, baseLog *logger.Logger) MapRepo {
	return &mapRepo{db: db, log: baseLog.With("repo", "MapRepo")}
}

func (r *mapRepo) Create(dbc dbctx.Context, row *types.Map) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *mapRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Map, error) {
	var row types.Map
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *mapRepo) List(dbc dbctx.Context) ([]*types.Map, error) {
	out := []*types.Map{}
	if err := dbc.DB(r.db).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mapRepo) Replace(dbc dbctx.Context, row *types.Map) (int64, error) {
	res := dbc.DB(r.db).Model(&types.Map{}).
		Where("id = ?", row.ID).
		Select("name", "description", "layer_file_ids", "json_file_id", "metadata", "updated_at").
		Updates(row)
	return res.RowsAffected, res.Error
}

func (r *mapRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Map{})
	return res.RowsAffected, res.Error
}
