package assets

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

// Filter is an equality predicate over the location columns; empty fields
// do not constrain the result.
type Filter struct {
	Scope    string
	Type     string
	Category string
}

type AssetRepo interface {
	Create(dbc dbctx.Context, rows []*types.Asset) ([]*types.Asset, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error)
	GetByLocation(dbc dbctx.Context, scope, typ, category, filename string) (*types.Asset, error)
	List(dbc dbctx.Context, filter Filter) ([]*types.Asset, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (r *assetRepo) Create(dbc dbctx.Context, rows []*types.Asset) ([]*types.Asset, error) {
	if len(rows) == 0 {
		return []*types.Asset{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assetRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Asset
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *assetRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error) {
	var out []*types.Asset
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) GetByLocation(dbc dbctx.Context, scope, typ, category, filename string) (*types.Asset, error) {
	var row types.Asset
	err := dbc.DB(r.db).
		Where("scope = ? AND type = ? AND category = ? AND filename = ?", scope, typ, category, filename).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *assetRepo) List(dbc dbctx.Context, filter Filter) ([]*types.Asset, error) {
	q := dbc.DB(r.db)
	if filter.Scope != "" {
		q = q.Where("scope = ?", filter.Scope)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	out := []*types.Asset{}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FullDeleteByID hard-deletes the row and reports how many rows went away,
// so concurrent deletes can tell who won.
func (r *assetRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Asset{})
	return res.RowsAffected, res.Error
}
