package world

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type GridRepo interface {
	Create(dbc dbctx.Context, row *types.Grid) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Grid, error)
	List(dbc dbctx.Context) ([]*types.Grid, error)
	Replace(dbc dbctx.Context, row *types.Grid) (int64, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type gridRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGridRepo(db *gorm.DB, baseLog *logger.Logger) GridRepo {
	return &gridRepo{db: db, log: baseLog.With("repo", "GridRepo")}
}

func (r *gridRepo) Create(dbc dbctx.Context, row *types.Grid) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *gridRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Grid, error) {
	var row types.Grid
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *gridRepo) List(dbc dbctx.Context) ([]*types.Grid, error) {
	out := []*types.Grid{}
	if err := dbc.DB(r.db).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gridRepo) Replace(dbc dbctx.Context, row *types.Grid) (int64, error) {
	res := dbc.DB(r.db).Model(&types.Grid{}).
		Where("id = ?", row.ID).
		Select("data", "updated_at").
		Updates(row)
	return res.RowsAffected, res.Error
}

func (r *gridRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Grid{})
	return res.RowsAffected, res.Error
}
