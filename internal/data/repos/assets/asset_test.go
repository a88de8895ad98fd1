package assets

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/gamehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
)

func newAsset(scope, typ, category, filename string) *types.Asset {
	return &types.Asset{
		Filename: filename,
		Name:     filename,
		Scope:    scope,
		Type:     typ,
		Category: category,
		Path:     "http://localhost:3001/uploads/" + scope + "/" + typ + "/" + category + "/" + filename,
		Size:     10,
	}
}

func TestAssetRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewAssetRepo(db, testutil.Logger(t))

	a1 := newAsset("game", "images", "avatars", "1-a.png")
	a2 := newAsset("game", "images", "tilesets", "2-b.png")
	a3 := newAsset("user", "images", "avatars", "3-c.png")
	if _, err := repo.Create(dbc, []*types.Asset{a1, a2, a3}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a1.ID == uuid.Nil {
		t.Fatalf("Create: id not assigned")
	}

	if got, err := repo.GetByID(dbc, a1.ID); err != nil || got == nil || got.Filename != "1-a.png" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID(missing): got=%v err=%v", got, err)
	}
	if got, err := repo.GetByIDs(dbc, []uuid.UUID{a1.ID, a3.ID, uuid.New()}); err != nil || len(got) != 2 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(got), err)
	}
	if got, err := repo.GetByLocation(dbc, "game", "images", "tilesets", "2-b.png"); err != nil || got == nil || got.ID != a2.ID {
		t.Fatalf("GetByLocation: got=%v err=%v", got, err)
	}

	cases := []struct {
		filter Filter
		want   int
	}{
		{Filter{}, 3},
		{Filter{Scope: "game"}, 2},
		{Filter{Scope: "game", Type: "images", Category: "avatars"}, 1},
		{Filter{Scope: "user", Type: "audio"}, 0},
	}
	for _, tc := range cases {
		got, err := repo.List(dbc, tc.filter)
		if err != nil {
			t.Fatalf("List(%+v): %v", tc.filter, err)
		}
		if len(got) != tc.want {
			t.Fatalf("List(%+v): want=%d got=%d", tc.filter, tc.want, len(got))
		}
	}

	n, err := repo.FullDeleteByID(dbc, a1.ID)
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteByID: n=%d err=%v", n, err)
	}
	n, err = repo.FullDeleteByID(dbc, a1.ID)
	if err != nil || n != 0 {
		t.Fatalf("FullDeleteByID(again): want n=0 got n=%d err=%v", n, err)
	}
}

func TestAssetRepoRejectsDuplicateLocation(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewAssetRepo(db, testutil.Logger(t))

	if _, err := repo.Create(dbc, []*types.Asset{newAsset("game", "json", "maps", "1-town.json")}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, []*types.Asset{newAsset("game", "json", "maps", "1-town.json")}); err == nil {
		t.Fatalf("Create duplicate: want unique violation")
	}
}
