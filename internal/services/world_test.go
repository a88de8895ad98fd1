package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	"github.com/yungbote/gamehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
)

type fakeDirectory struct {
	known map[uuid.UUID]bool
	err   error
}

func (f *fakeDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

type worldFixture struct {
	maps        MapService
	grids       GridService
	teleporters TeleporterService
	dir         *fakeDirectory
}

func newWorldFixture(t *testing.T) *worldFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dir := &fakeDirectory{known: map[uuid.UUID]bool{}}
	return &worldFixture{
		maps:        NewMapService(db, log, repos.NewMapRepo(db, log), dir),
		grids:       NewGridService(db, log, repos.NewGridRepo(db, log)),
		teleporters: NewTeleporterService(db, log, repos.NewTeleporterRepo(db, log)),
		dir:         dir,
	}
}

func TestMapCreateChecksReferencedAssets(t *testing.T) {
	f := newWorldFixture(t)
	ctx := context.Background()
	layer, tiled := uuid.New(), uuid.New()
	f.dir.known[layer] = true

	_, err := f.maps.Create(ctx, &types.Map{
		Name:         "Town",
		LayerFileIDs: datatypes.JSONSlice[uuid.UUID]{layer},
		JSONFileID:   &tiled,
	})
	if apierr.Status(err) != http.StatusBadRequest || !strings.Contains(err.Error(), tiled.String()) {
		t.Fatalf("Create(unknown json file): want 400 naming %s got=%v", tiled, err)
	}

	f.dir.known[tiled] = true
	m, err := f.maps.Create(ctx, &types.Map{
		Name:         "Town",
		LayerFileIDs: datatypes.JSONSlice[uuid.UUID]{layer},
		JSONFileID:   &tiled,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Fatalf("Create: id not assigned")
	}

	f.dir.err = errors.New("connection refused")
	if _, err := f.maps.Create(ctx, &types.Map{Name: "Cave", LayerFileIDs: datatypes.JSONSlice[uuid.UUID]{layer}}); apierr.Status(err) != http.StatusBadGateway {
		t.Fatalf("Create(directory down): want 502 got=%v", err)
	}
}

func TestMapCreateRequiresName(t *testing.T) {
	f := newWorldFixture(t)
	if _, err := f.maps.Create(context.Background(), &types.Map{Name: "  "}); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Create: want 400 got=%v", err)
	}
}

func TestMapUpdateReplacesAllFields(t *testing.T) {
	f := newWorldFixture(t)
	ctx := context.Background()
	desc := "first"
	m, err := f.maps.Create(ctx, &types.Map{Name: "Town", Description: &desc, Metadata: datatypes.JSON(`{"a":1}`)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := f.maps.Update(ctx, m.ID, &types.Map{Name: "Town v2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Town v2" || got.Description != nil {
		t.Fatalf("Update: got name=%q description=%v", got.Name, got.Description)
	}
	if len(got.LayerFileIDs) != 0 {
		t.Fatalf("Update: layers=%v", got.LayerFileIDs)
	}

	if _, err := f.maps.Update(ctx, uuid.New(), &types.Map{Name: "ghost"}); !apierr.IsNotFound(err) {
		t.Fatalf("Update(missing): want not found got=%v", err)
	}
}

func TestMapGetAndDeleteUnknown(t *testing.T) {
	f := newWorldFixture(t)
	ctx := context.Background()
	if _, err := f.maps.Get(ctx, uuid.New()); !apierr.IsNotFound(err) {
		t.Fatalf("Get: want not found got=%v", err)
	}
	if err := f.maps.Delete(ctx, uuid.New()); !apierr.IsNotFound(err) {
		t.Fatalf("Delete: want not found got=%v", err)
	}
}

func TestGridRequiresJSON(t *testing.T) {
	f := newWorldFixture(t)
	ctx := context.Background()
	if _, err := f.grids.Create(ctx, json.RawMessage(`{"cells":`)); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Create(bad json): want 400 got=%v", err)
	}
	g, err := f.grids.Create(ctx, json.RawMessage(`[[0,1],[1,0]]`))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := f.grids.Update(ctx, g.ID, json.RawMessage(`{"cells":[]}`))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(got.Data) != `{"cells":[]}` {
		t.Fatalf("Update: data=%s", got.Data)
	}
	if err := f.grids.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.grids.Get(ctx, g.ID); !apierr.IsNotFound(err) {
		t.Fatalf("Get after delete: want not found got=%v", err)
	}
}

func TestTeleporterLifecycle(t *testing.T) {
	f := newWorldFixture(t)
	ctx := context.Background()
	m, err := f.maps.Create(ctx, &types.Map{Name: "Cave"})
	if err != nil {
		t.Fatalf("map Create: %v", err)
	}
	g, err := f.grids.Create(ctx, json.RawMessage(`[[1]]`))
	if err != nil {
		t.Fatalf("grid Create: %v", err)
	}

	bad := []*types.Teleporter{
		{SourceGridID: g.ID, DestinationMapID: m.ID, DestinationPosition: datatypes.JSON(`{"x":1,"y":2}`)},
		{Identifier: "door", DestinationMapID: m.ID, DestinationPosition: datatypes.JSON(`{"x":1,"y":2}`)},
		{Identifier: "door", SourceGridID: g.ID, DestinationMapID: m.ID, DestinationPosition: datatypes.JSON(`{"x":1}`)},
	}
	for i, tp := range bad {
		if _, err := f.teleporters.Create(ctx, tp); apierr.Status(err) != http.StatusBadRequest {
			t.Fatalf("Create(bad %d): want 400 got=%v", i, err)
		}
	}

	tp, err := f.teleporters.Create(ctx, &types.Teleporter{
		Identifier:          "door",
		SourceGridID:        g.ID,
		DestinationMapID:    m.ID,
		DestinationPosition: datatypes.JSON(`{"x":3,"y":4}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := f.teleporters.ListBySourceGrid(ctx, g.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListBySourceGrid: rows=%d err=%v", len(rows), err)
	}
	if rows, err := f.teleporters.ListByDestinationMap(ctx, m.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByDestinationMap: rows=%d err=%v", len(rows), err)
	}

	got, err := f.teleporters.Update(ctx, tp.ID, &types.Teleporter{
		Identifier:          "stairs",
		SourceGridID:        g.ID,
		DestinationMapID:    m.ID,
		DestinationPosition: datatypes.JSON(`{"x":0,"y":0}`),
	})
	if err != nil || got.Identifier != "stairs" {
		t.Fatalf("Update: got=%v err=%v", got, err)
	}

	if err := f.maps.Delete(ctx, m.ID); err != nil {
		t.Fatalf("map Delete: %v", err)
	}
	if _, err := f.teleporters.Get(ctx, tp.ID); !apierr.IsNotFound(err) {
		t.Fatalf("teleporter should cascade with its map: %v", err)
	}
}

func TestTeleporterUnknownParentIsPersistenceError(t *testing.T) {
	f := newWorldFixture(t)
	_, err := f.teleporters.Create(context.Background(), &types.Teleporter{
		Identifier:          "door",
		SourceGridID:        uuid.New(),
		DestinationMapID:    uuid.New(),
		DestinationPosition: datatypes.JSON(`{"x":1,"y":1}`),
	})
	if apierr.Status(err) != http.StatusInternalServerError {
		t.Fatalf("Create: want 500 got=%v", err)
	}
}

func TestMissingAssetsDedupesAndKeepsOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	dir := &fakeDirectory{known: map[uuid.UUID]bool{b: true}}
	missing, err := missingAssets(context.Background(), dir, []uuid.UUID{a, b, a, c})
	if err != nil {
		t.Fatalf("missingAssets: %v", err)
	}
	if len(missing) != 2 || missing[0] != a || missing[1] != c {
		t.Fatalf("missingAssets: got=%v", missing)
	}
	if missing, err := missingAssets(context.Background(), nil, []uuid.UUID{a}); err != nil || missing != nil {
		t.Fatalf("nil directory: got=%v err=%v", missing, err)
	}
}
