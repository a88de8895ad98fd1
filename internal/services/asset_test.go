package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/assetpolicy"
	"github.com/yungbote/gamehub-backend/internal/data/repos"
	"github.com/yungbote/gamehub-backend/internal/data/repos/testutil"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/objstore"
)

type assetFixture struct {
	db    *gorm.DB
	root  string
	repo  repos.AssetRepo
	svc   *assetService
	store *objstore.LocalStore
}

func newAssetFixture(t *testing.T) *assetFixture {
	t.Helper()
	db := testutil.DB(t)
	root := t.TempDir()
	store, err := objstore.NewLocalStore(root, "http://localhost:3001/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	repo := repos.NewAssetRepo(db, testutil.Logger(t))
	svc := NewAssetService(db, testutil.Logger(t), repo, store, assetpolicy.Default(), time.Hour).(*assetService)
	return &assetFixture{db: db, root: root, repo: repo, svc: svc, store: store}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	_ = filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func upload(scope, typ, category, name, mime string, body []byte) UploadInput {
	return UploadInput{
		Scope:        scope,
		Type:         typ,
		Category:     category,
		OriginalName: name,
		MimeType:     mime,
		Size:         int64(len(body)),
		Body:         bytes.NewReader(body),
	}
}

func TestUploadStoresFileAndMetadata(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()

	in := upload("game", "images", "avatars", "a.png", "image/png", pngBytes(t, 32, 48))
	in.Name = "Av1"
	row, err := f.svc.Upload(ctx, in)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(row.Filename, "-a.png") {
		t.Fatalf("Filename: got=%q", row.Filename)
	}
	if row.Name != "Av1" || row.Scope != "game" || row.Type != "images" || row.Category != "avatars" {
		t.Fatalf("row: got=%+v", row)
	}
	wantURL := "http://localhost:3001/uploads/game/images/avatars/" + row.Filename
	if row.Path != wantURL {
		t.Fatalf("Path: want=%q got=%q", wantURL, row.Path)
	}
	if row.Dimensions == nil || *row.Dimensions != "32x48" {
		t.Fatalf("Dimensions: got=%v", row.Dimensions)
	}
	if _, err := os.Stat(filepath.Join(f.root, "game", "images", "avatars", row.Filename)); err != nil {
		t.Fatalf("stored file: %v", err)
	}
	got, err := f.svc.GetByID(ctx, row.ID)
	if err != nil || got.Filename != row.Filename {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
}

func TestUploadNameFallsBackToOriginal(t *testing.T) {
	f := newAssetFixture(t)
	row, err := f.svc.Upload(context.Background(), upload("user", "image", "uploads", "dir/../me.png", "", pngBytes(t, 1, 1)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if row.Name != "dir/../me.png" {
		t.Fatalf("Name: got=%q", row.Name)
	}
	if !strings.HasSuffix(row.Filename, "-me.png") || row.MimeType != "image/png" {
		t.Fatalf("Filename=%q MimeType=%q", row.Filename, row.MimeType)
	}
}

func TestUploadRejectsBadSegmentsBeforeTouchingStorage(t *testing.T) {
	f := newAssetFixture(t)
	cases := []struct{ scope, typ, category, prefix string }{
		{"spaceship", "images", "avatars", "Invalid scope"},
		{"game", "fonts", "ui", "Invalid type"},
		{"game", "images", "weapons", "Invalid category"},
		{"game", "documents", "..", "Invalid category"},
		{"game", "videos", ".", "Invalid category"},
	}
	for _, tc := range cases {
		if err := f.svc.CheckSegments(tc.scope, tc.typ, tc.category); apierr.Status(err) != http.StatusBadRequest {
			t.Fatalf("CheckSegments(%s): want 400 got=%v", tc.prefix, err)
		}
		_, err := f.svc.Upload(context.Background(), upload(tc.scope, tc.typ, tc.category, "a.png", "image/png", pngBytes(t, 1, 1)))
		if apierr.Status(err) != http.StatusBadRequest {
			t.Fatalf("%s: want 400 got=%d (%v)", tc.prefix, apierr.Status(err), err)
		}
		if !strings.HasPrefix(err.Error(), tc.prefix) {
			t.Fatalf("error text: want prefix %q got=%q", tc.prefix, err.Error())
		}
	}
	entries, _ := os.ReadDir(f.root)
	if len(entries) != 0 {
		t.Fatalf("storage touched: %d entries", len(entries))
	}
	if rows, _ := f.svc.List(context.Background(), repos.AssetFilter{}); len(rows) != 0 {
		t.Fatalf("rows written: %d", len(rows))
	}
}

func TestUploadRejectsMIMEAfterDirectoryCreation(t *testing.T) {
	f := newAssetFixture(t)
	_, err := f.svc.Upload(context.Background(), upload("game", "images", "ui", "a.gif", "image/gif", []byte("GIF89a")))
	if apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("want 400 got=%v", err)
	}
	if info, err := os.Stat(filepath.Join(f.root, "game", "images", "ui")); err != nil || !info.IsDir() {
		t.Fatalf("directory should exist: %v", err)
	}
	if countFiles(t, f.root) != 0 {
		t.Fatalf("no file should be written")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := newAssetFixture(t)
	in := upload("game", "images", "ui", "big.png", "image/png", []byte("x"))
	in.Size = assetpolicy.DefaultMaxBytes + 1
	if _, err := f.svc.Upload(context.Background(), in); apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("want 400 got=%v", err)
	}
}

func TestUploadMapFileStructureCheckLeavesOrphan(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()

	good := []byte(`{"layers":[],"tilesets":[],"width":10,"height":10}`)
	if _, err := f.svc.Upload(ctx, upload("game", "json", "maps", "town.json", "application/json", good)); err != nil {
		t.Fatalf("Upload(valid map): %v", err)
	}

	bad := []byte(`{"layers":[]}`)
	_, err := f.svc.Upload(ctx, upload("game", "json", "maps", "broken.json", "application/json", bad))
	if apierr.Status(err) != http.StatusBadRequest {
		t.Fatalf("Upload(invalid map): want 400 got=%v", err)
	}
	if countFiles(t, f.root) != 2 {
		t.Fatalf("invalid map file should stay on disk: files=%d", countFiles(t, f.root))
	}
	rows, _ := f.svc.List(ctx, repos.AssetFilter{Scope: "game", Type: "json", Category: "maps"})
	if len(rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(rows))
	}
}

func TestUploadPersistenceFailureLeavesOrphan(t *testing.T) {
	f := newAssetFixture(t)
	sqlDB, _ := f.db.DB()
	_ = sqlDB.Close()

	_, err := f.svc.Upload(context.Background(), upload("game", "images", "ui", "a.png", "image/png", pngBytes(t, 2, 2)))
	if apierr.Status(err) != http.StatusInternalServerError {
		t.Fatalf("want 500 got=%v", err)
	}
	if countFiles(t, f.root) != 1 {
		t.Fatalf("file should remain without metadata")
	}
}

func TestUploadsInSameDirectoryGetDistinctNames(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()
	names := map[string]bool{}
	for i := 0; i < 5; i++ {
		row, err := f.svc.Upload(ctx, upload("game", "images", "sprites", "hero.png", "image/png", pngBytes(t, 1, 1)))
		if err != nil {
			t.Fatalf("Upload %d: %v", i, err)
		}
		if names[row.Filename] {
			t.Fatalf("duplicate filename %q", row.Filename)
		}
		names[row.Filename] = true
	}
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()
	row, err := f.svc.Upload(ctx, upload("game", "images", "items", "sword.png", "image/png", pngBytes(t, 1, 1)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := f.svc.Delete(ctx, "game", "images", "items", row.Filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if countFiles(t, f.root) != 0 {
		t.Fatalf("file should be gone")
	}
	if _, err := f.svc.GetByID(ctx, row.ID); !apierr.IsNotFound(err) {
		t.Fatalf("GetByID after delete: want not found got=%v", err)
	}
	if err := f.svc.Delete(ctx, "game", "images", "items", row.Filename); !apierr.IsNotFound(err) {
		t.Fatalf("second Delete: want not found got=%v", err)
	}
}

func TestDeleteMissingFileKeepsRow(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()
	row, err := f.svc.Upload(ctx, upload("game", "audio", "sfx", "boom.png", "image/png", pngBytes(t, 1, 1)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := os.Remove(filepath.Join(f.root, "game", "audio", "sfx", row.Filename)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	err = f.svc.Delete(ctx, "game", "audio", "sfx", row.Filename)
	if apierr.Status(err) != http.StatusNotFound {
		t.Fatalf("Delete: want 404 got=%v", err)
	}
	if got, err := f.svc.GetByID(ctx, row.ID); err != nil || got == nil {
		t.Fatalf("row should survive: got=%v err=%v", got, err)
	}
}

func TestDeleteUnknownTupleIsNotFound(t *testing.T) {
	f := newAssetFixture(t)
	err := f.svc.Delete(context.Background(), "game", "images", "ui", "nope.png")
	if !apierr.IsNotFound(err) {
		t.Fatalf("Delete: want not found got=%v", err)
	}
}

func TestListFiltersByLocation(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()
	for _, in := range []UploadInput{
		upload("game", "images", "avatars", "a.png", "image/png", pngBytes(t, 1, 1)),
		upload("game", "images", "tilesets", "b.png", "image/png", pngBytes(t, 1, 1)),
		upload("user", "images", "avatars", "c.png", "image/png", pngBytes(t, 1, 1)),
	} {
		if _, err := f.svc.Upload(ctx, in); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}
	rows, err := f.svc.List(ctx, repos.AssetFilter{Scope: "game", Type: "image", Category: "avatars"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].Scope != "game" || rows[0].Category != "avatars" {
		t.Fatalf("List: got=%v", rows)
	}
	if rows, _ := f.svc.List(ctx, repos.AssetFilter{Scope: "game"}); len(rows) != 2 {
		t.Fatalf("List(scope): want=2 got=%d", len(rows))
	}
}

func TestGetByIDUnknownIsNotFound(t *testing.T) {
	f := newAssetFixture(t)
	if _, err := f.svc.GetByID(context.Background(), uuid.New()); !apierr.IsNotFound(err) {
		t.Fatalf("GetByID: want not found got=%v", err)
	}
}

func TestSweepOrphansRemovesOnlyOldUnreferencedFiles(t *testing.T) {
	f := newAssetFixture(t)
	ctx := context.Background()
	kept, err := f.svc.Upload(ctx, upload("game", "images", "ui", "kept.png", "image/png", pngBytes(t, 1, 1)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := f.store.Create(ctx, "game/images/ui/1-orphan.png", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Create orphan: %v", err)
	}
	if _, err := f.store.Create(ctx, "game/images/ui/2-fresh.png", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Create fresh: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"1-orphan.png", kept.Filename} {
		if err := os.Chtimes(filepath.Join(f.root, "game", "images", "ui", name), old, old); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	report, err := f.svc.SweepOrphans(ctx, true)
	if err != nil {
		t.Fatalf("SweepOrphans(dry): %v", err)
	}
	if report.Scanned != 3 || len(report.Orphans) != 1 || report.Orphans[0] != "game/images/ui/1-orphan.png" || report.Removed != 0 {
		t.Fatalf("dry report: %+v", report)
	}

	report, err = f.svc.SweepOrphans(ctx, false)
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if report.Removed != 1 {
		t.Fatalf("Removed: want=1 got=%d", report.Removed)
	}
	if _, err := f.store.Open(ctx, "game/images/ui/1-orphan.png"); !errors.Is(err, objstore.ErrNotExist) {
		t.Fatalf("orphan should be gone: %v", err)
	}
	if countFiles(t, f.root) != 2 {
		t.Fatalf("files left: want=2 got=%d", countFiles(t, f.root))
	}
}
