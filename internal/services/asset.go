package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/assetpolicy"
	"github.com/yungbote/gamehub-backend/internal/data/repos"
	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/dbctx"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/platform/objstore"
	"github.com/yungbote/gamehub-backend/internal/validation"
)

const (
	MsgUploadError  = "File upload error"
	MsgFileNotFound = "File not found."

	createAttempts = 5
)

// UploadInput is one multipart upload after the transport layer has pulled
// it apart. Body must be rewindable; it is read more than once.
type UploadInput struct {
	Scope        string
	Type         string
	Category     string
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.ReadSeeker
	Name         string
	Description  string
	Dimensions   string
	FrameWidth   *int
	FrameHeight  *int
	UploadedBy   *uuid.UUID
}

type AssetService interface {
	// CheckSegments applies the upload policy to the path segments alone, so
	// callers can reject a request before reading its body.
	CheckSegments(scope, typ, category string) error
	Upload(ctx context.Context, in UploadInput) (*types.Asset, error)
	Delete(ctx context.Context, scope, typ, category, filename string) error
	List(ctx context.Context, filter repos.AssetFilter) ([]*types.Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Asset, error)
	SweepOrphans(ctx context.Context, dryRun bool) (*SweepReport, error)
}

type assetService struct {
	db     *gorm.DB
	log    *logger.Logger
	assets repos.AssetRepo
	store  objstore.Store
	policy assetpolicy.Policy
	clock  *millisClock
	grace  time.Duration
	now    func() time.Time
}

func NewAssetService(
	db *gorm.DB,
	log *logger.Logger,
	assetRepo repos.AssetRepo,
	store objstore.Store,
	policy assetpolicy.Policy,
	orphanGrace time.Duration,
) AssetService {
	return &assetService{
		db:     db,
		log:    log.With("service", "AssetService"),
		assets: assetRepo,
		store:  store,
		policy: policy,
		clock:  newMillisClock(),
		grace:  orphanGrace,
		now:    time.Now,
	}
}

func (s *assetService) CheckSegments(scope, typ, category string) error {
	if _, err := s.policy.Check(scope, typ, category); err != nil {
		return apierr.Validation(MsgUploadError, err)
	}
	return nil
}

func (s *assetService) Upload(ctx context.Context, in UploadInput) (*types.Asset, error) {
	typ, err := s.policy.Check(in.Scope, in.Type, in.Category)
	if err != nil {
		return nil, apierr.Validation(MsgUploadError, err)
	}
	if in.Body == nil {
		return nil, apierr.Validation(MsgUploadError, errors.New("No file uploaded"))
	}
	if in.Size > s.policy.Limit() {
		return nil, apierr.Validation(MsgUploadError, fmt.Errorf("File exceeds %d bytes", s.policy.Limit()))
	}

	dir := objstore.Key(in.Scope, typ, in.Category)
	if err := s.store.EnsureDir(ctx, dir); err != nil {
		s.log.Error("Ensure upload directory failed", "dir", dir, "error", err)
		return nil, apierr.Persistence(MsgUploadError, err)
	}

	mime, err := s.resolveMIME(in)
	if err != nil {
		return nil, apierr.Persistence(MsgUploadError, err)
	}
	if err := s.policy.CheckMIME(mime); err != nil {
		return nil, apierr.Validation(MsgUploadError, err)
	}

	dimensions := strings.TrimSpace(in.Dimensions)
	if dimensions == "" && typ == "images" {
		dimensions = detectDimensions(in.Body)
		if _, err := in.Body.Seek(0, io.SeekStart); err != nil {
			return nil, apierr.Persistence(MsgUploadError, err)
		}
	}

	filename, key, size, err := s.write(ctx, dir, in.OriginalName, in.Body)
	if err != nil {
		s.log.Error("Write upload failed", "dir", dir, "error", err)
		return nil, apierr.Persistence(MsgUploadError, err)
	}

	if typ == "json" {
		if err := s.checkTileMap(ctx, key); err != nil {
			s.log.Warn("Rejected map file left without metadata", "key", key, "error", err)
			return nil, err
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.OriginalName
	}
	row := &types.Asset{
		Filename:    filename,
		Name:        name,
		Type:        typ,
		Category:    in.Category,
		Scope:       in.Scope,
		Path:        s.store.PublicURL(key),
		Size:        size,
		MimeType:    mime,
		Dimensions:  optionalString(dimensions),
		FrameWidth:  in.FrameWidth,
		FrameHeight: in.FrameHeight,
		Description: optionalString(in.Description),
		UploadedBy:  in.UploadedBy,
	}
	if _, err := s.assets.Create(dbctx.New(ctx), []*types.Asset{row}); err != nil {
		s.log.Error("Asset metadata insert failed; file left without metadata", "key", key, "error", err)
		return nil, apierr.Persistence(MsgUploadError, err)
	}
	s.log.Info("Asset uploaded", "asset_id", row.ID, "key", key, "size", size)
	return row, nil
}

func (s *assetService) resolveMIME(in UploadInput) (string, error) {
	declared := strings.TrimSpace(in.MimeType)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared, nil
	}
	detected, err := mimetype.DetectReader(in.Body)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}
	if _, err := in.Body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return detected.String(), nil
}

// write stores body under dir with a fresh "<millis>-<name>" filename,
// moving to the next stamp whenever the key is already taken.
func (s *assetService) write(ctx context.Context, dir, originalName string, body io.ReadSeeker) (string, string, int64, error) {
	base := sanitizeFilename(originalName)
	for attempt := 0; attempt < createAttempts; attempt++ {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return "", "", 0, err
		}
		filename := fmt.Sprintf("%d-%s", s.clock.Next(), base)
		key := dir + "/" + filename
		n, err := s.store.Create(ctx, key, body)
		if errors.Is(err, objstore.ErrExists) {
			s.log.Warn("Upload filename taken, retrying", "key", key, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", "", 0, err
		}
		return filename, key, n, nil
	}
	return "", "", 0, fmt.Errorf("no free filename in %s after %d attempts", dir, createAttempts)
}

func (s *assetService) checkTileMap(ctx context.Context, key string) error {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		return apierr.Persistence(MsgUploadError, err)
	}
	defer rc.Close()
	doc, err := io.ReadAll(io.LimitReader(rc, s.policy.Limit()+1))
	if err != nil {
		return apierr.Persistence(MsgUploadError, err)
	}
	if err := validation.TileMap(doc); err != nil {
		if errors.Is(err, validation.ErrInvalidJSON) {
			return apierr.Validation(MsgUploadError, errors.New("Invalid JSON file"))
		}
		return apierr.Validation(MsgUploadError, err)
	}
	return nil
}

// Delete removes the metadata row and the file together. The row delete
// runs first inside a transaction; a failed file delete rolls it back.
func (s *assetService) Delete(ctx context.Context, scope, typ, category, filename string) error {
	typ = assetpolicy.NormalizeType(typ)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.assets.GetByLocation(dbc, scope, typ, category, filename)
		if err != nil {
			return apierr.Persistence("Error deleting file", err)
		}
		if row == nil {
			return apierr.NotFound(MsgFileNotFound)
		}
		n, err := s.assets.FullDeleteByID(dbc, row.ID)
		if err != nil {
			return apierr.Persistence("Error deleting file", err)
		}
		if n == 0 {
			return apierr.NotFound(MsgFileNotFound)
		}
		if err := s.store.Delete(ctx, row.Key()); err != nil {
			if errors.Is(err, objstore.ErrNotExist) {
				s.log.Warn("Asset row kept, file missing from store", "asset_id", row.ID, "key", row.Key())
				return apierr.NotFound(MsgFileNotFound)
			}
			return apierr.Persistence("Error deleting file", err)
		}
		s.log.Info("Asset deleted", "asset_id", row.ID, "key", row.Key())
		return nil
	})
}

func (s *assetService) List(ctx context.Context, filter repos.AssetFilter) ([]*types.Asset, error) {
	if filter.Type != "" {
		filter.Type = assetpolicy.NormalizeType(filter.Type)
	}
	rows, err := s.assets.List(dbctx.New(ctx), filter)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving files", err)
	}
	return rows, nil
}

func (s *assetService) GetByID(ctx context.Context, id uuid.UUID) (*types.Asset, error) {
	row, err := s.assets.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apierr.Persistence("Error retrieving file", err)
	}
	if row == nil {
		return nil, apierr.NotFound(MsgFileNotFound)
	}
	return row, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
