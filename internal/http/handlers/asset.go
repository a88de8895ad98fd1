package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/gamehub-backend/internal/data/repos"
	"github.com/yungbote/gamehub-backend/internal/http/response"
	"github.com/yungbote/gamehub-backend/internal/observability"
	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/services"
)

const (
	MsgUploadSuccess = "File uploaded successfully."
	MsgDeleteSuccess = "File deleted successfully."

	// multipartOverhead covers the boundary and text fields around the file part.
	multipartOverhead = 1 << 20
)

type AssetHandler struct {
	log      *logger.Logger
	assets   services.AssetService
	metrics  *observability.Metrics
	maxBytes int64
}

func NewAssetHandler(log *logger.Logger, assets services.AssetService, metrics *observability.Metrics, maxBytes int64) *AssetHandler {
	return &AssetHandler{
		log:      log.With("handler", "AssetHandler"),
		assets:   assets,
		metrics:  metrics,
		maxBytes: maxBytes,
	}
}

// POST /api/assets/:scope/:type/:category/upload
func (h *AssetHandler) Upload(c *gin.Context) {
	scope := c.Param("scope")
	if err := h.assets.CheckSegments(scope, c.Param("type"), c.Param("category")); err != nil {
		h.fail(c, scope, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			err = fmt.Errorf("File exceeds %d bytes", h.maxBytes)
		} else if errors.Is(err, http.ErrMissingFile) {
			err = errors.New("No file uploaded")
		}
		h.fail(c, scope, apierr.Validation(services.MsgUploadError, err))
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.fail(c, scope, apierr.Persistence(services.MsgUploadError, err))
		return
	}
	defer file.Close()

	in := services.UploadInput{
		Scope:        scope,
		Type:         c.Param("type"),
		Category:     c.Param("category"),
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Body:         file,
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		Dimensions:   c.PostForm("dimensions"),
	}
	if in.FrameWidth, err = optionalInt(c.PostForm("frame_width")); err != nil {
		h.fail(c, scope, apierr.Validation(services.MsgUploadError, fmt.Errorf("frame_width: %w", err)))
		return
	}
	if in.FrameHeight, err = optionalInt(c.PostForm("frame_height")); err != nil {
		h.fail(c, scope, apierr.Validation(services.MsgUploadError, fmt.Errorf("frame_height: %w", err)))
		return
	}
	in.UploadedBy = ctxutil.UserID(c.Request.Context())
	if in.UploadedBy == nil {
		if raw := strings.TrimSpace(c.PostForm("uploaded_by")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				h.fail(c, scope, apierr.Validation(services.MsgUploadError, errors.New("uploaded_by must be a UUID")))
				return
			}
			in.UploadedBy = &id
		}
	}

	row, err := h.assets.Upload(c.Request.Context(), in)
	if err != nil {
		h.fail(c, scope, err)
		return
	}
	h.metrics.ObserveUpload(scope, "ok")
	response.RespondOK(c, gin.H{"message": MsgUploadSuccess, "file": row})
}

func (h *AssetHandler) fail(c *gin.Context, scope string, err error) {
	h.metrics.ObserveUpload(scope, fmt.Sprintf("%dxx", apierr.Status(err)/100))
	response.RespondAPIError(c, err)
}

// DELETE /api/assets/:scope/:type/:category/:filename
func (h *AssetHandler) Delete(c *gin.Context) {
	err := h.assets.Delete(c.Request.Context(), c.Param("scope"), c.Param("type"), c.Param("category"), c.Param("filename"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, MsgDeleteSuccess)
}

// GET /api/assets and GET /api/assets/:scope[/:type[/:category]].
// A lone segment that parses as a UUID is an id lookup.
func (h *AssetHandler) List(c *gin.Context) {
	scope := c.Param("scope")
	if c.Param("type") == "" {
		if id, err := uuid.Parse(scope); err == nil {
			h.get(c, id)
			return
		}
	}
	rows, err := h.assets.List(c.Request.Context(), repos.AssetFilter{
		Scope:    scope,
		Type:     c.Param("type"),
		Category: c.Param("category"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *AssetHandler) get(c *gin.Context, id uuid.UUID) {
	row, err := h.assets.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// POST /api/assets/sweep?dry_run=true
func (h *AssetHandler) Sweep(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "true"))
	report, err := h.assets.SweepOrphans(c.Request.Context(), dryRun)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("must be an integer")
	}
	return &n, nil
}
