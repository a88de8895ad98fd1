package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/http/response"
	"github.com/yungbote/gamehub-backend/internal/services"
)

type mapRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	LayerFileIDs []uuid.UUID     `json:"layer_file_ids"`
	JSONFileID   *uuid.UUID      `json:"json_file_id"`
	Metadata     json.RawMessage `json:"metadata"`
}

func (r mapRequest) toMap() *types.Map {
	m := &types.Map{
		Name:         r.Name,
		Description:  r.Description,
		LayerFileIDs: datatypes.JSONSlice[uuid.UUID](r.LayerFileIDs),
		JSONFileID:   r.JSONFileID,
	}
	if len(r.Metadata) > 0 && string(r.Metadata) != "null" {
		m.Metadata = datatypes.JSON(r.Metadata)
	}
	return m
}

type MapHandler struct {
	maps        services.MapService
	teleporters services.TeleporterService
}

func NewMapHandler(maps services.MapService, teleporters services.TeleporterService) *MapHandler {
	return &MapHandler{maps: maps, teleporters: teleporters}
}

func (h *MapHandler) Create(c *gin.Context) {
	var req mapRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.maps.Create(c.Request.Context(), req.toMap())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, m)
}

func (h *MapHandler) List(c *gin.Context) {
	rows, err := h.maps.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *MapHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	m, err := h.maps.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, m)
}

func (h *MapHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req mapRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.maps.Update(c.Request.Context(), id, req.toMap())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, m)
}

func (h *MapHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.maps.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Map deleted")
}

// GET /api/maps/:id/teleporters
func (h *MapHandler) ListTeleporters(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.teleporters.ListByDestinationMap(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

type GridHandler struct {
	grids       services.GridService
	teleporters services.TeleporterService
}

func NewGridHandler(grids services.GridService, teleporters services.TeleporterService) *GridHandler {
	return &GridHandler{grids: grids, teleporters: teleporters}
}

func (h *GridHandler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	g, err := h.grids.Create(c.Request.Context(), raw)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, g)
}

func (h *GridHandler) List(c *gin.Context) {
	rows, err := h.grids.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *GridHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	g, err := h.grids.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, g)
}

func (h *GridHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	g, err := h.grids.Update(c.Request.Context(), id, raw)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, g)
}

func (h *GridHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.grids.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Grid deleted")
}

// GET /api/grids/:id/teleporters
func (h *GridHandler) ListTeleporters(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.teleporters.ListBySourceGrid(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

type teleporterRequest struct {
	Identifier          string          `json:"identifier"`
	SourceGridID        uuid.UUID       `json:"source_grid_id"`
	DestinationMapID    uuid.UUID       `json:"destination_map_id"`
	DestinationPosition json.RawMessage `json:"destination_position"`
}

func (r teleporterRequest) toTeleporter() *types.Teleporter {
	return &types.Teleporter{
		Identifier:          r.Identifier,
		SourceGridID:        r.SourceGridID,
		DestinationMapID:    r.DestinationMapID,
		DestinationPosition: datatypes.JSON(r.DestinationPosition),
	}
}

type TeleporterHandler struct {
	teleporters services.TeleporterService
}

func NewTeleporterHandler(teleporters services.TeleporterService) *TeleporterHandler {
	return &TeleporterHandler{teleporters: teleporters}
}

func (h *TeleporterHandler) Create(c *gin.Context) {
	var req teleporterRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teleporters.Create(c.Request.Context(), req.toTeleporter())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, t)
}

func (h *TeleporterHandler) List(c *gin.Context) {
	rows, err := h.teleporters.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *TeleporterHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.teleporters.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, t)
}

func (h *TeleporterHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req teleporterRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teleporters.Update(c.Request.Context(), id, req.toTeleporter())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, t)
}

func (h *TeleporterHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.teleporters.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Teleporter deleted")
}
