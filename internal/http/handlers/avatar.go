package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	"github.com/yungbote/gamehub-backend/internal/http/response"
	"github.com/yungbote/gamehub-backend/internal/services"
)

type AvatarHandler struct {
	avatars services.AvatarService
}

func NewAvatarHandler(avatars services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

func (h *AvatarHandler) Create(c *gin.Context) {
	var req struct {
		Name       string    `json:"name"`
		WalkFileID uuid.UUID `json:"walk_file_id"`
		IdleFileID uuid.UUID `json:"idle_file_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	avatar, err := h.avatars.Create(c.Request.Context(), &types.Avatar{
		Name:       req.Name,
		WalkFileID: req.WalkFileID,
		IdleFileID: req.IdleFileID,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, avatar)
}

func (h *AvatarHandler) List(c *gin.Context) {
	rows, err := h.avatars.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *AvatarHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	avatar, err := h.avatars.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, avatar)
}

func (h *AvatarHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.avatars.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Avatar deleted")
}
