package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/service"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
	"github.com/trailgram/social-graph-service/pkg/middleware"
	"github.com/trailgram/social-graph-service/pkg/response"
)

// ProfileMemories handles GET /api/v1/memory/user/:userId.
func (h *Handler) ProfileMemories(c *gin.Context) {
	ctx := c.Request.Context()

	viewerID := middleware.GetUserID(c)
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	p := pageParams(c)

	memories, total, err := h.memory.ProfileMemories(ctx, viewerID, ownerID, p)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHiddenProfile):
			response.Forbidden(c, "profile is not visible")
		default:
			pkglog.Ctx(ctx).Error().Err(err).
				Uint64(pkglog.FieldUserID, viewerID).
				Uint64(pkglog.FieldTargetID, ownerID).
				Msg("profile memories failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "memories", pagination.Wrap(memories, total, p))
}

// GetMemory handles GET /api/v1/memory/:id.
func (h *Handler) GetMemory(c *gin.Context) {
	ctx := c.Request.Context()

	viewerID := middleware.GetUserID(c)
	memoryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	memory, err := h.memory.GetMemory(ctx, viewerID, memoryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemoryNotFound):
			response.NotFound(c, "memory folder not found")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, "memory folder is not visible")
		default:
			pkglog.Ctx(ctx).Error().Err(err).
				Uint64(pkglog.FieldMemoryID, memoryID).
				Msg("get memory failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "memory", memory)
}
