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

// Follow handles POST /api/v1/social/user/:id/follow.
// Following a private account creates a pending follow request instead of an
// edge; the response state distinguishes the two outcomes.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.social.Follow(ctx, followerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			response.Conflict(c, "cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrBlocked):
			response.Forbidden(c, "interaction not permitted")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, followerID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("follow failed")
			response.InternalError(c)
		}
		return
	}

	response.Created(c, "follow processed", gin.H{"state": state})
}

// Unfollow handles DELETE /api/v1/social/user/:id/follow.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.social.Unfollow(ctx, followerID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFollowing):
			response.Conflict(c, "not following")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, followerID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("unfollow failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "unfollowed", nil)
}

// FollowCounts handles GET /api/v1/social/user/:id/follow-counts.
func (h *Handler) FollowCounts(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	followers, following, err := h.social.FollowCounts(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldTargetID, userID).Msg("follow counts failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "follow counts", gin.H{
		"followers": followers,
		"following": following,
	})
}

// RequestFollow handles POST /api/v1/social/user/:id/follow-request.
func (h *Handler) RequestFollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	requesterID := middleware.GetUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	req, err := h.social.RequestFollow(ctx, requesterID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRequest):
			response.Conflict(c, "cannot send a follow request to yourself")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrBlocked):
			response.Forbidden(c, "interaction not permitted")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, requesterID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("follow request failed")
			response.InternalError(c)
		}
		return
	}

	response.Created(c, "follow request created", req)
}

// ListIncomingRequests handles GET /api/v1/social/follow-requests.
func (h *Handler) ListIncomingRequests(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	p := pageParams(c)

	requests, total, err := h.social.ListIncomingRequests(ctx, userID, p)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldUserID, userID).Msg("list incoming requests failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "follow requests", pagination.Wrap(requests, total, p))
}

// ListSentRequests handles GET /api/v1/social/follow-requests/sent.
func (h *Handler) ListSentRequests(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	p := pageParams(c)

	requests, total, err := h.social.ListOutgoingRequests(ctx, userID, p)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldUserID, userID).Msg("list sent requests failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "sent follow requests", pagination.Wrap(requests, total, p))
}

type respondRequest struct {
	Action string `json:"action" binding:"required"`
}

// RespondToRequest handles POST /api/v1/social/follow-requests/:id/respond.
// Only the request's target may respond, and only while the request is
// pending.
func (h *Handler) RespondToRequest(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	responderID := middleware.GetUserID(c)
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body respondRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "action is required", nil)
		return
	}

	var accept bool
	switch body.Action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		response.BadRequest(c, "action must be accept or reject", nil)
		return
	}

	if err := h.social.RespondToRequest(ctx, responderID, requestID, accept); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFound(c, "follow request not found")
		case errors.Is(err, service.ErrNotRequestTarget):
			response.Forbidden(c, "only the request target may respond")
		case errors.Is(err, service.ErrRequestNotPending):
			response.Conflict(c, "follow request already handled")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, responderID).
				Msg("respond to follow request failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "follow request "+body.Action+"ed", nil)
}

// Block handles POST /api/v1/social/user/:id/block.
// Blocking cascades: follow edges and pending requests between the pair are
// removed in the same unit of work.
func (h *Handler) Block(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	blockerID := middleware.GetUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.social.Block(ctx, blockerID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfBlock):
			response.BadRequest(c, "cannot block yourself", nil)
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, blockerID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("block failed")
			response.InternalError(c)
		}
		return
	}

	response.Created(c, "user blocked", nil)
}

// Unblock handles POST /api/v1/social/user/:id/unblock.
func (h *Handler) Unblock(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	blockerID := middleware.GetUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.social.Unblock(ctx, blockerID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotBlocked):
			response.Conflict(c, "user is not blocked")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, blockerID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("unblock failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "user unblocked", nil)
}

// ListBlocked handles GET /api/v1/social/user/blocked.
// Only the caller's own outgoing blocks are listed.
func (h *Handler) ListBlocked(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	p := pageParams(c)

	blocks, total, err := h.social.ListBlocked(ctx, userID, p)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldUserID, userID).Msg("list blocked failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "blocked users", pagination.Wrap(blocks, total, p))
}
