package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/service"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
	"github.com/trailgram/social-graph-service/pkg/middleware"
	"github.com/trailgram/social-graph-service/pkg/response"
)

// parseTime accepts RFC3339 or a bare date for the explore range filters.
func parseTime(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	return nil, false
}

// Explore handles GET /api/v1/reel.
// The result set is publicly eligible content only; the viewer's identity
// never changes it.
func (h *Handler) Explore(c *gin.Context) {
	ctx := c.Request.Context()

	filter := repository.ExploreFilter{
		Search: c.Query("search"),
		Page:   pageParams(c),
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "userId must be a positive integer", nil)
			return
		}
		filter.OwnerID = id
	}
	from, ok := parseTime(c.Query("from"))
	if !ok {
		response.BadRequest(c, "from must be an RFC3339 timestamp or date", nil)
		return
	}
	to, ok := parseTime(c.Query("to"))
	if !ok {
		response.BadRequest(c, "to must be an RFC3339 timestamp or date", nil)
		return
	}
	filter.From, filter.To = from, to

	switch sort := c.Query("sort"); sort {
	case "", string(repository.SortRecent):
		filter.Sort = repository.SortRecent
	case string(repository.SortWasHere):
		filter.Sort = repository.SortWasHere
	default:
		response.BadRequest(c, "sort must be recent or was_here", nil)
		return
	}

	reels, total, err := h.feed.Explore(ctx, filter)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Msg("explore feed failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "reels", pagination.Wrap(reels, total, filter.Page))
}

// FollowerFeed handles GET /api/v1/reel/feed.
func (h *Handler) FollowerFeed(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middleware.GetUserID(c)
	p := pageParams(c)

	reels, total, err := h.feed.FollowerFeed(ctx, viewerID, p)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldUserID, viewerID).Msg("follower feed failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "feed", pagination.Wrap(reels, total, p))
}

// Nearby handles GET /api/v1/reel/nearby.
// lat/lng are required; a missing or unparseable radius falls back to the
// default rather than failing.
func (h *Handler) Nearby(c *gin.Context) {
	ctx := c.Request.Context()

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		response.BadRequest(c, "lat and lng must be valid coordinates", nil)
		return
	}

	radius, err := strconv.ParseFloat(c.Query("radius"), 64)
	if err != nil || radius <= 0 {
		radius = geo.DefaultRadiusKm
	}

	p := pageParams(c)
	reels, total, err := h.geo.Nearby(ctx, lat, lng, radius, p)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Msg("nearby search failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "nearby reels", pagination.Wrap(reels, total, p))
}

// Heatmap handles GET /api/v1/reel/heatmap.
// Absent bounds yields an empty map; partial bounds is a malformed request.
func (h *Handler) Heatmap(c *gin.Context) {
	ctx := c.Request.Context()

	bounds, err := geo.ParseBounds(c.Query("bounds"))
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrPartialBounds):
			response.BadRequest(c, "bounds must include both northEast and southWest corners", nil)
		default:
			response.BadRequest(c, "bounds must be valid JSON", nil)
		}
		return
	}

	bucketSize, err := strconv.ParseFloat(c.Query("bucketSize"), 64)
	if err != nil || bucketSize <= 0 {
		bucketSize = 0.5
	}

	buckets, err := h.geo.Heatmap(ctx, bounds, bucketSize)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Msg("heatmap aggregation failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "heatmap", buckets)
}

// ProfileReels handles GET /api/v1/reel/user/:userId.
func (h *Handler) ProfileReels(c *gin.Context) {
	ctx := c.Request.Context()

	viewerID := middleware.GetUserID(c)
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	p := pageParams(c)

	reels, total, err := h.feed.ProfileFeed(ctx, viewerID, ownerID, p)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHiddenProfile):
			response.Forbidden(c, "profile is not visible")
		default:
			pkglog.Ctx(ctx).Error().Err(err).
				Uint64(pkglog.FieldUserID, viewerID).
				Uint64(pkglog.FieldTargetID, ownerID).
				Msg("profile feed failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "reels", pagination.Wrap(reels, total, p))
}

// GetReel handles GET /api/v1/reel/:id.
func (h *Handler) GetReel(c *gin.Context) {
	ctx := c.Request.Context()

	viewerID := middleware.GetUserID(c)
	reelID, ok := paramID(c, "id")
	if !ok {
		return
	}

	reel, err := h.feed.GetReel(ctx, viewerID, reelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReelNotFound):
			response.NotFound(c, "reel not found")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, "reel is not visible")
		default:
			pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("get reel failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "reel", reel)
}

// WasHereCount handles GET /api/v1/reel/:id/was-here-count.
// The aggregate is public; reads are served from the count cache and feed the
// hot-reel tracking the reconciler consumes.
func (h *Handler) WasHereCount(c *gin.Context) {
	ctx := c.Request.Context()

	reelID, ok := paramID(c, "id")
	if !ok {
		return
	}

	count, err := h.engagement.WasHereCount(ctx, reelID)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("was-here count failed")
		response.InternalError(c)
		return
	}

	response.Success(c, "was-here count", gin.H{"count": count})
}

// ToggleWasHere handles POST /api/v1/reel/:id/was-here.
func (h *Handler) ToggleWasHere(c *gin.Context) {
	h.toggle(c, domain.EngagementWasHere)
}

// ToggleLike handles POST /api/v1/reel/:id/like.
func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggle(c, domain.EngagementLike)
}

// toggle flips the engagement fact and reports the post-state.
func (h *Handler) toggle(c *gin.Context, kind domain.EngagementKind) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	userID := middleware.GetUserID(c)
	reelID, ok := paramID(c, "id")
	if !ok {
		return
	}

	active, total, err := h.engagement.Toggle(ctx, userID, reelID, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReelNotFound):
			response.NotFound(c, "reel not found")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, "reel is not visible")
		default:
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, userID).
				Uint64(pkglog.FieldReelID, reelID).
				Str("kind", string(kind)).
				Msg("engagement toggle failed")
			response.InternalError(c)
		}
		return
	}

	response.Success(c, "engagement toggled", gin.H{
		"active": active,
		"total":  total,
	})
}
