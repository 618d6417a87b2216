package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/service"
	"github.com/trailgram/social-graph-service/pkg/middleware"
	"github.com/trailgram/social-graph-service/pkg/response"
)

// Handler handles HTTP requests for the social graph service.
type Handler struct {
	social         service.SocialService
	feed           service.FeedService
	engagement     service.EngagementService
	geo            service.GeoService
	memory         service.MemoryService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	social service.SocialService,
	feed service.FeedService,
	engagement service.EngagementService,
	geoSvc service.GeoService,
	memory service.MemoryService,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		social:         social,
		feed:           feed,
		engagement:     engagement,
		geo:            geoSvc,
		memory:         memory,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	requireAuth := h.authMiddleware.RequireAuth()
	optionalAuth := h.authMiddleware.OptionalAuth()

	api := r.Group("/api/v1")
	{
		reel := api.Group("/reel")
		{
			reel.GET("", optionalAuth, h.Explore)
			reel.GET("/feed", requireAuth, h.FollowerFeed)
			reel.GET("/nearby", optionalAuth, h.Nearby)
			reel.GET("/heatmap", optionalAuth, h.Heatmap)
			reel.GET("/user/:userId", optionalAuth, h.ProfileReels)
			reel.GET("/:id", optionalAuth, h.GetReel)
			reel.GET("/:id/was-here-count", optionalAuth, h.WasHereCount)
			reel.POST("/:id/was-here", requireAuth, h.ToggleWasHere)
			reel.POST("/:id/like", requireAuth, h.ToggleLike)
		}

		memory := api.Group("/memory")
		{
			memory.GET("/user/:userId", optionalAuth, h.ProfileMemories)
			memory.GET("/:id", optionalAuth, h.GetMemory)
		}

		// Profile summary is public content; no identity needed.
		api.GET("/social/user/:id/follow-counts", optionalAuth, h.FollowCounts)

		social := api.Group("/social", requireAuth)
		{
			social.POST("/user/:id/follow", h.Follow)
			social.DELETE("/user/:id/follow", h.Unfollow)
			social.POST("/user/:id/follow-request", h.RequestFollow)
			social.GET("/follow-requests", h.ListIncomingRequests)
			social.GET("/follow-requests/sent", h.ListSentRequests)
			social.POST("/follow-requests/:id/respond", h.RespondToRequest)
			social.POST("/user/:id/block", h.Block)
			social.POST("/user/:id/unblock", h.Unblock)
			social.GET("/user/blocked", h.ListBlocked)
		}
	}
}

// paramID parses a numeric path parameter. On failure it writes the 400
// response and reports false.
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// pageParams reads and normalizes page/limit query parameters.
func pageParams(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.Normalize(page, limit)
}
