package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/consumer"
	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
)

var (
	ErrSelfFollow        = errors.New("cannot follow yourself")
	ErrSelfBlock         = errors.New("cannot block yourself")
	ErrSelfRequest       = errors.New("cannot send a follow request to yourself")
	ErrNotFollowing      = errors.New("not following")
	ErrNotBlocked        = errors.New("not blocked")
	ErrBlocked           = errors.New("interaction not permitted between these accounts")
	ErrForbidden         = errors.New("content not visible to viewer")
	ErrHiddenProfile     = errors.New("profile hidden from viewer")
	ErrNotRequestTarget  = errors.New("only the request target may respond")
	ErrRequestNotPending = errors.New("follow request already handled")
	ErrUserNotFound      = errors.New("user not found")
	ErrReelNotFound      = errors.New("reel not found")
	ErrMemoryNotFound    = errors.New("memory folder not found")
	ErrRequestNotFound   = errors.New("follow request not found")
)

// FollowState is the outcome of a follow action.
type FollowState string

const (
	// StateFollowing means the follow edge now exists.
	StateFollowing FollowState = "following"
	// StateRequested means the target is private and a pending follow
	// request was created instead of an edge.
	StateRequested FollowState = "requested"
)

// SocialService implements the social graph operations: follow, block, and
// the follow-request state machine. It also consumes identity-service user
// events to maintain the account replica.
type SocialService interface {
	Follow(ctx context.Context, followerID, targetID uint64) (FollowState, error)
	Unfollow(ctx context.Context, followerID, targetID uint64) error
	Block(ctx context.Context, blockerID, targetID uint64) error
	Unblock(ctx context.Context, blockerID, targetID uint64) error
	ListBlocked(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.BlockModel, int64, error)

	FollowCounts(ctx context.Context, userID uint64) (followers, following int64, err error)

	RequestFollow(ctx context.Context, requesterID, targetID uint64) (*domain.FollowRequestModel, error)
	RespondToRequest(ctx context.Context, responderID, requestID uint64, accept bool) error
	ListIncomingRequests(ctx context.Context, targetID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error)
	ListOutgoingRequests(ctx context.Context, requesterID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error)

	consumer.UserEventHandler
}

// FeedService composes the reel feeds, applying the visibility resolver at
// query level.
type FeedService interface {
	Explore(ctx context.Context, f repository.ExploreFilter) ([]domain.ReelModel, int64, error)
	FollowerFeed(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.ReelModel, int64, error)
	ProfileFeed(ctx context.Context, viewerID, ownerID uint64, p pagination.Params) ([]domain.ReelModel, int64, error)
	GetReel(ctx context.Context, viewerID, reelID uint64) (*domain.ReelModel, error)
}

// EngagementService implements visibility-gated engagement toggles and the
// cached was-here totals.
type EngagementService interface {
	Toggle(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (active bool, total int64, err error)
	WasHereCount(ctx context.Context, reelID uint64) (int64, error)
}

// GeoService implements nearby search and heatmap aggregation over publicly
// eligible reels.
type GeoService interface {
	Nearby(ctx context.Context, lat, lng, radiusKm float64, p pagination.Params) ([]domain.NearbyReel, int64, error)
	Heatmap(ctx context.Context, bounds *geo.Bounds, bucketSize float64) ([]geo.Bucket, error)
}

// MemoryService implements visibility-gated reads over memory folders.
type MemoryService interface {
	GetMemory(ctx context.Context, viewerID, memoryID uint64) (*domain.MemoryModel, error)
	ProfileMemories(ctx context.Context, viewerID, ownerID uint64, p pagination.Params) ([]domain.MemoryModel, int64, error)
}
