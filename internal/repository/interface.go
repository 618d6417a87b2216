package repository

import (
	"context"
	"errors"
	"time"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
)

var (
	ErrFollowNotFound  = errors.New("follow relationship not found")
	ErrBlockNotFound   = errors.New("block not found")
	ErrRequestNotFound = errors.New("follow request not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrReelNotFound    = errors.New("reel not found")
	ErrMemoryNotFound  = errors.New("memory folder not found")
)

// GraphRepository defines persistence operations for the social graph:
// follow edges, block edges, and follow requests. Mutations are idempotent
// find-or-create/delete primitives backed by unique pair indexes; concurrent
// duplicate-key conflicts are absorbed as "already in desired state".
type GraphRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint64) error
	Unfollow(ctx context.Context, followerID, followeeID uint64) error
	IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error)
	ListFollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error)
	CountFollowers(ctx context.Context, userID uint64) (int64, error)
	CountFollowing(ctx context.Context, userID uint64) (int64, error)

	// Block cascades in the same transaction: it removes follow edges and
	// follow requests in both directions between the pair.
	Block(ctx context.Context, blockerID, blockedID uint64) error
	Unblock(ctx context.Context, blockerID, blockedID uint64) error
	IsBlockedEither(ctx context.Context, a, b uint64) (bool, error)
	// ListBlockedIDs returns the union of accounts the viewer blocked and
	// accounts that blocked the viewer. Computed once per request and reused.
	ListBlockedIDs(ctx context.Context, viewerID uint64) ([]uint64, error)
	ListBlockedAccounts(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.BlockModel, int64, error)

	CreateFollowRequest(ctx context.Context, requesterID, targetID uint64) (*domain.FollowRequestModel, error)
	GetFollowRequest(ctx context.Context, id uint64) (*domain.FollowRequestModel, error)
	SetRequestStatus(ctx context.Context, id uint64, status domain.RequestStatus) error
	ListIncomingRequests(ctx context.Context, targetID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error)
	ListOutgoingRequests(ctx context.Context, requesterID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error)
}

// AccountRepository maintains the local account replica. Get is consulted by
// visibility checks; Upsert/Delete are driven by the user-events consumer.
type AccountRepository interface {
	Get(ctx context.Context, id uint64) (*domain.AccountModel, error)
	Upsert(ctx context.Context, account *domain.AccountModel) error
	Delete(ctx context.Context, id uint64) error
}

// ExploreSort selects the ordering key for the explore feed.
type ExploreSort string

const (
	SortRecent  ExploreSort = "recent"
	SortWasHere ExploreSort = "was_here"
)

// ExploreFilter narrows the explore feed query. Zero values mean "no filter".
type ExploreFilter struct {
	OwnerID uint64
	Search  string
	From    *time.Time
	To      *time.Time
	Sort    ExploreSort
	Page    pagination.Params
}

// ReelRepository defines read queries over reels plus the geo candidate
// scan. All list queries are pre-filtered at the SQL level; row-wise
// visibility evaluation happens only for single-item reads.
type ReelRepository interface {
	Get(ctx context.Context, id uint64) (*domain.ReelModel, error)
	// ListExplore returns publicly eligible reels: visibility = public and
	// owner account not private.
	ListExplore(ctx context.Context, f ExploreFilter) ([]domain.ReelModel, int64, error)
	// ListByOwners powers the follower feed. An empty owner set yields an
	// empty page.
	ListByOwners(ctx context.Context, ownerIDs []uint64, visibility []domain.ReelVisibility, p pagination.Params) ([]domain.ReelModel, int64, error)
	// ListByOwner powers the per-profile feed with a precomputed
	// visibility-set filter.
	ListByOwner(ctx context.Context, ownerID uint64, visibility []domain.ReelVisibility, p pagination.Params) ([]domain.ReelModel, int64, error)
	// ListGeoCandidates returns publicly eligible reels with coordinates,
	// optionally restricted to a bounding box.
	ListGeoCandidates(ctx context.Context, bounds *geo.Bounds) ([]domain.ReelModel, error)
}

// MemoryRepository defines read queries over memory folders.
type MemoryRepository interface {
	Get(ctx context.Context, id uint64) (*domain.MemoryModel, error)
	ListByOwner(ctx context.Context, ownerID uint64, privacy []domain.MemoryPrivacy, p pagination.Params) ([]domain.MemoryModel, int64, error)
}

// EngagementRepository implements the idempotent toggle contract. Toggle
// flips the (user, reel, kind) fact and returns the post-state along with the
// live total for the reel. The unique live-row index serializes concurrent
// toggles of the same pair.
type EngagementRepository interface {
	Toggle(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (active bool, total int64, err error)
	IsActive(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (bool, error)
	CountActive(ctx context.Context, reelID uint64, kind domain.EngagementKind) (int64, error)
}
