package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/visibility"
)

// feedService implements FeedService.
type feedService struct {
	reels    repository.ReelRepository
	graph    repository.GraphRepository
	relation relationLoader
}

// NewFeedService creates a new FeedService instance.
func NewFeedService(reels repository.ReelRepository, graph repository.GraphRepository, accounts repository.AccountRepository) FeedService {
	return &feedService{
		reels:    reels,
		graph:    graph,
		relation: relationLoader{graph: graph, accounts: accounts},
	}
}

// Explore returns the publicly eligible feed. Eligibility is enforced inside
// the repository query; no per-row resolution happens here.
func (s *feedService) Explore(ctx context.Context, f repository.ExploreFilter) ([]domain.ReelModel, int64, error) {
	return s.reels.ListExplore(ctx, f)
}

// FollowerFeed returns reels from accounts the viewer follows, plus the
// viewer's own, minus anyone in the viewer's block set. An empty allowed set
// is an empty page, not an error.
func (s *feedService) FollowerFeed(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.ReelModel, int64, error) {
	followed, err := s.graph.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	blockedIDs, err := s.graph.ListBlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	blocked := make(map[uint64]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}

	allowed := make([]uint64, 0, len(followed)+1)
	for _, id := range followed {
		if _, hidden := blocked[id]; !hidden {
			allowed = append(allowed, id)
		}
	}
	allowed = append(allowed, viewerID)

	return s.reels.ListByOwners(ctx, allowed,
		[]domain.ReelVisibility{domain.ReelPublic, domain.ReelFollowers}, p)
}

// ProfileFeed lists one owner's reels. The relation is resolved once into a
// visibility-set filter; the query does the rest.
func (s *feedService) ProfileFeed(ctx context.Context, viewerID, ownerID uint64, p pagination.Params) ([]domain.ReelModel, int64, error) {
	rel, err := s.relation.load(ctx, viewerID, ownerID)
	if err != nil {
		return nil, 0, err
	}

	set, err := visibility.ReelProfileSet(rel)
	if err != nil {
		if errors.Is(err, visibility.ErrHidden) {
			return nil, 0, ErrHiddenProfile
		}
		return nil, 0, err
	}

	return s.reels.ListByOwner(ctx, ownerID, set, p)
}

// GetReel loads a single reel, applying the full row-wise visibility
// decision.
func (s *feedService) GetReel(ctx context.Context, viewerID, reelID uint64) (*domain.ReelModel, error) {
	reel, err := s.reels.Get(ctx, reelID)
	if err != nil {
		if errors.Is(err, repository.ErrReelNotFound) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}

	rel, err := s.relation.load(ctx, viewerID, reel.OwnerID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewReel(reel.Visibility, rel) {
		return nil, ErrForbidden
	}
	return reel, nil
}

// Ensure interface is satisfied at compile time.
var _ FeedService = (*feedService)(nil)
