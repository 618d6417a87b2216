package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/events"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/store"
	"github.com/trailgram/social-graph-service/internal/visibility"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
)

// engagementService implements EngagementService.
type engagementService struct {
	engagements repository.EngagementRepository
	reels       repository.ReelRepository
	store       store.EngagementStore
	relation    relationLoader
	events      events.Publisher
}

// NewEngagementService creates a new EngagementService instance.
func NewEngagementService(
	engagements repository.EngagementRepository,
	reels repository.ReelRepository,
	graph repository.GraphRepository,
	accounts repository.AccountRepository,
	engagementStore store.EngagementStore,
	publisher events.Publisher,
) EngagementService {
	return &engagementService{
		engagements: engagements,
		reels:       reels,
		store:       engagementStore,
		relation:    relationLoader{graph: graph, accounts: accounts},
		events:      publisher,
	}
}

// Toggle flips the engagement fact after a visibility pre-check: toggling
// content the viewer cannot see fails before any row is touched.
func (s *engagementService) Toggle(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (bool, int64, error) {
	l := pkglog.Ctx(ctx)

	reel, err := s.reels.Get(ctx, reelID)
	if err != nil {
		if errors.Is(err, repository.ErrReelNotFound) {
			return false, 0, ErrReelNotFound
		}
		return false, 0, err
	}

	rel, err := s.relation.load(ctx, userID, reel.OwnerID)
	if err != nil {
		return false, 0, err
	}
	if !visibility.CanViewReel(reel.Visibility, rel) {
		return false, 0, ErrForbidden
	}

	active, total, err := s.engagements.Toggle(ctx, userID, reelID, kind)
	if err != nil {
		l.Error().Err(err).
			Uint64(pkglog.FieldUserID, userID).
			Uint64(pkglog.FieldReelID, reelID).
			Msg("engagement toggle failed")
		return false, 0, err
	}

	if kind == domain.EngagementWasHere {
		// The row change may still roll back with the request transaction,
		// so drop the cached total instead of writing the new one; the next
		// read repopulates it from whatever committed.
		if err := s.store.InvalidateWasHereCount(ctx, reelID); err != nil {
			l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("failed to invalidate cached was-here count")
		}
	}

	event := events.New(events.EngagementToggled, userID)
	event.ReelID = reelID
	event.Detail = string(kind)
	if err := s.events.Publish(ctx, event); err != nil {
		l.Warn().Err(err).Msg("failed to publish engagement event")
	}

	return active, total, nil
}

// WasHereCount returns the was-here total for a reel, cache first.
// It checks Redis, falls back to the DB on miss, populates Redis, and records
// a hot reel access either way.
func (s *engagementService) WasHereCount(ctx context.Context, reelID uint64) (int64, error) {
	l := pkglog.Ctx(ctx)

	// Best-effort hot key tracking.
	if err := s.store.RecordAccess(ctx, reelID); err != nil {
		l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("failed to record hot reel access")
	}

	count, found, err := s.store.GetWasHereCount(ctx, reelID)
	if err != nil {
		l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("redis get was-here count failed, falling back to db")
	}
	if found {
		return count, nil
	}

	count, err = s.engagements.CountActive(ctx, reelID, domain.EngagementWasHere)
	if err != nil {
		return 0, err
	}

	if err := s.store.SetWasHereCount(ctx, reelID, count); err != nil {
		l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("failed to populate was-here count cache")
	}

	return count, nil
}

// Ensure interface is satisfied at compile time.
var _ EngagementService = (*engagementService)(nil)
