package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/consumer"
	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/events"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
)

// socialService implements SocialService.
type socialService struct {
	graph    repository.GraphRepository
	accounts repository.AccountRepository
	events   events.Publisher
}

// NewSocialService creates a new SocialService instance.
func NewSocialService(graph repository.GraphRepository, accounts repository.AccountRepository, publisher events.Publisher) SocialService {
	return &socialService{
		graph:    graph,
		accounts: accounts,
		events:   publisher,
	}
}

// publish emits a social event without failing the request on broker errors.
func (s *socialService) publish(ctx context.Context, event *events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		pkglog.Ctx(ctx).Warn().Err(err).Str("type", event.Type).Msg("failed to publish social event")
	}
}

// Follow creates the follow edge for public targets. For private targets it
// routes through the follow-request state machine and reports "requested".
func (s *socialService) Follow(ctx context.Context, followerID, targetID uint64) (FollowState, error) {
	l := pkglog.Ctx(ctx)

	if followerID == targetID {
		return "", ErrSelfFollow
	}

	target, err := s.accounts.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	blocked, err := s.graph.IsBlockedEither(ctx, followerID, targetID)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", ErrBlocked
	}

	if target.IsPrivate {
		if _, err := s.graph.CreateFollowRequest(ctx, followerID, targetID); err != nil {
			l.Error().Err(err).
				Uint64(pkglog.FieldUserID, followerID).
				Uint64(pkglog.FieldTargetID, targetID).
				Msg("failed to create follow request")
			return "", err
		}
		event := events.New(events.FollowRequestCreated, followerID)
		event.TargetID = targetID
		s.publish(ctx, event)
		return StateRequested, nil
	}

	if err := s.graph.Follow(ctx, followerID, targetID); err != nil {
		l.Error().Err(err).
			Uint64(pkglog.FieldUserID, followerID).
			Uint64(pkglog.FieldTargetID, targetID).
			Msg("failed to follow user")
		return "", err
	}

	event := events.New(events.FollowCreated, followerID)
	event.TargetID = targetID
	s.publish(ctx, event)
	return StateFollowing, nil
}

// Unfollow removes the follow edge.
func (s *socialService) Unfollow(ctx context.Context, followerID, targetID uint64) error {
	if err := s.graph.Unfollow(ctx, followerID, targetID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		return err
	}

	event := events.New(events.FollowRemoved, followerID)
	event.TargetID = targetID
	s.publish(ctx, event)
	return nil
}

// Block creates the block edge and cascades: follow edges and follow
// requests between the pair die in the same unit of work.
func (s *socialService) Block(ctx context.Context, blockerID, targetID uint64) error {
	if blockerID == targetID {
		return ErrSelfBlock
	}

	if _, err := s.accounts.Get(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.graph.Block(ctx, blockerID, targetID); err != nil {
		pkglog.Ctx(ctx).Error().Err(err).
			Uint64(pkglog.FieldUserID, blockerID).
			Uint64(pkglog.FieldTargetID, targetID).
			Msg("failed to block user")
		return err
	}

	event := events.New(events.BlockCreated, blockerID)
	event.TargetID = targetID
	s.publish(ctx, event)
	return nil
}

// Unblock removes the caller's block edge.
func (s *socialService) Unblock(ctx context.Context, blockerID, targetID uint64) error {
	if err := s.graph.Unblock(ctx, blockerID, targetID); err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return ErrNotBlocked
		}
		return err
	}
	return nil
}

// ListBlocked returns the caller's outgoing blocks.
func (s *socialService) ListBlocked(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.BlockModel, int64, error) {
	return s.graph.ListBlockedAccounts(ctx, viewerID, p)
}

// FollowCounts returns the profile's follower/following summary.
func (s *socialService) FollowCounts(ctx context.Context, userID uint64) (int64, int64, error) {
	if _, err := s.accounts.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return 0, 0, ErrUserNotFound
		}
		return 0, 0, err
	}

	followers, err := s.graph.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.graph.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// RequestFollow creates (or resurrects) the pending follow request.
func (s *socialService) RequestFollow(ctx context.Context, requesterID, targetID uint64) (*domain.FollowRequestModel, error) {
	if requesterID == targetID {
		return nil, ErrSelfRequest
	}

	if _, err := s.accounts.Get(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	blocked, err := s.graph.IsBlockedEither(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	req, err := s.graph.CreateFollowRequest(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}

	event := events.New(events.FollowRequestCreated, requesterID)
	event.TargetID = targetID
	s.publish(ctx, event)
	return req, nil
}

// RespondToRequest accepts or rejects a pending request. Only the request's
// target may respond. Accepting creates the follow edge via find-or-create,
// tolerating an edge that already exists from a direct-follow race.
func (s *socialService) RespondToRequest(ctx context.Context, responderID, requestID uint64, accept bool) error {
	req, err := s.graph.GetFollowRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	if req.TargetID != responderID {
		return ErrNotRequestTarget
	}
	if req.Status != domain.RequestPending {
		return ErrRequestNotPending
	}

	status := domain.RequestRejected
	if accept {
		status = domain.RequestAccepted
	}
	if err := s.graph.SetRequestStatus(ctx, requestID, status); err != nil {
		return err
	}

	if accept {
		if err := s.graph.Follow(ctx, req.RequesterID, req.TargetID); err != nil {
			return err
		}
	}

	event := events.New(events.FollowRequestResponded, responderID)
	event.TargetID = req.RequesterID
	event.Detail = string(status)
	s.publish(ctx, event)
	return nil
}

// ListIncomingRequests returns pending requests addressed to the caller.
func (s *socialService) ListIncomingRequests(ctx context.Context, targetID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error) {
	return s.graph.ListIncomingRequests(ctx, targetID, p)
}

// ListOutgoingRequests returns pending requests the caller has sent.
func (s *socialService) ListOutgoingRequests(ctx context.Context, requesterID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error) {
	return s.graph.ListOutgoingRequests(ctx, requesterID, p)
}

// HandleUserEvent applies an identity-service account change to the local
// replica.
func (s *socialService) HandleUserEvent(ctx context.Context, event *consumer.UserEvent) error {
	switch event.Type {
	case consumer.UserCreated, consumer.UserUpdated:
		return s.accounts.Upsert(ctx, &domain.AccountModel{
			ID:        event.UserID,
			Username:  event.Username,
			IsPrivate: event.IsPrivate,
		})
	case consumer.UserDeleted:
		return s.accounts.Delete(ctx, event.UserID)
	default:
		pkglog.Ctx(ctx).Warn().Str("type", event.Type).Msg("unknown user event, skipping")
		return nil
	}
}

// Ensure interface is satisfied at compile time.
var _ SocialService = (*socialService)(nil)
