package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/visibility"
)

// relationLoader computes the viewer/owner Relation consumed by the
// visibility resolver. Loaded once per request and reused for every content
// row that request touches.
type relationLoader struct {
	graph    repository.GraphRepository
	accounts repository.AccountRepository
}

func (r relationLoader) load(ctx context.Context, viewerID, ownerID uint64) (visibility.Relation, error) {
	var rel visibility.Relation

	owner, err := r.accounts.Get(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return rel, err
		}
		// Replica lag: an unknown owner counts as not private.
	} else {
		rel.OwnerPrivate = owner.IsPrivate
	}

	if viewerID == 0 {
		rel.Anonymous = true
		return rel, nil
	}
	if viewerID == ownerID {
		rel.IsOwner = true
		return rel, nil
	}

	blocked, err := r.graph.IsBlockedEither(ctx, viewerID, ownerID)
	if err != nil {
		return rel, err
	}
	rel.Blocked = blocked
	if blocked {
		return rel, nil
	}

	following, err := r.graph.IsFollowing(ctx, viewerID, ownerID)
	if err != nil {
		return rel, err
	}
	rel.Following = following
	return rel, nil
}
