// Package visibility implements the pure access decision for user-generated
// content. Nothing here touches storage: callers load the viewer/owner
// relation once per request and evaluate it against content state.
package visibility

import (
	"errors"

	"github.com/trailgram/social-graph-service/internal/domain"
)

// ErrHidden is returned by the profile-set functions when the viewer may not
// see any of the profile's content.
var ErrHidden = errors.New("profile hidden from viewer")

// Relation captures everything the resolver needs to know about a
// (viewer, owner) pair. It is computed once per request and reused for every
// content row touched by that request.
type Relation struct {
	// Anonymous is set when no caller identity is present.
	Anonymous bool
	// IsOwner is set when the viewer is the content owner.
	IsOwner bool
	// Blocked is set when a block edge exists in either direction.
	Blocked bool
	// Following is set when the viewer follows the owner.
	Following bool
	// OwnerPrivate mirrors the owner account's privacy flag.
	OwnerPrivate bool
}

// CanViewReel decides whether the relation permits viewing a reel with the
// given visibility tier. Evaluation order is fixed: anonymity, ownership,
// blocks, then tier.
func CanViewReel(v domain.ReelVisibility, rel Relation) bool {
	if rel.Anonymous {
		return v == domain.ReelPublic && !rel.OwnerPrivate
	}
	if rel.IsOwner {
		return true
	}
	if rel.Blocked {
		return false
	}
	switch v {
	case domain.ReelPrivate:
		return false
	case domain.ReelFollowers:
		return rel.Following
	case domain.ReelPublic:
		if rel.OwnerPrivate {
			return rel.Following
		}
		return true
	}
	return false
}

// CanViewMemory decides access for the two-state memory vocabulary.
// open_to_all behaves like a followers-gated public tier; there is no
// anonymous tier for memories.
func CanViewMemory(p domain.MemoryPrivacy, rel Relation) bool {
	if rel.Anonymous {
		return false
	}
	if rel.IsOwner {
		return true
	}
	if rel.Blocked {
		return false
	}
	switch p {
	case domain.MemoryPrivate:
		return false
	case domain.MemoryOpenToAll:
		if rel.OwnerPrivate {
			return rel.Following
		}
		return true
	}
	return false
}

// ReelProfileSet derives the single visibility-set filter for listing one
// owner's reels. List endpoints run one set-filtered query instead of
// evaluating CanViewReel row by row.
func ReelProfileSet(rel Relation) ([]domain.ReelVisibility, error) {
	if rel.IsOwner {
		return []domain.ReelVisibility{domain.ReelPublic, domain.ReelFollowers, domain.ReelPrivate}, nil
	}
	if rel.Blocked {
		return nil, ErrHidden
	}
	if rel.Anonymous {
		if rel.OwnerPrivate {
			return nil, ErrHidden
		}
		return []domain.ReelVisibility{domain.ReelPublic}, nil
	}
	if rel.Following {
		return []domain.ReelVisibility{domain.ReelPublic, domain.ReelFollowers}, nil
	}
	if rel.OwnerPrivate {
		return nil, ErrHidden
	}
	return []domain.ReelVisibility{domain.ReelPublic}, nil
}

// MemoryProfileSet is the memory-vocabulary counterpart of ReelProfileSet.
func MemoryProfileSet(rel Relation) ([]domain.MemoryPrivacy, error) {
	if rel.IsOwner {
		return []domain.MemoryPrivacy{domain.MemoryPrivate, domain.MemoryOpenToAll}, nil
	}
	if rel.Anonymous || rel.Blocked {
		return nil, ErrHidden
	}
	if rel.OwnerPrivate && !rel.Following {
		return nil, ErrHidden
	}
	return []domain.MemoryPrivacy{domain.MemoryOpenToAll}, nil
}
