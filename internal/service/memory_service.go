package service

import (
	"context"
	"errors"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/visibility"
)

// memoryService implements MemoryService.
type memoryService struct {
	memories repository.MemoryRepository
	relation relationLoader
}

// NewMemoryService creates a new MemoryService instance.
func NewMemoryService(memories repository.MemoryRepository, graph repository.GraphRepository, accounts repository.AccountRepository) MemoryService {
	return &memoryService{
		memories: memories,
		relation: relationLoader{graph: graph, accounts: accounts},
	}
}

// GetMemory loads a single memory folder, applying the row-wise visibility
// decision.
func (s *memoryService) GetMemory(ctx context.Context, viewerID, memoryID uint64) (*domain.MemoryModel, error) {
	memory, err := s.memories.Get(ctx, memoryID)
	if err != nil {
		if errors.Is(err, repository.ErrMemoryNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, err
	}

	rel, err := s.relation.load(ctx, viewerID, memory.OwnerID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewMemory(memory.Privacy, rel) {
		return nil, ErrForbidden
	}
	return memory, nil
}

// ProfileMemories lists one owner's memory folders through a precomputed
// privacy-set filter.
func (s *memoryService) ProfileMemories(ctx context.Context, viewerID, ownerID uint64, p pagination.Params) ([]domain.MemoryModel, int64, error) {
	rel, err := s.relation.load(ctx, viewerID, ownerID)
	if err != nil {
		return nil, 0, err
	}

	set, err := visibility.MemoryProfileSet(rel)
	if err != nil {
		if errors.Is(err, visibility.ErrHidden) {
			return nil, 0, ErrHiddenProfile
		}
		return nil, 0, err
	}

	return s.memories.ListByOwner(ctx, ownerID, set, p)
}

// Ensure interface is satisfied at compile time.
var _ MemoryService = (*memoryService)(nil)
