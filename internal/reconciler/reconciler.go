// Package reconciler keeps the Redis was-here counts honest: cached values
// drift when writes race or Redis restarts, so the hottest reels are
// periodically recounted from the database.
package reconciler

import (
	"context"
	"time"

	"github.com/trailgram/social-graph-service/internal/config"
	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/store"
	pkglog "github.com/trailgram/social-graph-service/pkg/log"
)

// Reconciler periodically syncs hot-reel Redis counts with the database.
type Reconciler struct {
	store  store.EngagementStore
	repo   repository.EngagementRepository
	cfg    config.ReconcilerConfig
	quit   chan struct{}
	doneCh chan struct{}
}

// New creates a new Reconciler.
func New(store store.EngagementStore, repo repository.EngagementRepository, cfg config.ReconcilerConfig) *Reconciler {
	return &Reconciler{
		store:  store,
		repo:   repo,
		cfg:    cfg,
		quit:   make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the reconciler in a background goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop signals the reconciler to stop and returns immediately.
// Call Done() to wait for it to exit.
func (r *Reconciler) Stop() {
	close(r.quit)
}

// Done returns a channel that is closed when the reconciler has fully
// stopped.
func (r *Reconciler) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	interval := r.cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile recounts the top-N hot reels from the database and rewrites
// their cached totals, then resets the access scores for the next window.
func (r *Reconciler) reconcile(ctx context.Context) {
	l := pkglog.L()

	topN := int64(r.cfg.TopN)
	if topN <= 0 {
		topN = 100
	}

	reelIDs, err := r.store.GetTopHotReels(ctx, topN)
	if err != nil {
		l.Warn().Err(err).Msg("reconciler: failed to get hot reels")
		return
	}
	if len(reelIDs) == 0 {
		return
	}

	synced := 0
	for _, reelID := range reelIDs {
		count, err := r.repo.CountActive(ctx, reelID, domain.EngagementWasHere)
		if err != nil {
			l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("reconciler: recount failed")
			continue
		}
		if err := r.store.SetWasHereCount(ctx, reelID, count); err != nil {
			l.Warn().Err(err).Uint64(pkglog.FieldReelID, reelID).Msg("reconciler: cache write failed")
			continue
		}
		synced++
	}

	if err := r.store.ResetHotReelScores(ctx); err != nil {
		l.Warn().Err(err).Msg("reconciler: failed to reset hot reel scores")
	}

	l.Debug().Int("hot_reels", len(reelIDs)).Int("synced", synced).Msg("reconcile pass completed")
}
