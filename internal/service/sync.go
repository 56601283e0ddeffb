package service

import (
	"context"

	"github.com/starford/laguz/internal/models"
)

// PendingOps returns the outbox contents in FIFO order for the sync engine.
func (s *Service) PendingOps(ctx context.Context) ([]models.PendingOp, error) {
	return s.store.ListPending(ctx)
}

// AckOps acknowledges pushed operations by id, removing exactly those
// entries from the outbox.
func (s *Service) AckOps(ctx context.Context, ids []int64) error {
	return s.store.DrainAndDelete(ctx, ids)
}

// FlushOps reads and removes the entire outbox in one transaction,
// returning what was drained.
func (s *Service) FlushOps(ctx context.Context) ([]models.PendingOp, error) {
	return s.store.DequeueAll(ctx)
}

// PendingCount returns the current outbox depth.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.store.PendingCount(ctx)
}
