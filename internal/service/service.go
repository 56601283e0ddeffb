// Package service coordinates validation, id assignment, and store
// operations for the API, MCP, and sweeper entry points.
package service

import (
	"context"
	"log/slog"

	"github.com/starford/laguz/internal/sse"
	"github.com/starford/laguz/internal/store"
)

// Service wraps the store with input validation and change notification.
type Service struct {
	store  *store.Store
	broker *sse.Broker
	logger *slog.Logger
}

// NewService creates a new service. broker may be nil (no notifications).
func NewService(st *store.Store, broker *sse.Broker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, broker: broker, logger: logger}
}

// notifyChange publishes an entity change event plus the current outbox
// depth. Best-effort: notification failures never affect the mutation.
func (s *Service) notifyChange(ctx context.Context, entity, kind, id string) {
	if s.broker == nil {
		return
	}
	count, err := s.store.PendingCount(ctx)
	if err != nil {
		count = 0
	}
	s.broker.PublishChange(entity, kind, id, count)
}

// Sweep runs the periodic maintenance pass: orphan reminders today,
// possibly more later.
func (s *Service) Sweep(ctx context.Context) {
	n, err := s.store.SweepOrphanReminders(ctx)
	if err != nil {
		s.logger.Warn("sweep: orphan reminders failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		s.logger.Info("sweep: removed orphan reminders", slog.Int64("count", n))
	}
}
