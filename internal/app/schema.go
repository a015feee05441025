package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/pkg/logger"
)

// schemaGuard applies pending migrations before the first store operation
// that follows a failed startup attempt. Every call retries migrate until it
// succeeds once.
type schemaGuard struct {
	next    profiledomain.Repository
	migrate func() error
	log     logger.Logger

	mu    sync.Mutex
	ready atomic.Bool
}

func newSchemaGuard(next profiledomain.Repository, migrate func() error, log logger.Logger) *schemaGuard {
	return &schemaGuard{next: next, migrate: migrate, log: log}
}

func (g *schemaGuard) ensure() error {
	if g.ready.Load() {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready.Load() {
		return nil
	}
	if err := g.migrate(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	g.ready.Store(true)
	g.log.Info("db: migrations applied after recovery")
	return nil
}

func (g *schemaGuard) Upsert(ctx context.Context, profile *profiledomain.Profile) error {
	if err := g.ensure(); err != nil {
		return err
	}
	return g.next.Upsert(ctx, profile)
}

func (g *schemaGuard) GetByUserID(ctx context.Context, userID int) (*profiledomain.Profile, error) {
	if err := g.ensure(); err != nil {
		return nil, err
	}
	return g.next.GetByUserID(ctx, userID)
}

func (g *schemaGuard) Ping(ctx context.Context) error {
	if err := g.next.Ping(ctx); err != nil {
		return err
	}
	return g.ensure()
}
