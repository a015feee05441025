package profile

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpdateProfile stores doc as the singleton profile and echoes the submitted
// document back under SingletonUserID. The returned profile is built from the
// input, not read back from the store.
func (s *Service) UpdateProfile(ctx context.Context, doc Document) (*Profile, error) {
	stored := Profile{
		UserID:   SingletonUserID,
		Document: doc,
	}
	if err := s.repo.Upsert(ctx, &stored); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return &Profile{
		UserID:   SingletonUserID,
		Document: doc,
	}, nil
}

// GetProfile returns the stored profile, or DefaultProfile when none exists.
// On store failure it still returns DefaultProfile together with the error,
// so callers decide whether to mask the failure.
func (s *Service) GetProfile(ctx context.Context) (*Profile, Source, error) {
	stored, err := s.repo.GetByUserID(ctx, SingletonUserID)
	if err == nil {
		return stored, SourceStored, nil
	}

	fallback := DefaultProfile()
	if errors.Is(err, ErrProfileNotFound) {
		return &fallback, SourceDefault, nil
	}
	return &fallback, SourceFallback, fmt.Errorf("get profile: %w", err)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
