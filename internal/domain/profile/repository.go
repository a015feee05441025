package profile

import "context"

type Repository interface {
	// Upsert inserts the profile keyed by UserID or replaces the stored
	// document of an existing one.
	Upsert(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	Ping(ctx context.Context) error
}
