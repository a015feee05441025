package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	profiledomain "profile-service-go/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[int]profiledomain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[int]profiledomain.Profile),
	}
}

func (r *ProfileRepository) Upsert(_ context.Context, profile *profiledomain.Profile) error {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[profile.UserID]
	if !ok {
		existing = profiledomain.Profile{
			ID:        uuid.NewString(),
			UserID:    profile.UserID,
			CreatedAt: now,
		}
	}
	existing.Document = cloneDocument(profile.Document)
	existing.UpdatedAt = now
	r.profiles[profile.UserID] = existing

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID int) (*profiledomain.Profile, error) {
	r.mu.RLock()
	stored, ok := r.profiles[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, profiledomain.ErrProfileNotFound
	}

	stored.Document = cloneDocument(stored.Document)
	return &stored, nil
}

func (r *ProfileRepository) Ping(context.Context) error {
	return nil
}

func cloneDocument(doc profiledomain.Document) profiledomain.Document {
	return profiledomain.Document{
		Name:      cloneString(doc.Name),
		Email:     cloneString(doc.Email),
		Interests: cloneString(doc.Interests),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
