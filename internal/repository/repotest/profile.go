// Package repotest holds the behaviour every profile repository must share.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profiledomain "profile-service-go/internal/domain/profile"
)

func strPtr(value string) *string {
	return &value
}

// RunProfileRepository runs the upsert/find contract against a fresh, empty
// repository returned by newRepo.
func RunProfileRepository(t *testing.T, newRepo func(t *testing.T) profiledomain.Repository) {
	t.Run("GetMissing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByUserID(context.Background(), profiledomain.SingletonUserID)
		require.ErrorIs(t, err, profiledomain.ErrProfileNotFound)
	})

	t.Run("UpsertCreates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Upsert(ctx, &profiledomain.Profile{
			UserID: profiledomain.SingletonUserID,
			Document: profiledomain.Document{
				Name:      strPtr("X"),
				Email:     strPtr("Y"),
				Interests: strPtr("Z"),
			},
		})
		require.NoError(t, err)

		stored, err := repo.GetByUserID(ctx, profiledomain.SingletonUserID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.Equal(t, profiledomain.SingletonUserID, stored.UserID)
		require.NotNil(t, stored.Document.Name)
		assert.Equal(t, "X", *stored.Document.Name)
		assert.Equal(t, "Y", *stored.Document.Email)
		assert.Equal(t, "Z", *stored.Document.Interests)
	})

	t.Run("UpsertReplacesDocument", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Upsert(ctx, &profiledomain.Profile{
			UserID:   profiledomain.SingletonUserID,
			Document: profiledomain.Document{Name: strPtr("first"), Interests: strPtr("go")},
		}))
		first, err := repo.GetByUserID(ctx, profiledomain.SingletonUserID)
		require.NoError(t, err)

		require.NoError(t, repo.Upsert(ctx, &profiledomain.Profile{
			UserID:   profiledomain.SingletonUserID,
			Document: profiledomain.Document{Name: strPtr("second")},
		}))
		second, err := repo.GetByUserID(ctx, profiledomain.SingletonUserID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "second", *second.Document.Name)
		assert.Nil(t, second.Document.Interests)
		assert.Nil(t, second.Document.Email)
	})

	t.Run("ConcurrentUpsertsLastWriterWins", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const writers = 16
		var wg sync.WaitGroup
		wg.Add(writers)
		for i := 0; i < writers; i++ {
			go func(n int) {
				defer wg.Done()
				suffix := fmt.Sprintf("%d", n)
				err := repo.Upsert(ctx, &profiledomain.Profile{
					UserID: profiledomain.SingletonUserID,
					Document: profiledomain.Document{
						Name:      strPtr("name-" + suffix),
						Email:     strPtr("email-" + suffix),
						Interests: strPtr("interests-" + suffix),
					},
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		stored, err := repo.GetByUserID(ctx, profiledomain.SingletonUserID)
		require.NoError(t, err)
		require.NotNil(t, stored.Document.Name)

		var n int
		_, err = fmt.Sscanf(*stored.Document.Name, "name-%d", &n)
		require.NoError(t, err)
		suffix := fmt.Sprintf("%d", n)
		assert.Equal(t, "email-"+suffix, *stored.Document.Email)
		assert.Equal(t, "interests-"+suffix, *stored.Document.Interests)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(context.Background()))
	})
}
