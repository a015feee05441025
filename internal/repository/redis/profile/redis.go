package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	profiledomain "profile-service-go/internal/domain/profile"
)

const (
	fieldID        = "id"
	fieldUserID    = "userid"
	fieldDocument  = "document"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// RedisRepository keeps each profile in a hash at "<prefix>:<userid>".
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(userID int) string {
	return r.prefix + ":" + strconv.Itoa(userID)
}

func (r *RedisRepository) Upsert(ctx context.Context, profile *profiledomain.Profile) error {
	document, err := json.Marshal(profile.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	key := r.key(profile.UserID)
	now := time.Now().UTC()

	var idCmd *redis.StringCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldID, uuid.NewString())
		pipe.HSetNX(ctx, key, fieldCreatedAt, now.UnixMilli())
		pipe.HSet(ctx, key,
			fieldUserID, profile.UserID,
			fieldDocument, string(document),
			fieldUpdatedAt, now.UnixMilli(),
		)
		idCmd = pipe.HGet(ctx, key, fieldID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis upsert: %w", err)
	}

	profile.ID = idCmd.Val()
	profile.UpdatedAt = now
	return nil
}

func (r *RedisRepository) GetByUserID(ctx context.Context, userID int) (*profiledomain.Profile, error) {
	fields, err := r.client.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis find: %w", err)
	}
	if len(fields) == 0 {
		return nil, profiledomain.ErrProfileNotFound
	}

	profile := profiledomain.Profile{
		ID:        fields[fieldID],
		UserID:    userID,
		CreatedAt: parseMillis(fields[fieldCreatedAt]),
		UpdatedAt: parseMillis(fields[fieldUpdatedAt]),
	}
	if raw := fields[fieldDocument]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile.Document); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}
	return &profile, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func parseMillis(value string) time.Time {
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis).UTC()
}
