package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	profiledomain "profile-service-go/internal/domain/profile"
)

type profileRow struct {
	ID        string `db:"id"`
	UserID    int    `db:"userid"`
	Document  string `db:"document"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

type SQLiteRepository struct {
	db *sqlx.DB
}

func NewSQLite(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, profile *profiledomain.Profile) error {
	document, err := json.Marshal(profile.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, userid, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (userid) DO UPDATE
		SET document = excluded.document, updated_at = excluded.updated_at
	`, profile.ID, profile.UserID, string(document), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}

	profile.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID int) (*profiledomain.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, userid, document, created_at, updated_at
		FROM profiles
		WHERE userid = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profiledomain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite find: %w", err)
	}

	profile := profiledomain.Profile{
		ID:        row.ID,
		UserID:    row.UserID,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(row.UpdatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Document), &profile.Document); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &profile, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
