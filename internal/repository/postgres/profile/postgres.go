package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	profiledomain "profile-service-go/internal/domain/profile"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *profiledomain.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "userid"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("postgres upsert: %w", describe(err))
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int) (*profiledomain.Profile, error) {
	var profile profiledomain.Profile
	err := r.db.WithContext(ctx).Where("userid = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, profiledomain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres find: %w", describe(err))
	}
	return &profile, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// describe prefixes postgres errors with their SQLSTATE so log lines show the
// failure class (23505 unique violation, 42P01 missing table, ...).
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("sqlstate %s: %w", pgErr.Code, err)
	}
	return err
}
