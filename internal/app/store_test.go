package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-service-go/internal/config"
	"profile-service-go/internal/db"
	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/internal/repository/inmemory"
	sqliteprofile "profile-service-go/internal/repository/sqlite/profile"
	"profile-service-go/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestOpenStoreDrivers(t *testing.T) {
	redisServer := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.DBConfig
	}{
		{name: "memory", cfg: config.DBConfig{Driver: config.DriverMemory}},
		{name: "sqlite", cfg: config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "profiles.db")}},
		{name: "redis", cfg: config.DBConfig{Driver: config.DriverRedis, RedisAddr: redisServer.Addr(), RedisKeyPrefix: "profiles"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConnectTimeout = time.Second
			st, err := openStore(tt.cfg, testLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = st.close() })

			svc := profiledomain.NewService(st.repo)
			name := "X"
			_, err = svc.UpdateProfile(context.Background(), profiledomain.Document{Name: &name})
			require.NoError(t, err)

			result, source, err := svc.GetProfile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, profiledomain.SourceStored, source)
			assert.Equal(t, "X", *result.Document.Name)
		})
	}
}

func TestOpenStoreUnreachable(t *testing.T) {
	cfg := config.DBConfig{
		Driver:         config.DriverRedis,
		RedisAddr:      "127.0.0.1:1",
		RedisKeyPrefix: "profiles",
		ConnectTimeout: 200 * time.Millisecond,
	}

	st, err := openStore(cfg, testLogger())
	require.NoError(t, err, "service starts while the store is down")
	t.Cleanup(func() { _ = st.close() })

	result, source, err := profiledomain.NewService(st.repo).GetProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, profiledomain.SourceFallback, source)
	assert.Equal(t, profiledomain.DefaultName, *result.Document.Name)

	cfg.RequireOnStart = true
	_, err = openStore(cfg, testLogger())
	assert.Error(t, err)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := openStore(config.DBConfig{Driver: "mongodb"}, testLogger())
	assert.Error(t, err)
}

// unreachableOnce fails its first Ping, as a store that is still starting up.
type unreachableOnce struct {
	profiledomain.Repository
	failed bool
}

func (r *unreachableOnce) Ping(ctx context.Context) error {
	if !r.failed {
		r.failed = true
		return errors.New("connection refused")
	}
	return r.Repository.Ping(ctx)
}

func TestConnectMigratesAfterStoreRecovers(t *testing.T) {
	cfg := config.DBConfig{
		Driver:         config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "profiles.db"),
		ConnectTimeout: time.Second,
	}
	sqlxDB, err := db.NewSQLite(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlxDB.Close() })

	st := &store{
		repo:  &unreachableOnce{Repository: sqliteprofile.NewSQLite(sqlxDB)},
		sqlDB: sqlxDB.DB,
		close: sqlxDB.Close,
	}
	require.NoError(t, st.connect(cfg, testLogger()))

	svc := profiledomain.NewService(st.repo)
	name := "X"
	_, err = svc.UpdateProfile(context.Background(), profiledomain.Document{Name: &name})
	require.NoError(t, err, "schema is created once the store answers")

	result, source, err := svc.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profiledomain.SourceStored, source)
	assert.Equal(t, "X", *result.Document.Name)
}

func TestSchemaGuardRetriesUntilMigrated(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		calls    int
	}{
		{name: "migrates on first use", failures: 0, calls: 1},
		{name: "retries after a failed attempt", failures: 1, calls: 2},
		{name: "retries until the store is back", failures: 3, calls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			guard := newSchemaGuard(inmemory.NewProfileRepository(), func() error {
				attempts++
				if attempts <= tt.failures {
					return errors.New("relation does not exist")
				}
				return nil
			}, testLogger())

			profile := &profiledomain.Profile{UserID: profiledomain.SingletonUserID}
			for i := 0; i < tt.failures; i++ {
				assert.Error(t, guard.Upsert(context.Background(), profile))
			}
			require.NoError(t, guard.Upsert(context.Background(), profile))

			_, err := guard.GetByUserID(context.Background(), profiledomain.SingletonUserID)
			require.NoError(t, err)
			require.NoError(t, guard.Ping(context.Background()))
			assert.Equal(t, tt.calls, attempts, "migrations stop once applied")
		})
	}
}
