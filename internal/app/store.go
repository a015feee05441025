package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"profile-service-go/internal/config"
	"profile-service-go/internal/db"
	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/internal/repository/inmemory"
	pgprofile "profile-service-go/internal/repository/postgres/profile"
	redisprofile "profile-service-go/internal/repository/redis/profile"
	sqliteprofile "profile-service-go/internal/repository/sqlite/profile"
	"profile-service-go/pkg/logger"
)

const defaultConnectTimeout = 5 * time.Second

type store struct {
	repo profiledomain.Repository
	// sqlDB is set for drivers that carry SQL migrations.
	sqlDB *sql.DB
	close func() error
}

func openStore(cfg config.DBConfig, log logger.Logger) (*store, error) {
	var s *store

	switch cfg.Driver {
	case config.DriverPostgres:
		gormDB, err := db.NewPostgres(cfg, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("db handle: %w", err)
		}
		s = &store{repo: pgprofile.NewPostgres(gormDB), sqlDB: sqlDB, close: sqlDB.Close}
	case config.DriverSQLite:
		sqlxDB, err := db.NewSQLite(cfg, log)
		if err != nil {
			return nil, err
		}
		s = &store{repo: sqliteprofile.NewSQLite(sqlxDB), sqlDB: sqlxDB.DB, close: sqlxDB.Close}
	case config.DriverRedis:
		client := db.NewRedis(cfg, log)
		s = &store{repo: redisprofile.NewRedis(client, cfg.RedisKeyPrefix), close: client.Close}
	case config.DriverMemory:
		log.Warn("db: using in-memory store, profiles are lost on restart")
		s = &store{repo: inmemory.NewProfileRepository(), close: func() error { return nil }}
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	if err := s.connect(cfg, log); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

// connect pings the store and applies migrations. An unreachable store is
// only fatal when RequireOnStart is set; otherwise migrations are deferred to
// the first operation that reaches the store, and until then requests fail
// (update) or fall back to the default profile (get).
func (s *store) connect(cfg config.DBConfig, log logger.Logger) error {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		if cfg.RequireOnStart {
			return fmt.Errorf("db ping: %w", err)
		}
		log.Error("db: store unreachable at startup, continuing", "driver", cfg.Driver, "err", err)
		s.deferMigrations(cfg.Driver, log)
		return nil
	}
	log.Info("db: connected", "driver", cfg.Driver)

	if s.sqlDB == nil {
		return nil
	}
	if err := db.Migrate(s.sqlDB, cfg.Driver); err != nil {
		if cfg.RequireOnStart {
			return err
		}
		log.Error("db: migrations failed, continuing", "driver", cfg.Driver, "err", err)
		s.deferMigrations(cfg.Driver, log)
		return nil
	}
	log.Info("db: migrations applied", "driver", cfg.Driver)
	return nil
}

func (s *store) deferMigrations(driver string, log logger.Logger) {
	if s.sqlDB == nil {
		return
	}
	sqlDB := s.sqlDB
	s.repo = newSchemaGuard(s.repo, func() error {
		return db.Migrate(sqlDB, driver)
	}, log)
}
