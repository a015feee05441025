package db

import (
	"github.com/redis/go-redis/v9"

	"profile-service-go/internal/config"
	"profile-service-go/pkg/logger"
)

func NewRedis(cfg config.DBConfig, log logger.Logger) *redis.Client {
	log.Info("db: opening redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.ConnectTimeout,
		PoolSize:    orDefault(cfg.MaxOpenConns, defaultMaxOpenConns),
	})
}
