package app

import (
	"net/http"

	"profile-service-go/internal/config"
	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/internal/transport/httpserver"
	"profile-service-go/internal/transport/httpserver/handler"
	"profile-service-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	store      *store
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing store", "driver", cfg.DB.Driver)
	st, err := openStore(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	profiles := profiledomain.NewService(st.repo)
	handlers := handler.New(profiles, handler.Options{
		MaskReadErrors: cfg.Profile.MaskReadErrors,
		PingTimeout:    cfg.DB.ConnectTimeout,
	}, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		store:      st,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.close()
}
