package handler

import (
	"time"

	profiledomain "profile-service-go/internal/domain/profile"
	"profile-service-go/pkg/logger"
)

const defaultPingTimeout = 5 * time.Second

type Options struct {
	// MaskReadErrors serves the default profile with 200 when the store
	// fails on read. When false the failure surfaces as 503.
	MaskReadErrors bool
	PingTimeout    time.Duration
}

type Handlers struct {
	Profiles *profiledomain.Service
	log      logger.Logger
	opts     Options
}

func New(profiles *profiledomain.Service, opts Options, log logger.Logger) *Handlers {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = defaultPingTimeout
	}

	return &Handlers{
		Profiles: profiles,
		log:      log,
		opts:     opts,
	}
}
