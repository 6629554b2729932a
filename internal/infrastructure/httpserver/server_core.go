package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/grocerdata/pricecache/internal/core/ports"
	customMiddleware "github.com/grocerdata/pricecache/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	CacheService   ports.CacheService
	HealthCheckers []ports.HealthChecker
}

// Server exposes the cache's operational surface: health, usage statistics,
// namespace invalidation and Prometheus metrics. It does not serve cached
// payloads.
type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	cacheSvc       ports.CacheService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		cacheSvc:       deps.CacheService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
