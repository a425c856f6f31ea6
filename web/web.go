// SPDX-License-Identifier: MPL-2.0

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"appsfeed/metrics"
	"appsfeed/web/handler"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"github.com/prometheus/client_golang/prometheus"
	slogecho "github.com/samber/slog-echo"
)

type Config struct {
	Addr string
	// File is served as /apps.json and read again on every request.
	File     string
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// New builds the apps origin server without starting it.
func New(cfg Config) *echo.Echo {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middlewares
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: cuid2.Generate,
	}))
	e.Use(slogecho.New(cfg.Logger.WithGroup("web")))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogLevel:  log.ERROR,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "appsfeed_origin",
		Registerer: cfg.Registry,
	}))

	routes(e, cfg)
	return e
}

func routes(e *echo.Echo, cfg Config) {
	e.GET("/apps.json", handler.ServeApps(cfg.File), NoStore())
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(cfg.Registry)), NoStore())
}

// Start runs the server in the background. Stop it with Shutdown. A listen
// error is sent on the returned channel, which is closed once the server stops.
func Start(cfg Config) (*echo.Echo, <-chan error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	e := New(cfg)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Logger.Error("Error starting HTTP server", slog.Any("error", err))
			errs <- err
		}
	}()
	logPrefix := ""
	if !strings.HasPrefix(cfg.Addr, ":") {
		logPrefix = "http://"
	}
	cfg.Logger.Info("Apps origin is listening", slog.String("addr", cfg.Addr), slog.String("file", cfg.File))
	cfg.Logger.Info("Serving " + logPrefix + cfg.Addr + "/apps.json")
	return e, errs
}
