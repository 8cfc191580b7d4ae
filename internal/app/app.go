// Package app contains the HTTP JSON API.
package app

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/ende/internal/config"
	"github.com/stolasapp/ende/internal/storage"
)

// New creates the API server. The config is expected to be validated.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	flows storage.Flows,
) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	srv.Use(
		middleware.Recover(),
		middleware.RequestID(),
	)
	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	}
	srv.Use(
		middleware.Secure(),
		middleware.Decompress(),
		middleware.Gzip(),
		middleware.BodyLimit(cfg.MaxBody),
	)

	api := srv.Group("/api")
	if cfg.APIToken != "" {
		token := []byte(cfg.APIToken)
		api.Use(middleware.KeyAuth(func(key string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), token) == 1, nil
		}))
	}

	handler{
		flows:  flows,
		cache:  newResponseCache(cfg.CacheBytes),
		logger: logger.With(slog.String("component", "api")),
	}.register(api)
	return srv
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("id", res.Header().Get(echo.HeaderXRequestID)),
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return nil
		}
	}
}
