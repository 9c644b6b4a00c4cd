package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// NewServer builds the Echo instance serving the board API.
func NewServer(b Board, defaults CaptureDefaults, input http.Handler, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(requestLogger(logger))

	Register(e, b, defaults, input, logger)
	return e
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.WithFields(log.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start).String(),
			}).Debug("[API] request")
			return nil
		}
	}
}
