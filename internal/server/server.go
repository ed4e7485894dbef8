package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/abhinavghub/trip-planner/config"
	"github.com/abhinavghub/trip-planner/internal/planner"
	"github.com/abhinavghub/trip-planner/internal/telemetry"
)

// Run starts the HTTP API server and blocks until it exits.
func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	// Allow CORS for local frontend development
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tele = telemetry.New(prometheus.DefaultRegisterer)
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	} else {
		tele = telemetry.New(nil)
	}

	generator := planner.NewInferenceClient(cfg.Generation.Endpoint, cfg.Generation.Timeout)
	workflow := planner.NewWorkflow(generator, tele, cfg.Generation.MaxLength)

	api := e.Group("/api")
	th := &TripsHandler{Workflow: workflow}
	th.Register(api.Group("/trips"))

	return e.Start(cfg.Server.Address)
}
