package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/histchat/config"
	"github.com/mohammad-safakhou/histchat/internal/chat"
	"github.com/mohammad-safakhou/histchat/provider"
	"github.com/mohammad-safakhou/histchat/session/inmemory"
)

const apiVersion = "1.0.0"

// Run wires the store, orchestrator and handlers together and serves the
// API on addr (falling back to the configured address).
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
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
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	// Shared dependencies (top-level DI): store, inference client,
	// orchestrator. All conversation state lives in the store.
	store := inmemory.NewStore(cfg.Session.MaxHistory)
	llm, err := provider.New(cfg.Model)
	if err != nil {
		return err
	}
	chatLogger := log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	orch := chat.NewOrchestrator(cfg.Model, store, llm, chatLogger)

	metrics := NewMetrics(store)
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}
	registerDocs(e)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, RootResponse{
			Message: "Welcome to Histchat API",
			Version: apiVersion,
			Model:   cfg.Model.Name,
			Docs:    "/api/docs",
			Health:  "/api/v1/health",
		})
	})

	api := e.Group("/api/v1")
	(&HealthHandler{Store: store, LLM: llm}).Register(api)
	(&ChatHandler{Orch: orch, Metrics: metrics}).Register(api)
	(&SessionsHandler{Store: store}).Register(api)

	// Idle-session eviction is opt-in; without a TTL sessions persist until
	// explicit deletion or process exit.
	if cfg.Session.TTL > 0 {
		sweeper := &Sweeper{
			Store:    store,
			TTL:      cfg.Session.TTL,
			Schedule: cfg.Session.SweepSchedule,
			Metrics:  metrics,
			Stop:     make(chan struct{}),
		}
		sweeper.Start()
	}

	if addr == "" {
		addr = cfg.Server.Address
		if addr == "" {
			addr = ":8080"
		}
	}
	log.Printf("listening on %s (model %s via %s)", addr, cfg.Model.Name, cfg.Model.Provider)
	return e.Start(addr)
}
