package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"animeplan/config"
	"animeplan/database"
	"animeplan/router"

	// Plan
	planCtrlImp "animeplan/pkg/plan/controllerImp"
	planRepoImp "animeplan/pkg/plan/repositoryImp"
	planSvc "animeplan/pkg/plan/serviceImp"

	// Sources
	"animeplan/pkg/ai"
	"animeplan/pkg/news"
	"animeplan/pkg/shikimori"
	"animeplan/pkg/upstream"

	// Sessions
	"animeplan/pkg/session"
	sessionCtrlImp "animeplan/pkg/session/controllerImp"

	// Auth + Health
	authCtrlImp "animeplan/pkg/auth/controllerImp"
	healthCtrlImp "animeplan/pkg/health/controllerImp"

	"animeplan/pkg/logging"
)

func main() {
	// 1) Config + logging
	cfg, err := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}

	// 2) DB (sqlite) + plan table
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	pSvc := planSvc.NewPlanService(planRepoImp.New(db))

	// 3) Upstreams
	catalogHTTP := upstream.New(upstream.Options{
		Name:      "shikimori",
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		RPS:       cfg.UpstreamRPS,
		Burst:     2,
	})
	newsHTTP := upstream.New(upstream.Options{
		Name:      "news",
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		RPS:       cfg.UpstreamRPS,
	})

	var newsSrc session.News
	if cfg.NewsSource == "rss" {
		newsSrc = news.NewFeedClient(cfg.NewsFeedURL, newsHTTP)
	} else {
		newsSrc = news.NewHTMLClient(cfg.NewsURL, newsHTTP)
	}

	// 4) LLM (mock fallback)
	var llm ai.Client
	if cfg.LLMEnabled() {
		llm = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, 2*cfg.HTTPTimeout)
	} else {
		logging.Info().Msg("LLM_ENDPOINT/LLM_API_KEY not set, using mock descriptions")
		llm = ai.NewMock()
	}

	var season shikimori.Season
	if cfg.Season != "" {
		if season, err = shikimori.ParseSeason(cfg.Season); err != nil {
			logging.Fatal().Err(err).Msg("SEASON")
		}
	}

	// 5) Sessions
	agg := session.NewAggregator(session.Deps{
		Plan:      pSvc,
		Catalog:   shikimori.NewCatalogClient(cfg.ShikimoriBaseURL, catalogHTTP),
		Seasonal:  shikimori.NewSeasonalClient(cfg.ShikimoriBaseURL, catalogHTTP),
		News:      newsSrc,
		Describer: llm,
	}, session.Options{
		SeasonalLimit: cfg.SeasonalLimit,
		SeasonalOrder: cfg.SeasonalOrder,
		NewsLimit:     cfg.NewsLimit,
		Season:        season,
	})
	registry := session.NewRegistry(agg, cfg.SessionIdleTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go registry.Run(ctx)

	// 6) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			ev := logging.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = logging.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))

	r := router.New(
		e,
		sessionCtrlImp.NewSessionCtrl(agg, registry),
		planCtrlImp.NewPlanCtrl(pSvc),
		authCtrlImp.NewAuthController(),
		healthCtrlImp.NewHealthCtrl(db, catalogHTTP, newsHTTP),
	)

	// 7) Start + graceful shutdown
	go func() {
		logging.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Str("news", cfg.NewsSource).Msg("listening")
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
	registry.CloseAll()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
