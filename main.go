package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/technova/compintel/bls"
	"github.com/technova/compintel/config"
	"github.com/technova/compintel/db"
	"github.com/technova/compintel/handlers"
	applog "github.com/technova/compintel/logger"
	mw "github.com/technova/compintel/middleware"
	"github.com/technova/compintel/pipeline"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	client := bls.NewClient(cfg.BLSBaseURL, cfg.BLSRegistrationKey, cfg.BLSRequestTimeout, cfg.BLSRequestDelay, logger)
	runner := pipeline.NewRunner(
		pipeline.NewReferences(bdb),
		client,
		pipeline.NewStorage(bdb),
		cfg.BLSBatchSize(),
		cfg.BLSSurveyYear,
		logger,
	)

	if cfg.PipelineSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.PipelineSchedule, func() {
			run, err := runner.Run(context.Background(), pipeline.Options{TriggerSource: "scheduled"})
			if err != nil {
				logger.Error("scheduled run failed", zap.Error(err), zap.String("status", string(run.Status)))
			}
		})
		if err != nil {
			logger.Fatal("invalid PIPELINE_SCHEDULE", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("pipeline schedule active", zap.String("spec", cfg.PipelineSchedule))
	}

	h := handlers.New(bdb, runner, cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected: require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.POST("/pipeline/run", h.RunPipeline)
	api.GET("/runs", h.Runs)
	api.GET("/freshness", h.Freshness)
	api.GET("/benchmarks", h.Benchmarks)
	api.GET("/occupations", h.Occupations)
	api.GET("/areas", h.Areas)
	api.POST("/upload/employees", h.UploadEmployees)
	api.POST("/upload/grades", h.UploadJobGrades)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
