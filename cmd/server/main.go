package main

import (
	"net/http"
	"os"
	"path/filepath"

	"aptdeals/server/config"
	"aptdeals/server/internal/api"
	"aptdeals/server/internal/database"
	"aptdeals/server/internal/fetcher"
	"aptdeals/server/internal/metrics"
	"aptdeals/server/internal/region"
	"aptdeals/server/internal/transactions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Prefer the imported sqlite table, fall back to reading the reference file
	var source region.Source = region.NewFileSource(cfg.Storage.DistrictFile)
	if cfg.Storage.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
			logger.WithError(err).Fatal("Failed to create database directory")
		}
		db, err := database.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database")
		}
		defer db.Close()

		logger.Info("Running database migrations...")
		if err := db.RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Failed to run database migrations")
		}

		total, active, err := db.CountDistricts()
		if err != nil {
			logger.WithError(err).Fatal("Failed to count districts")
		}
		if total > 0 {
			logger.WithFields(logrus.Fields{"total": total, "active": active}).Info("Using district table from database")
			source = db
		} else {
			logger.WithField("file", cfg.Storage.DistrictFile).Info("District table is empty, reading reference file")
		}
	}

	m := metrics.New()
	index := region.NewIndex(source, logger)
	client := fetcher.NewRTMSClient(fetcher.Options{
		BaseURL:   cfg.RTMS.BaseURL,
		Timeout:   cfg.RTMS.Timeout,
		PageSize:  cfg.RTMS.PageSize,
		UserAgent: cfg.RTMS.UserAgent,
	}, logger, m)
	service := transactions.NewService(index, client, m, logger)

	prefs := config.NewPreferenceStore(cfg.Storage.PreferencesPath)
	if err := prefs.Load(); err != nil {
		logger.WithError(err).Error("Failed to load preferences, starting empty")
		prefs = config.NewPreferenceStore(cfg.Storage.PreferencesPath)
	}

	handler := api.NewHandler(service, index, prefs, cfg.RTMS.ServiceKey, logger)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Service-Key"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	api.SetupRoutes(router, handler, m)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
