// Command districts imports the legal district code reference file into sqlite.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"aptdeals/server/config"
	"aptdeals/server/internal/database"
	"aptdeals/server/internal/region"

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

	file := flag.String("file", cfg.Storage.DistrictFile, "district code file (tab separated, UTF-8 or EUC-KR)")
	dbPath := flag.String("db", cfg.Storage.DatabasePath, "sqlite database path")
	flag.Parse()

	records, err := region.NewFileSource(*file).Load(context.Background())
	if err != nil {
		logger.WithError(err).WithField("file", *file).Fatal("Failed to read district file")
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}
	if err := db.ReplaceDistricts(records); err != nil {
		logger.WithError(err).Fatal("Failed to import districts")
	}

	total, active, err := db.CountDistricts()
	if err != nil {
		logger.WithError(err).Fatal("Failed to count districts")
	}
	logger.WithFields(logrus.Fields{
		"file":   *file,
		"db":     *dbPath,
		"total":  total,
		"active": active,
	}).Info("District import completed")
}
