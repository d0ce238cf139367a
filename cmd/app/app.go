package app

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/config"
	"blogbreeze/internal/database"
	"blogbreeze/internal/metrics"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
	"blogbreeze/internal/storage"
)

// SetupLogger applies the configured level and formatter to the global logrus logger.
func SetupLogger(cfg config.Log) {
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("неизвестный уровень логирования %q, используется info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func App(cfg *config.Config) (*database.DB, *service.Service, *metrics.Metrics) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	m := metrics.New()

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, minioClient, m)

	return db, services, m
}
