package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"blogbreeze/cmd/app"
	"blogbreeze/internal/config"
	handlers "blogbreeze/internal/handler"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	app.SetupLogger(cfg.Log)

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен")
	}

	db, services, m := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, db, cfg)
	router := newRouter(handler, services.Auth, m)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": addr, "db": cfg.DB.DbNAME}).Info("сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("ошибка остановки сервера")
	}
	log.Info("сервер остановлен")
}
