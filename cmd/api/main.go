package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payslip/internal/api"
	"payslip/internal/config"
	"payslip/internal/container"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Close()

	handler := api.NewHandler(c.Lookup, c.Updater, api.Config{
		MaxUploadBytes: cfg.Data.MaxUploadBytes(),
		RequestTimeout: cfg.Remote.Timeout * 2,
	}, c.Logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.APIPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		c.Logger.Info("[API] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.Error("[API] server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	c.Logger.Info("[API] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Error("[API] shutdown: %v", err)
	}
}
