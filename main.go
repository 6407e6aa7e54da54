package main

import (
	"context"
	"log"

	"payslip/internal/config"
	"payslip/internal/container"
	"payslip/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal in production
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()

	server := ui.NewServer(ui.Files, appContainer.Lookup, appContainer.Updater, ui.Options{
		MaxUploadBytes: appConfig.Data.MaxUploadBytes(),
		UsingFallback:  appConfig.Admin.UsingFallback,
		NoticeFile:     appConfig.Data.NoticeFile,
	}, appContainer.Logger)
	if err := server.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		appContainer.Logger.Error("[Server] stopped: %v", err)
	}
}
