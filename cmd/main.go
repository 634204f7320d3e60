package main

import (
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	"github.com/salman-dev-app/pro-bot-heroku/internal/bot"
	"github.com/salman-dev-app/pro-bot-heroku/internal/config"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/memory_storage"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/postgres_storage"
	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/web_server/web_server_service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	// The keep-alive server starts first and keeps running even when the
	// bot configuration is broken, so uptime probes stay green while the
	// operator fixes the config vars.
	webServer := web_server_service.NewWebServer(config.WebPort())
	go func() {
		if err := webServer.Start(); err != nil {
			log.Printf("Keep-alive server stopped: %v", err)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("CRITICAL: essential bot configuration is missing: %v", err)
		log.Println("Bot loop not started; keep-alive server continues to run")
		select {}
	}

	if !cfg.Configured() {
		log.Println("DROPBOX_REFRESH_TOKEN is not set, starting in setup mode")
	}

	store := newUploadStore(cfg)

	b, err := bot.New(cfg, store)
	if err != nil {
		log.Printf("CRITICAL: %v", err)
		log.Println("Bot loop not started; keep-alive server continues to run")
		select {}
	}

	b.Start()
}

func newUploadStore(cfg *config.Config) bot.UploadStore {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL is not set, keeping upload history in memory")
		return memory_storage.NewMemoryStorage()
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Printf("Failed to open history database, falling back to memory: %v", err)
		return memory_storage.NewMemoryStorage()
	}

	store, err := postgres_storage.NewPostgresStorage(db)
	if err != nil {
		log.Printf("Failed to prepare history database, falling back to memory: %v", err)
		return memory_storage.NewMemoryStorage()
	}

	return store
}
